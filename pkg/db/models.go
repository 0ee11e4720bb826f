package db

// Registrar represents a database registrar record
type Registrar struct {
	ID       int64
	Username string
	Senior   bool
	Start    string // date training started, 2006-01-02
	Finish   string // empty while still training
}

// Shift represents a database shift record. Type holds the stored code, e.g. "LONG".
type Shift struct {
	ID          int64
	RegistrarID int64
	Date        string
	Type        string
	ExtraDuty   bool
}

// Leave represents a database leave record. Approvals are nil until decided.
type Leave struct {
	ID          int64
	RegistrarID int64
	Date        string
	Type        string
	Portion     string
	RegApproved *bool
	DotApproved *bool
	Cancelled   bool
}

// Status represents a database status record
type Status struct {
	ID          int64
	RegistrarID int64
	Start       string
	End         string
	Type        string
	Weekdays    []int
	Comment     string
}
