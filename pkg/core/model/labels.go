package model

// Stored type codes and the labels the grid displays for them. Unknown codes
// are displayed as stored.

var shiftLabels = map[string]string{
	"LONG":  "Long day",
	"NIGHT": "Night",
	"RDO":   "RDO",
	"SLEEP": "Sleep day",
}

var leaveLabels = map[string]string{
	"ANNUAL":   "Annual",
	"EDU":      "Education",
	"CONF":     "Conference",
	"BE":       "Bereavement",
	"LIEU":     "Lieu day",
	"PARENTAL": "Parental",
	"SICK":     "Sick",
}

var statusLabels = map[string]string{
	"PRE_ONCALL": "Pre-oncall",
	"RELIEVER":   "Reliever",
	"PART_TIME":  "Part time non-working day",
	"PRE_EXAM":   "Pre-exam",
	"BUDDY":      "Buddy required",
	"NA":         "Not available",
}

func ShiftLabel(code string) string  { return labelFor(shiftLabels, code) }
func LeaveLabel(code string) string  { return labelFor(leaveLabels, code) }
func StatusLabel(code string) string { return labelFor(statusLabels, code) }

func labelFor(labels map[string]string, code string) string {
	if label, ok := labels[code]; ok {
		return label
	}
	return code
}
