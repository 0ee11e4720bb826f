package services

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/rostergrid/pkg/db"
)

// RosterFixture is a YAML roster export: registrars plus their shifts, leaves
// and statuses, referencing registrars by username
type RosterFixture struct {
	Registrars []FixtureRegistrar `yaml:"registrars" validate:"dive"`
	Shifts     []FixtureShift     `yaml:"shifts" validate:"dive"`
	Leaves     []FixtureLeave     `yaml:"leaves" validate:"dive"`
	Statuses   []FixtureStatus    `yaml:"statuses" validate:"dive"`
}

type FixtureRegistrar struct {
	Username string `yaml:"username" validate:"required"`
	Senior   bool   `yaml:"senior"`
	Start    string `yaml:"start" validate:"required,datetime=2006-01-02"`
	Finish   string `yaml:"finish,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type FixtureShift struct {
	Username  string `yaml:"username" validate:"required"`
	Date      string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Type      string `yaml:"type" validate:"required"`
	ExtraDuty bool   `yaml:"extraDuty"`
}

type FixtureLeave struct {
	Username    string `yaml:"username" validate:"required"`
	Date        string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Type        string `yaml:"type" validate:"required"`
	Portion     string `yaml:"portion,omitempty" validate:"omitempty,oneof=ALL AM PM"`
	RegApproved *bool  `yaml:"regApproved,omitempty"`
	DotApproved *bool  `yaml:"dotApproved,omitempty"`
	Cancelled   bool   `yaml:"cancelled"`
}

type FixtureStatus struct {
	Username string `yaml:"username" validate:"required"`
	Type     string `yaml:"type" validate:"required"`
	Start    string `yaml:"start" validate:"required,datetime=2006-01-02"`
	End      string `yaml:"end" validate:"required,datetime=2006-01-02"`
	Weekdays []int  `yaml:"weekdays,omitempty" validate:"dive,min=0,max=6"`
	Comment  string `yaml:"comment,omitempty"`
}

var fixtureValidate = validator.New()

// LoadRosterFixture reads and validates a roster fixture file
func LoadRosterFixture(path string) (*RosterFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return ParseRosterFixture(data)
}

// ParseRosterFixture parses and validates fixture YAML
func ParseRosterFixture(data []byte) (*RosterFixture, error) {
	var fixture RosterFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	if err := fixtureValidate.Struct(&fixture); err != nil {
		return nil, fmt.Errorf("roster file validation failed: %w", err)
	}
	return &fixture, nil
}

// ImportResult counts the records written by an import
type ImportResult struct {
	Registrars int
	Shifts     int
	Leaves     int
	Statuses   int
}

// ImportRoster writes a fixture to the store. Registrars already present (by
// username) are reused rather than inserted again.
func ImportRoster(
	ctx context.Context,
	store db.RosterStore,
	logger *zap.Logger,
	fixture *RosterFixture,
) (*ImportResult, error) {
	logger.Debug("Starting roster import",
		zap.Int("registrars", len(fixture.Registrars)),
		zap.Int("shifts", len(fixture.Shifts)),
		zap.Int("leaves", len(fixture.Leaves)),
		zap.Int("statuses", len(fixture.Statuses)))

	existing, err := store.GetRegistrars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registrars: %w", err)
	}
	ids := make(map[string]int64, len(existing))
	for _, r := range existing {
		ids[r.Username] = r.ID
	}

	result := &ImportResult{}
	for _, fr := range fixture.Registrars {
		if _, ok := ids[fr.Username]; ok {
			logger.Debug("Registrar already exists", zap.String("username", fr.Username))
			continue
		}
		r := db.Registrar{Username: fr.Username, Senior: fr.Senior, Start: fr.Start, Finish: fr.Finish}
		if err := store.InsertRegistrar(ctx, &r); err != nil {
			return nil, err
		}
		ids[r.Username] = r.ID
		result.Registrars++
	}

	lookup := func(username string) (int64, error) {
		id, ok := ids[username]
		if !ok {
			return 0, fmt.Errorf("unknown registrar: %s", username)
		}
		return id, nil
	}

	for _, fs := range fixture.Shifts {
		id, err := lookup(fs.Username)
		if err != nil {
			return nil, err
		}
		s := db.Shift{RegistrarID: id, Date: fs.Date, Type: fs.Type, ExtraDuty: fs.ExtraDuty}
		if err := store.InsertShift(ctx, &s); err != nil {
			return nil, err
		}
		result.Shifts++
	}

	for _, fl := range fixture.Leaves {
		id, err := lookup(fl.Username)
		if err != nil {
			return nil, err
		}
		l := db.Leave{
			RegistrarID: id,
			Date:        fl.Date,
			Type:        fl.Type,
			Portion:     fl.Portion,
			RegApproved: fl.RegApproved,
			DotApproved: fl.DotApproved,
			Cancelled:   fl.Cancelled,
		}
		if err := store.InsertLeave(ctx, &l); err != nil {
			return nil, err
		}
		result.Leaves++
	}

	for _, fst := range fixture.Statuses {
		id, err := lookup(fst.Username)
		if err != nil {
			return nil, err
		}
		s := db.Status{
			RegistrarID: id,
			Start:       fst.Start,
			End:         fst.End,
			Type:        fst.Type,
			Weekdays:    fst.Weekdays,
			Comment:     fst.Comment,
		}
		if err := store.InsertStatus(ctx, &s); err != nil {
			return nil, err
		}
		result.Statuses++
	}

	logger.Info("Imported roster",
		zap.Int("registrars", result.Registrars),
		zap.Int("shifts", result.Shifts),
		zap.Int("leaves", result.Leaves),
		zap.Int("statuses", result.Statuses))
	return result, nil
}
