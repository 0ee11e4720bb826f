package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// GetRegistrars retrieves all registrar records
func (d *DB) GetRegistrars(ctx context.Context) ([]db.Registrar, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, username, senior, start_date, finish_date
		FROM registrar
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrars: %w", err)
	}
	defer rows.Close()

	var registrars []db.Registrar
	for rows.Next() {
		var r db.Registrar
		var start time.Time
		var finish *time.Time
		if err := rows.Scan(&r.ID, &r.Username, &r.Senior, &start, &finish); err != nil {
			return nil, fmt.Errorf("failed to scan registrar: %w", err)
		}
		r.Start = start.Format(dateLayout)
		if finish != nil {
			r.Finish = finish.Format(dateLayout)
		}
		registrars = append(registrars, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrars: %w", err)
	}

	return registrars, nil
}

// GetShifts retrieves assigned shifts within the window
func (d *DB) GetShifts(ctx context.Context, window model.Window) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, registrar_id, date, type, extra_duty
		FROM shift
		WHERE date >= $1 AND date <= $2
		ORDER BY date, id
	`, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.Shift
	for rows.Next() {
		var s db.Shift
		var date time.Time
		if err := rows.Scan(&s.ID, &s.RegistrarID, &date, &s.Type, &s.ExtraDuty); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		s.Date = date.Format(dateLayout)
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// GetLeaves retrieves leaves within the window, cancelled ones included
func (d *DB) GetLeaves(ctx context.Context, window model.Window) ([]db.Leave, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, registrar_id, date, type, portion, reg_approved, dot_approved, cancelled
		FROM leave
		WHERE date >= $1 AND date <= $2
		ORDER BY date, id
	`, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []db.Leave
	for rows.Next() {
		var l db.Leave
		var date time.Time
		if err := rows.Scan(&l.ID, &l.RegistrarID, &date, &l.Type, &l.Portion, &l.RegApproved, &l.DotApproved, &l.Cancelled); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		l.Date = date.Format(dateLayout)
		leaves = append(leaves, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaves: %w", err)
	}

	return leaves, nil
}

// GetStatuses retrieves statuses whose range overlaps the window
func (d *DB) GetStatuses(ctx context.Context, window model.Window) ([]db.Status, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, registrar_id, start_date, end_date, type, weekdays, comment
		FROM status
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY id
	`, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	var statuses []db.Status
	for rows.Next() {
		var s db.Status
		var start, end time.Time
		var weekdays []int32
		if err := rows.Scan(&s.ID, &s.RegistrarID, &start, &end, &s.Type, &weekdays, &s.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		s.Start = start.Format(dateLayout)
		s.End = end.Format(dateLayout)
		for _, wd := range weekdays {
			s.Weekdays = append(s.Weekdays, int(wd))
		}
		statuses = append(statuses, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statuses: %w", err)
	}

	return statuses, nil
}

// InsertRegistrar inserts a registrar and sets its generated ID
func (d *DB) InsertRegistrar(ctx context.Context, registrar *db.Registrar) error {
	var finish *string
	if registrar.Finish != "" {
		finish = &registrar.Finish
	}
	err := d.pool.QueryRow(ctx, `
		INSERT INTO registrar (username, senior, start_date, finish_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, registrar.Username, registrar.Senior, registrar.Start, finish).Scan(&registrar.ID)
	if err != nil {
		return fmt.Errorf("failed to insert registrar: %w", err)
	}
	return nil
}

// InsertShift inserts a shift and sets its generated ID
func (d *DB) InsertShift(ctx context.Context, shift *db.Shift) error {
	err := d.pool.QueryRow(ctx, `
		INSERT INTO shift (registrar_id, date, type, extra_duty)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, shift.RegistrarID, shift.Date, shift.Type, shift.ExtraDuty).Scan(&shift.ID)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// InsertLeave inserts a leave and sets its generated ID
func (d *DB) InsertLeave(ctx context.Context, leave *db.Leave) error {
	portion := leave.Portion
	if portion == "" {
		portion = string(model.PortionAll)
	}
	err := d.pool.QueryRow(ctx, `
		INSERT INTO leave (registrar_id, date, type, portion, reg_approved, dot_approved, cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, leave.RegistrarID, leave.Date, leave.Type, portion, leave.RegApproved, leave.DotApproved, leave.Cancelled).Scan(&leave.ID)
	if err != nil {
		return fmt.Errorf("failed to insert leave: %w", err)
	}
	return nil
}

// InsertStatus inserts a status and sets its generated ID
func (d *DB) InsertStatus(ctx context.Context, status *db.Status) error {
	weekdays := make([]int32, 0, len(status.Weekdays))
	for _, wd := range status.Weekdays {
		weekdays = append(weekdays, int32(wd))
	}
	err := d.pool.QueryRow(ctx, `
		INSERT INTO status (registrar_id, start_date, end_date, type, weekdays, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, status.RegistrarID, status.Start, status.End, status.Type, weekdays, status.Comment).Scan(&status.ID)
	if err != nil {
		return fmt.Errorf("failed to insert status: %w", err)
	}
	return nil
}

// DeleteShift removes a shift by ID
func (d *DB) DeleteShift(ctx context.Context, id int64) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM shift WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("shift %d: %w", id, db.ErrNotFound)
	}
	return nil
}

// DeleteLeave removes a leave by ID
func (d *DB) DeleteLeave(ctx context.Context, id int64) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM leave WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("leave %d: %w", id, db.ErrNotFound)
	}
	return nil
}
