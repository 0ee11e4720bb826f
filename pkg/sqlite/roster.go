package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// GetRegistrars retrieves all registrar records
func (d *DB) GetRegistrars(ctx context.Context) ([]db.Registrar, error) {
	rows, err := d.conn.QueryContext(ctx, `
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
		var finish sql.NullString
		if err := rows.Scan(&r.ID, &r.Username, &r.Senior, &r.Start, &finish); err != nil {
			return nil, fmt.Errorf("failed to scan registrar: %w", err)
		}
		r.Finish = finish.String
		registrars = append(registrars, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrars: %w", err)
	}

	return registrars, nil
}

// GetShifts retrieves assigned shifts within the window
func (d *DB) GetShifts(ctx context.Context, window model.Window) ([]db.Shift, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, registrar_id, date, type, extra_duty
		FROM shift
		WHERE date >= ? AND date <= ?
		ORDER BY date, id
	`, model.FormatDate(window.Start), model.FormatDate(window.End))
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.Shift
	for rows.Next() {
		var s db.Shift
		if err := rows.Scan(&s.ID, &s.RegistrarID, &s.Date, &s.Type, &s.ExtraDuty); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// GetLeaves retrieves leaves within the window, cancelled ones included
func (d *DB) GetLeaves(ctx context.Context, window model.Window) ([]db.Leave, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, registrar_id, date, type, portion, reg_approved, dot_approved, cancelled
		FROM leave
		WHERE date >= ? AND date <= ?
		ORDER BY date, id
	`, model.FormatDate(window.Start), model.FormatDate(window.End))
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []db.Leave
	for rows.Next() {
		var l db.Leave
		var regApproved, dotApproved sql.NullBool
		if err := rows.Scan(&l.ID, &l.RegistrarID, &l.Date, &l.Type, &l.Portion, &regApproved, &dotApproved, &l.Cancelled); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		l.RegApproved = nullableBool(regApproved)
		l.DotApproved = nullableBool(dotApproved)
		leaves = append(leaves, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaves: %w", err)
	}

	return leaves, nil
}

// GetStatuses retrieves statuses whose range overlaps the window
func (d *DB) GetStatuses(ctx context.Context, window model.Window) ([]db.Status, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, registrar_id, start_date, end_date, type, weekdays, comment
		FROM status
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY id
	`, model.FormatDate(window.End), model.FormatDate(window.Start))
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	var statuses []db.Status
	for rows.Next() {
		var s db.Status
		var weekdays string
		if err := rows.Scan(&s.ID, &s.RegistrarID, &s.Start, &s.End, &s.Type, &weekdays, &s.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		s.Weekdays, err = decodeWeekdays(weekdays)
		if err != nil {
			return nil, fmt.Errorf("invalid weekdays for status %d: %w", s.ID, err)
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
	var finish sql.NullString
	if registrar.Finish != "" {
		finish = sql.NullString{String: registrar.Finish, Valid: true}
	}
	res, err := d.conn.ExecContext(ctx, `
		INSERT INTO registrar (username, senior, start_date, finish_date)
		VALUES (?, ?, ?, ?)
	`, registrar.Username, registrar.Senior, registrar.Start, finish)
	if err != nil {
		return fmt.Errorf("failed to insert registrar: %w", err)
	}
	registrar.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read registrar id: %w", err)
	}
	return nil
}

// InsertShift inserts a shift and sets its generated ID
func (d *DB) InsertShift(ctx context.Context, shift *db.Shift) error {
	res, err := d.conn.ExecContext(ctx, `
		INSERT INTO shift (registrar_id, date, type, extra_duty)
		VALUES (?, ?, ?, ?)
	`, shift.RegistrarID, shift.Date, shift.Type, shift.ExtraDuty)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	shift.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read shift id: %w", err)
	}
	return nil
}

// InsertLeave inserts a leave and sets its generated ID
func (d *DB) InsertLeave(ctx context.Context, leave *db.Leave) error {
	portion := leave.Portion
	if portion == "" {
		portion = string(model.PortionAll)
	}
	res, err := d.conn.ExecContext(ctx, `
		INSERT INTO leave (registrar_id, date, type, portion, reg_approved, dot_approved, cancelled)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, leave.RegistrarID, leave.Date, leave.Type, portion, sqlBool(leave.RegApproved), sqlBool(leave.DotApproved), leave.Cancelled)
	if err != nil {
		return fmt.Errorf("failed to insert leave: %w", err)
	}
	leave.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read leave id: %w", err)
	}
	return nil
}

// InsertStatus inserts a status and sets its generated ID
func (d *DB) InsertStatus(ctx context.Context, status *db.Status) error {
	res, err := d.conn.ExecContext(ctx, `
		INSERT INTO status (registrar_id, start_date, end_date, type, weekdays, comment)
		VALUES (?, ?, ?, ?, ?, ?)
	`, status.RegistrarID, status.Start, status.End, status.Type, encodeWeekdays(status.Weekdays), status.Comment)
	if err != nil {
		return fmt.Errorf("failed to insert status: %w", err)
	}
	status.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read status id: %w", err)
	}
	return nil
}

// DeleteShift removes a shift by ID
func (d *DB) DeleteShift(ctx context.Context, id int64) error {
	return d.deleteByID(ctx, "shift", id)
}

// DeleteLeave removes a leave by ID
func (d *DB) DeleteLeave(ctx context.Context, id int64) error {
	return d.deleteByID(ctx, "leave", id)
}

func (d *DB) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := d.conn.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", table, id, db.ErrNotFound)
	}
	return nil
}

func nullableBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

func sqlBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

// weekdays are stored as a comma separated list, e.g. "0,2,4"
func encodeWeekdays(weekdays []int) string {
	parts := make([]string, 0, len(weekdays))
	for _, wd := range weekdays {
		parts = append(parts, strconv.Itoa(wd))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var weekdays []int
	for _, part := range strings.Split(s, ",") {
		wd, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		weekdays = append(weekdays, wd)
	}
	return weekdays, nil
}
