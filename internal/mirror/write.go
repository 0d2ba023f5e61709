package mirror

import (
	"context"
	"fmt"
	"time"
)

// InsertProspect inserts a prospect row and returns its autoincrement id.
// The returned id is the only handle the caller has for mirroring knocks
// later, so it must be captured at creation time.
func (m *Mirror) InsertProspect(ctx context.Context, fullName, address, list string) (int64, error) {
	res, err := m.db.ExecContext(ctx, `
		INSERT INTO prospects (full_name, address, list)
		VALUES (?, ?, ?)
	`, fullName, address, list)
	if err != nil {
		return 0, fmt.Errorf("insert prospect: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert prospect: last insert id: %w", err)
	}
	return id, nil
}

// InsertKnock inserts a knock row referencing an existing prospect row.
// Dates are stored as RFC 3339 text in UTC. The prospect_id foreign key is
// enforced; a knock can never reference a row that was not created through
// InsertProspect.
func (m *Mirror) InsertKnock(ctx context.Context, prospectID int64, date time.Time, status string, latitude, longitude float64, userEmail string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO knocks (prospect_id, date, status, latitude, longitude, user_email)
		VALUES (?, ?, ?, ?, ?, ?)
	`, prospectID, date.UTC().Format(time.RFC3339Nano), status, latitude, longitude, userEmail)
	if err != nil {
		return fmt.Errorf("insert knock: %w", err)
	}
	return nil
}

// UpdateProspect updates a prospect row's fields, addressed by its row id.
func (m *Mirror) UpdateProspect(ctx context.Context, rowID int64, fullName, address, list string) error {
	res, err := m.db.ExecContext(ctx, `
		UPDATE prospects SET full_name = ?, address = ?, list = ?
		WHERE id = ?
	`, fullName, address, list, rowID)
	if err != nil {
		return fmt.Errorf("update prospect: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update prospect: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update prospect: no row with id %d", rowID)
	}
	return nil
}
