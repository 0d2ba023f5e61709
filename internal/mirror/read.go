package mirror

import (
	"context"
	"fmt"
	"time"
)

// ProspectRow is one row of the prospects table.
type ProspectRow struct {
	ID       int64
	FullName string
	Address  string
	List     string
}

// KnockRow is one row of the knocks table.
type KnockRow struct {
	ID         int64
	ProspectID int64
	Date       time.Time
	Status     string
	Latitude   float64
	Longitude  float64
	UserEmail  string
}

// ProspectWithKnocks pairs a prospect row with its (optionally filtered)
// knock rows.
type ProspectWithKnocks struct {
	Prospect ProspectRow
	Knocks   []KnockRow
}

// ListProspects returns every prospect row ordered by id.
// Returns an empty slice (not nil) when the table is empty.
func (m *Mirror) ListProspects(ctx context.Context) ([]ProspectRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, full_name, address, list
		FROM prospects
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query prospects: %w", err)
	}
	defer rows.Close()

	prospects := []ProspectRow{}
	for rows.Next() {
		var p ProspectRow
		if err := rows.Scan(&p.ID, &p.FullName, &p.Address, &p.List); err != nil {
			return nil, fmt.Errorf("scan prospect: %w", err)
		}
		prospects = append(prospects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prospects: %w", err)
	}
	return prospects, nil
}

// ListProspectsWithKnocks returns every prospect row joined with its knock
// rows, ordered by prospect id then knock id. When filterUser is non-empty,
// only knocks recorded by that user are included; prospect rows themselves
// are never filtered out.
func (m *Mirror) ListProspectsWithKnocks(ctx context.Context, filterUser string) ([]ProspectWithKnocks, error) {
	prospects, err := m.ListProspects(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, prospect_id, date, status, latitude, longitude, user_email
		FROM knocks
		ORDER BY prospect_id ASC, id ASC
	`
	args := []any{}
	if filterUser != "" {
		query = `
			SELECT id, prospect_id, date, status, latitude, longitude, user_email
			FROM knocks
			WHERE user_email = ?
			ORDER BY prospect_id ASC, id ASC
		`
		args = append(args, filterUser)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query knocks: %w", err)
	}
	defer rows.Close()

	byProspect := make(map[int64][]KnockRow)
	for rows.Next() {
		var (
			k       KnockRow
			dateRaw string
		)
		if err := rows.Scan(&k.ID, &k.ProspectID, &dateRaw, &k.Status, &k.Latitude, &k.Longitude, &k.UserEmail); err != nil {
			return nil, fmt.Errorf("scan knock: %w", err)
		}
		k.Date, err = time.Parse(time.RFC3339Nano, dateRaw)
		if err != nil {
			return nil, fmt.Errorf("parse knock date %q: %w", dateRaw, err)
		}
		byProspect[k.ProspectID] = append(byProspect[k.ProspectID], k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knocks: %w", err)
	}

	out := make([]ProspectWithKnocks, 0, len(prospects))
	for _, p := range prospects {
		knocks := byProspect[p.ID]
		if knocks == nil {
			knocks = []KnockRow{}
		}
		out = append(out, ProspectWithKnocks{Prospect: p, Knocks: knocks})
	}
	return out, nil
}
