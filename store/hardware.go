package store

import (
	"context"
	"fmt"

	"hwstatus/dispatch"
)

type Hardware struct {
	ID       int64  `json:"id"`
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

func (h *Hardware) Record() dispatch.Record {
	return dispatch.Record{Provider: h.Provider, Name: h.Name}
}

func (db *DB) CreateHardware(ctx context.Context, h *Hardware) error {
	if err := h.Record().Validate(); err != nil {
		return err
	}
	if db.driver == "postgres" {
		return db.QueryRowContext(ctx, db.Q(`INSERT INTO hardware (provider, name) VALUES (?, ?) RETURNING id`),
			h.Provider, h.Name).Scan(&h.ID)
	}
	result, err := db.ExecContext(ctx, db.Q(`INSERT INTO hardware (provider, name) VALUES (?, ?)`), h.Provider, h.Name)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	h.ID = id
	return nil
}

func (db *DB) ListHardware(ctx context.Context) ([]*Hardware, error) {
	rows, err := db.QueryContext(ctx, db.Q(`SELECT id, provider, name FROM hardware ORDER BY id`))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Hardware
	for rows.Next() {
		var h Hardware
		if err := rows.Scan(&h.ID, &h.Provider, &h.Name); err != nil {
			return nil, err
		}
		items = append(items, &h)
	}
	return items, rows.Err()
}

func (db *DB) CountHardware(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hardware`).Scan(&n)
	return n, err
}

// FetchAll implements dispatch.RecordSource. Rows are fully read and closed
// before it returns.
func (db *DB) FetchAll(ctx context.Context) ([]dispatch.Record, error) {
	items, err := db.ListHardware(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrSourceUnavailable, err)
	}
	records := make([]dispatch.Record, len(items))
	for i, h := range items {
		records[i] = h.Record()
	}
	return records, nil
}

// Seed inserts items when the table is empty and reports how many were added.
func (db *DB) Seed(ctx context.Context, items []Hardware) (int, error) {
	n, err := db.CountHardware(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for i := range items {
		if err := db.CreateHardware(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("seed %s/%s: %w", items[i].Provider, items[i].Name, err)
		}
	}
	return len(items), nil
}

// SampleInventory is the inventory inserted by `hwstatus -seed`.
func SampleInventory() []Hardware {
	return []Hardware{
		{Provider: "AWS", Name: "c5.large"},
		{Provider: "AWS", Name: "p3.2xlarge"},
		{Provider: "Azure", Name: "H16r"},
		{Provider: "Azure", Name: "NC24"},
		{Provider: "GCP", Name: "n2-standard"},
		{Provider: "GCP", Name: "a2-highgpu-1g"},
	}
}
