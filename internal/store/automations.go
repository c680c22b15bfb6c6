package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/document"
)

// ErrNotFound is returned when a lookup matches no library entry.
var ErrNotFound = errors.New("automation not found")

// Automation is one library entry's metadata.
type Automation struct {
	ID         string
	Name       string
	CreatedAt  time.Time
	Duration   float64
	EventCount int
}

// Save stores a sequence under a name. Saving to an existing name
// replaces its sequence but keeps the entry's ID. Returns the entry as
// stored.
func (s *Store) Save(ctx context.Context, name string, seq *automation.Sequence) (Automation, error) {
	if name == "" {
		return Automation{}, fmt.Errorf("save automation: empty name")
	}
	if err := seq.Validate(); err != nil {
		return Automation{}, fmt.Errorf("save automation %q: %w", name, err)
	}

	body, err := document.Marshal(seq)
	if err != nil {
		return Automation{}, fmt.Errorf("save automation %q: %w", name, err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO automations (id, name, created_at, duration, event_count, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			created_at = excluded.created_at,
			duration = excluded.duration,
			event_count = excluded.event_count,
			body = excluded.body
	`,
		uuid.NewString(),
		name,
		now.Format(time.RFC3339Nano),
		seq.Duration,
		len(seq.Events),
		string(body),
	)
	if err != nil {
		return Automation{}, fmt.Errorf("save automation %q: %w", name, err)
	}

	entry, _, err := s.GetByName(ctx, name)
	return entry, err
}

// Get returns a library entry and its sequence by ID.
func (s *Store) Get(ctx context.Context, id string) (Automation, *automation.Sequence, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, duration, event_count, body
		FROM automations WHERE id = ?
	`, id)
	return scanEntry(row)
}

// GetByName returns a library entry and its sequence by name.
func (s *Store) GetByName(ctx context.Context, name string) (Automation, *automation.Sequence, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, duration, event_count, body
		FROM automations WHERE name = ?
	`, name)
	return scanEntry(row)
}

// List returns all library entries ordered by name. The result is empty,
// not nil, for an empty library.
func (s *Store) List(ctx context.Context) ([]Automation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, duration, event_count
		FROM automations ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list automations: %w", err)
	}
	defer rows.Close()

	entries := []Automation{}
	for rows.Next() {
		var e Automation
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &createdAt, &e.Duration, &e.EventCount); err != nil {
			return nil, fmt.Errorf("scan automation: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate automations: %w", err)
	}
	return entries, nil
}

// Delete removes a library entry by name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM automations WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete automation %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete automation %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete automation %q: %w", name, ErrNotFound)
	}
	return nil
}

func scanEntry(row *sql.Row) (Automation, *automation.Sequence, error) {
	var e Automation
	var createdAt, body string
	err := row.Scan(&e.ID, &e.Name, &createdAt, &e.Duration, &e.EventCount, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Automation{}, nil, ErrNotFound
	}
	if err != nil {
		return Automation{}, nil, fmt.Errorf("scan automation: %w", err)
	}

	e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Automation{}, nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	seq, err := document.Decode([]byte(body))
	if err != nil {
		return Automation{}, nil, fmt.Errorf("decode automation %q: %w", e.Name, err)
	}
	return e, seq, nil
}
