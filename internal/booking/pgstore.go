package booking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/ticketbot/core/logger"
)

// PGStore keeps bookings in the postgres table created by migrations/0001.
type PGStore struct {
	db *sqlx.DB
}

// NewPGStore wraps an open database handle.
func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{db: db}
}

type bookingRow struct {
	UserID string `db:"user_id"`
	Record
}

const (
	selectAllSQL  = `SELECT user_id, ref, departure, arrival, travel_date, airline FROM bookings ORDER BY id`
	selectUserSQL = `SELECT ref, departure, arrival, travel_date, airline FROM bookings WHERE user_id = $1 ORDER BY id`
	insertSQL     = `INSERT INTO bookings (user_id, ref, departure, arrival, travel_date, airline) VALUES ($1, $2, $3, $4, $5, $6)`
	deleteRefSQL  = `DELETE FROM bookings WHERE user_id = $1 AND ref = $2`
	deleteAllSQL  = `DELETE FROM bookings`
)

// Load reads every booking ordered by insertion.
func (s *PGStore) Load(ctx context.Context) (Bookings, error) {
	var rows []bookingRow
	if err := s.db.SelectContext(ctx, &rows, selectAllSQL); err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}
	b := Bookings{}
	for _, r := range rows {
		b.Append(r.UserID, r.Record)
	}
	logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.load",
		slog.String("status", "ok"),
		slog.String("driver", "postgres"),
		slog.Int("users", len(b)),
		slog.Int("bookings", len(rows)),
	)
	return b, nil
}

// Save replaces the table contents with b inside one transaction.
func (s *PGStore) Save(ctx context.Context, b Bookings) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteAllSQL); err != nil {
		return fmt.Errorf("clear bookings: %w", err)
	}
	users := make([]string, 0, len(b))
	for id := range b {
		users = append(users, id)
	}
	sort.Strings(users)
	for _, id := range users {
		for _, r := range b[id] {
			if _, err = tx.ExecContext(ctx, insertSQL, id, r.Ref, r.Departure, r.Arrival, r.Date, r.Airline); err != nil {
				return fmt.Errorf("insert booking %s: %w", r.Ref, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.save",
		slog.String("status", "ok"),
		slog.String("driver", "postgres"),
		slog.Int("bookings", b.Count()),
	)
	return nil
}

// Append inserts one booking.
func (s *PGStore) Append(ctx context.Context, userID string, rec Record) error {
	if _, err := s.db.ExecContext(ctx, insertSQL, userID, rec.Ref, rec.Departure, rec.Arrival, rec.Date, rec.Airline); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// Remove deletes the user's bookings with ref.
func (s *PGStore) Remove(ctx context.Context, userID, ref string) (int, error) {
	res, err := s.db.ExecContext(ctx, deleteRefSQL, userID, ref)
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}
	return int(n), nil
}

// List returns the user's bookings ordered by insertion.
func (s *PGStore) List(ctx context.Context, userID string) ([]Record, error) {
	var recs []Record
	if err := s.db.SelectContext(ctx, &recs, selectUserSQL, userID); err != nil {
		return nil, fmt.Errorf("select user bookings: %w", err)
	}
	return recs, nil
}
