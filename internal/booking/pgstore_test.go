package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPGStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPGStoreLoadGroupsByUser(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"user_id", "ref", "departure", "arrival", "travel_date", "airline"}).
		AddRow("1", "r1", "Paris", "Tokyo", "2025-06-15", "Emirates").
		AddRow("2", "r2", "Oslo", "Rome", "2025-07-01", "Air India").
		AddRow("1", "r3", "Lima", "Quito", "2025-08-01", "")
	mock.ExpectQuery(selectAllSQL).WillReturnRows(rows)

	b, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r3"}, []string{b["1"][0].Ref, b["1"][1].Ref})
	assert.Equal(t, "2025-07-01", b["2"][0].Date)
	assert.Equal(t, 3, b.Count())
}

func TestPGStoreAppendAndList(t *testing.T) {
	s, mock := newMockStore(t)
	rec := Record{Ref: "20250601093015", Departure: "Paris", Arrival: "Tokyo", Date: "2025-06-15", Airline: "Emirates"}
	mock.ExpectExec(insertSQL).
		WithArgs("7", rec.Ref, rec.Departure, rec.Arrival, rec.Date, rec.Airline).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectUserSQL).WithArgs("7").
		WillReturnRows(sqlmock.NewRows([]string{"ref", "departure", "arrival", "travel_date", "airline"}).
			AddRow(rec.Ref, rec.Departure, rec.Arrival, rec.Date, rec.Airline))

	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "7", rec))
	recs, err := s.List(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, []Record{rec}, recs)
}

func TestPGStoreRemoveReportsCount(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(deleteRefSQL).WithArgs("7", "r1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteRefSQL).WithArgs("7", "missing").WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := s.Remove(context.Background(), "7", "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.Remove(context.Background(), "7", "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPGStoreSaveReplacesInTransaction(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(deleteAllSQL).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(insertSQL).WithArgs("1", "a", "", "", "", "").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertSQL).WithArgs("2", "b", "", "", "", "").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Save(context.Background(), Bookings{"2": {{Ref: "b"}}, "1": {{Ref: "a"}}}))
}

func TestPGStoreSaveRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(deleteAllSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insertSQL).WithArgs("1", "a", "", "", "", "").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Save(context.Background(), Bookings{"1": {{Ref: "a"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
