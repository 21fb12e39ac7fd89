package booking

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	b, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestFileStoreCorruptFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))
	b, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b)

	require.NoError(t, os.WriteFile(s.Path(), []byte("null"), 0o600))
	b, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestFileStoreAppendRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := Record{Ref: "20250601000001", Departure: "Paris", Arrival: "Tokyo", Date: "2025-06-15", Airline: "Emirates"}
	second := Record{Ref: "20250601000002", Departure: "Oslo", Arrival: "Rome", Date: "2025-07-01", Airline: "Air India"}
	other := Record{Ref: "20250601000001", Departure: "X", Arrival: "Y"}

	require.NoError(t, s.Append(ctx, "100", first))
	require.NoError(t, s.Append(ctx, "100", second))
	require.NoError(t, s.Append(ctx, "200", other))

	recs, err := s.List(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, []Record{first, second}, recs)

	n, err := s.Remove(ctx, "100", first.Ref)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	b, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Record{second}, b["100"])
	assert.Equal(t, []Record{other}, b["200"])

	n, err = s.Remove(ctx, "300", "nope")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileStoreWritesIndentedJSON(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Append(ctx, "42", Record{Ref: "1", Departure: "A", Arrival: "B", Date: "2025-01-01", Airline: "C"}))
	_, err := s.Remove(ctx, "42", "1")
	require.NoError(t, err)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"42\": []\n}", string(raw))

	require.NoError(t, s.Append(ctx, "42", Record{Ref: "2"}))
	raw, err = os.ReadFile(s.Path())
	require.NoError(t, err)
	var decoded map[string][]map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, map[string]string{"ref": "2", "departure": "", "arrival": "", "date": "", "airline": ""}, decoded["42"][0])
	assert.Contains(t, string(raw), "\n      \"ref\": \"2\"")

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not linger")
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Append(ctx, "1", Record{Ref: "a"}))
	require.NoError(t, s.Save(ctx, Bookings{"2": {{Ref: "b"}}}))
	b, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Bookings{"2": {{Ref: "b"}}}, b)
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, []string{"2"}, b.Users())
}
