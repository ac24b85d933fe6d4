package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/fightrecords/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test record store
func createTestRecordStore(t *testing.T) *RecordStore {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	store, err := NewRecordStore(dbPath)
	require.NoError(t, err, "should create record store")
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string {
	return &s
}

// Test helper: create a sample bout
func createTestBout(boutID, eventID string, ordinal int) *records.Bout {
	return &records.Bout{
		BoutID:         boutID,
		UFCStatsBoutID: "fd-" + boutID,
		Event: records.Event{
			EventID:         eventID,
			UFCStatsEventID: "ev-" + eventID,
			EventName:       strPtr("UFC Test"),
		},
		BoutOrdinal: ordinal,
		CardType:    records.CardTypeMain,
		Fighter1ID:  "1-ann",
		Fighter2ID:  "2-bea",
		Fighter1Gym: strPtr("Gym A"),
	}
}

// Test helper: create a run and write records into it
func createTestRun(t *testing.T, store *RecordStore, recs ...records.Record) uuid.UUID {
	t.Helper()
	run, err := store.CreateRun("all", "https://www.tapology.com/fightcenter")
	require.NoError(t, err)
	for _, rec := range recs {
		require.NoError(t, store.Write(context.Background(), run.RunID, rec))
	}
	return run.RunID
}

// TestNewRecordStore_ExistingDatabase verifies data survives reopening
func TestNewRecordStore_ExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store1, err := NewRecordStore(dbPath)
	require.NoError(t, err)
	run, err := store1.CreateRun("most_recent", "https://example.com")
	require.NoError(t, err)
	store1.Close()

	store2, err := NewRecordStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, "most_recent", got.Mode)
}

// TestRunLifecycle verifies creating and finishing runs
func TestRunLifecycle(t *testing.T) {
	store := createTestRecordStore(t)

	run, err := store.CreateRun("all", "https://www.tapology.com/fightcenter")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, run.Status)

	got, err := store.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
	assert.True(t, run.StartedAt.Equal(got.StartedAt), "started_at should round trip")
	assert.Nil(t, got.FinishedAt)

	stats := RunStats{Pages: 10, Bouts: 3, Fighters: 6, Errors: 1}
	require.NoError(t, store.FinishRun(run.RunID, stats, nil))

	got, err = store.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, 10, got.Pages)
	assert.Equal(t, 3, got.Bouts)
	assert.Equal(t, 6, got.Fighters)
	assert.Equal(t, 1, got.Errors)
	assert.Nil(t, got.LastError)
}

// TestFinishRun_Aborted verifies the error is kept on aborted runs
func TestFinishRun_Aborted(t *testing.T) {
	store := createTestRecordStore(t)
	run, err := store.CreateRun("all", "https://example.com")
	require.NoError(t, err)

	require.NoError(t, store.FinishRun(run.RunID, RunStats{Errors: 3}, errors.New("too many errors")))

	got, err := store.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, StatusAborted, got.Status)
	require.NotNil(t, got.LastError)
	assert.Equal(t, "too many errors", *got.LastError)
}

// TestRun_NotFound verifies missing runs
func TestRun_NotFound(t *testing.T) {
	store := createTestRecordStore(t)

	_, err := store.GetRun(uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = store.FinishRun(uuid.New(), RunStats{}, nil)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

// TestListRuns verifies newest-first ordering and limits
func TestListRuns(t *testing.T) {
	store := createTestRecordStore(t)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		run, err := store.CreateRun("all", "https://example.com")
		require.NoError(t, err)
		ids = append(ids, run.RunID)
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].RunID)
	assert.Equal(t, ids[0], runs[2].RunID)

	runs, err = store.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

// TestWrite_Bout verifies a bout round trips through the store
func TestWrite_Bout(t *testing.T) {
	store := createTestRecordStore(t)
	bout := createTestBout("11-opener", "1-first", 0)
	runID := createTestRun(t, store, records.NewBoutRecord(bout))

	got, err := store.GetBout("11-opener")
	require.NoError(t, err)
	assert.Equal(t, runID, got.RunID)
	assert.Equal(t, *bout, got.Bout)
	assert.False(t, got.WrittenAt.IsZero())
}

// TestWrite_FighterOverwrite verifies a fighter seen twice in one run is
// stored once
func TestWrite_FighterOverwrite(t *testing.T) {
	store := createTestRecordStore(t)
	runID := createTestRun(t, store,
		records.NewFighterRecord(&records.Fighter{FighterID: "1-ann", FighterName: strPtr("Ann")}),
		records.NewFighterRecord(&records.Fighter{FighterID: "1-ann", FighterName: strPtr("Ann B.")}),
	)

	fighters, err := store.ListFighters(FighterFilter{RunID: &runID})
	require.NoError(t, err)
	require.Len(t, fighters, 1)
	assert.Equal(t, "Ann B.", *fighters[0].FighterName)
}

// TestWrite_InvalidRecord verifies mismatched kinds are rejected
func TestWrite_InvalidRecord(t *testing.T) {
	store := createTestRecordStore(t)

	err := store.Write(context.Background(), uuid.New(), records.Record{Kind: records.KindBout})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	err = store.Write(context.Background(), uuid.New(), records.Record{
		Kind: records.KindFighter,
		Bout: createTestBout("1-x", "1-e", 0),
	})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

// TestGetFighter_LatestRun verifies the newest copy across runs wins
func TestGetFighter_LatestRun(t *testing.T) {
	store := createTestRecordStore(t)
	createTestRun(t, store, records.NewFighterRecord(&records.Fighter{FighterID: "1-ann", Nationality: strPtr("Canada")}))
	latest := createTestRun(t, store, records.NewFighterRecord(&records.Fighter{FighterID: "1-ann", Nationality: strPtr("Brazil")}))

	got, err := store.GetFighter("1-ann")
	require.NoError(t, err)
	assert.Equal(t, latest, got.RunID)
	assert.Equal(t, "Brazil", *got.Nationality)

	all, err := store.ListFighters(FighterFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "each run keeps its own copy")
}

// TestGet_NotFound verifies missing records
func TestGet_NotFound(t *testing.T) {
	store := createTestRecordStore(t)

	_, err := store.GetBout("missing")
	assert.ErrorIs(t, err, ErrBoutNotFound)

	_, err = store.GetFighter("missing")
	assert.ErrorIs(t, err, ErrFighterNotFound)
}

// TestListBouts_Filters verifies run and event filtering, ordering and
// pagination
func TestListBouts_Filters(t *testing.T) {
	store := createTestRecordStore(t)
	first := createTestRun(t, store,
		records.NewBoutRecord(createTestBout("12-main", "1-first", 1)),
		records.NewBoutRecord(createTestBout("11-opener", "1-first", 0)),
		records.NewBoutRecord(createTestBout("21-only", "2-second", 0)),
	)
	createTestRun(t, store, records.NewBoutRecord(createTestBout("31-other", "3-third", 0)))

	all, err := store.ListBouts(BoutFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	byRun, err := store.ListBouts(BoutFilter{RunID: &first})
	require.NoError(t, err)
	require.Len(t, byRun, 3)
	assert.Equal(t, "11-opener", byRun[0].BoutID)
	assert.Equal(t, "12-main", byRun[1].BoutID)
	assert.Equal(t, "21-only", byRun[2].BoutID)

	eventID := "1-first"
	byEvent, err := store.ListBouts(BoutFilter{EventID: &eventID})
	require.NoError(t, err)
	assert.Len(t, byEvent, 2)

	page, err := store.ListBouts(BoutFilter{RunID: &first, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "12-main", page[0].BoutID)

	rest, err := store.ListBouts(BoutFilter{RunID: &first, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "21-only", rest[0].BoutID)
}
