package shelfstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag758/dashbin"
)

func testRecords() []dashbin.Record {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return []dashbin.Record{
		{ID: "r1", Text: "git status", CreatedAt: now, Pinned: true},
		{ID: "r2", Text: "ls -la", CreatedAt: now.Add(-time.Minute)},
		{ID: "r3", Text: "make test", CreatedAt: now.Add(-time.Hour)},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, nil)
	require.NoError(t, err)
	defer db.Close()

	records := testRecords()
	groups := []dashbin.Group{
		{ID: "g1", Name: "deploys", Records: []dashbin.Record{
			{ID: "m1", Text: "kubectl apply -f .", CreatedAt: records[0].CreatedAt},
		}},
		{ID: "g2", Name: "empty"},
	}
	require.NoError(t, db.Save(records, groups))

	gotRecords, gotGroups := db.Load()
	require.Len(t, gotRecords, 3)
	for i, want := range records {
		assert.Equal(t, want.Text, gotRecords[i].Text)
		assert.Equal(t, want.Pinned, gotRecords[i].Pinned)
		assert.True(t, want.CreatedAt.Equal(gotRecords[i].CreatedAt))
	}
	require.Len(t, gotGroups, 2)
	assert.Equal(t, "deploys", gotGroups[0].Name)
	require.Len(t, gotGroups[0].Records, 1)
	assert.Equal(t, "kubectl apply -f .", gotGroups[0].Records[0].Text)
	assert.Empty(t, gotGroups[1].Records)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Save(testRecords(), nil))
	require.NoError(t, db.Save(testRecords()[:1], nil))

	records, _ := db.Load()
	require.Len(t, records, 1)
	assert.Equal(t, "git status", records[0].Text)
}

func TestLoadMissingDatabaseIsEmpty(t *testing.T) {
	db, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	defer db.Close()

	records, groups := db.Load()
	assert.Empty(t, records)
	assert.Empty(t, groups)
}

func TestOpenOrEmptyRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("this is not a database"), 0o600))

	db, err := OpenOrEmpty(dir, nil)
	require.NoError(t, err)
	defer db.Close()

	records, groups := db.Load()
	assert.Empty(t, records)
	assert.Empty(t, groups)

	_, err = os.Stat(path + ".corrupt")
	assert.NoError(t, err, "corrupt file moved aside, not destroyed")
}

func TestStoreRoundTripThroughSaver(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, nil)
	require.NoError(t, err)
	defer db.Close()

	store := dashbin.NewStore(dashbin.WithSaver(db))
	store.Add("git status")
	store.Add("ls -la")
	store.TogglePin(store.List("")[1].ID)

	fresh := dashbin.NewStore()
	fresh.Restore(db.Load())

	want := store.List("")
	got := fresh.List("")
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Text, got[i].Text)
		assert.Equal(t, want[i].Pinned, got[i].Pinned)
	}
}

func TestWatcherReportsExternalWrites(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, nil)
	require.NoError(t, err)
	defer db.Close()

	changed := make(chan struct{}, 1)
	w, err := Watch(dir, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, db.Save(testRecords(), nil))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification for a database write")
	}
}
