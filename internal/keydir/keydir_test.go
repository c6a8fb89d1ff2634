package keydir

import (
	"os"
	"testing"

	"github.com/rustcask/rustcask/internal/datadir"
	"github.com/rustcask/rustcask/internal/record"
	"github.com/rustcask/rustcask/pkg/logger"
)

func TestSetGetRemove(t *testing.T) {
	kd := New(logger.NewNop())

	if _, ok := kd.Get("missing"); ok {
		t.Fatal("expected missing key to be absent")
	}

	kd.Set("k", Entry{Generation: 1, Offset: 10, Length: 5})
	entry, ok := kd.Get("k")
	if !ok || entry.Generation != 1 || entry.Offset != 10 || entry.Length != 5 {
		t.Fatalf("got (%+v, %v)", entry, ok)
	}

	if existed := kd.Remove("k"); !existed {
		t.Fatal("expected key to have existed")
	}
	if _, ok := kd.Get("k"); ok {
		t.Fatal("expected key to be gone after Remove")
	}
	if existed := kd.Remove("k"); existed {
		t.Fatal("expected second Remove to report false")
	}
}

func TestIterateVisitsEveryEntry(t *testing.T) {
	kd := New(logger.NewNop())
	kd.Set("a", Entry{Generation: 0, Offset: 0, Length: 1})
	kd.Set("b", Entry{Generation: 0, Offset: 1, Length: 1})

	seen := make(map[string]bool)
	kd.Iterate(func(key string, _ Entry) bool {
		seen[key] = true
		return true
	})
	if len(seen) != 2 || !seen["a"] || !seen["b"] {
		t.Fatalf("got %v", seen)
	}
}

func TestSnapshotReplacesContents(t *testing.T) {
	kd := New(logger.NewNop())
	kd.Set("stale", Entry{Generation: 0, Offset: 0, Length: 1})

	kd.Snapshot(map[string]Entry{"fresh": {Generation: 1, Offset: 0, Length: 1}})

	if _, ok := kd.Get("stale"); ok {
		t.Fatal("expected stale entry to be gone after Snapshot")
	}
	if _, ok := kd.Get("fresh"); !ok {
		t.Fatal("expected fresh entry to be present after Snapshot")
	}
}

func writeGeneration(t *testing.T, dir string, gen uint64, records []record.Record) {
	t.Helper()
	f, err := os.Create(datadir.DataFilePath(dir, gen))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	for _, r := range records {
		if _, err := record.Encode(f, r); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
}

func TestBuildFromLaterGenerationSupersedesEarlier(t *testing.T) {
	dir := t.TempDir()
	writeGeneration(t, dir, 0, []record.Record{{Key: []byte("k"), Value: []byte("old")}})
	writeGeneration(t, dir, 1, []record.Record{{Key: []byte("k"), Value: []byte("new")}})

	entries, err := BuildFrom(dir, []uint64{0, 1})
	if err != nil {
		t.Fatalf("BuildFrom: %v", err)
	}
	entry, ok := entries["k"]
	if !ok || entry.Generation != 1 {
		t.Fatalf("got %+v, want generation 1", entry)
	}
}

func TestBuildFromTombstoneRemovesEarlierKey(t *testing.T) {
	dir := t.TempDir()
	writeGeneration(t, dir, 0, []record.Record{{Key: []byte("k"), Value: []byte("v")}})
	writeGeneration(t, dir, 1, []record.Record{record.NewTombstone([]byte("k"))})

	entries, err := BuildFrom(dir, []uint64{0, 1})
	if err != nil {
		t.Fatalf("BuildFrom: %v", err)
	}
	if _, ok := entries["k"]; ok {
		t.Fatal("expected tombstoned key to be absent from rebuilt keydir")
	}
}

func TestBuildFromEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeGeneration(t, dir, 0, nil)

	entries, err := BuildFrom(dir, []uint64{0})
	if err != nil {
		t.Fatalf("BuildFrom: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestBuildFromTruncatedActiveGenerationAbortsBuild(t *testing.T) {
	dir := t.TempDir()
	writeGeneration(t, dir, 0, []record.Record{{Key: []byte("good"), Value: []byte("v")}})

	path := datadir.DataFilePath(dir, 0)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.Write([]byte{0xFF, 0xFF}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	entries, err := BuildFrom(dir, []uint64{0})
	if err == nil {
		t.Fatal("expected the truncated tail to abort the build with an error")
	}
	if entries != nil {
		t.Fatalf("got %d entries, want no partial keydir on error", len(entries))
	}
}
