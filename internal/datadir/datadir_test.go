package datadir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseGeneration(t *testing.T) {
	cases := []struct {
		name    string
		wantGen uint64
		wantOK  bool
	}{
		{"0.rustcask.data", 0, true},
		{"42.rustcask.data", 42, true},
		{"42.rustcask.hint", 0, false},
		{".rustcask.lock", 0, false},
		{"notes.txt", 0, false},
		{"-1.rustcask.data", 0, false},
	}

	for _, c := range cases {
		gen, ok := ParseGeneration(c.name)
		if ok != c.wantOK || (ok && gen != c.wantGen) {
			t.Errorf("ParseGeneration(%q) = (%d, %v), want (%d, %v)", c.name, gen, ok, c.wantGen, c.wantOK)
		}
	}
}

func TestListGenerationsIgnoresUnrecognisedFiles(t *testing.T) {
	dir := t.TempDir()
	names := []string{"0.rustcask.data", "2.rustcask.data", "1.rustcask.data", "2.rustcask.hint", LockFileName, "readme.txt"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	gens, err := ListGenerations(dir)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	want := []uint64{0, 1, 2}
	if len(gens) != len(want) {
		t.Fatalf("got %v, want %v", gens, want)
	}
	for i := range want {
		if gens[i] != want[i] {
			t.Fatalf("got %v, want %v", gens, want)
		}
	}
}

func TestListGenerationsEmptyDir(t *testing.T) {
	dir := t.TempDir()
	gens, err := ListGenerations(dir)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	if len(gens) != 0 {
		t.Fatalf("got %v, want empty", gens)
	}
}
