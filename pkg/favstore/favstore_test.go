package favstore

import (
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// missing key yields an empty set
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("fresh store should be empty: %v", got)
	}

	want := map[string]bool{"bitcoin": true, "solana": true}
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err = s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !got["bitcoin"] || !got["solana"] {
		t.Errorf("Load() = %v", got)
	}

	// save replaces the whole set
	if err := s.Save(map[string]bool{"ethereum": true}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Load()
	if len(got) != 1 || !got["ethereum"] {
		t.Errorf("Load() after replace = %v", got)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(map[string]bool{"pepe": true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !got["pepe"] {
		t.Errorf("favorites should survive reopen: %v", got)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("empty path should be rejected")
	}
}
