package store

import (
	"path/filepath"
	"testing"

	"github.com/CovidMutations/mutmap/internal/mapping"
)

func TestMappingStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mapping.duckdb")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.CreateSchema(); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	entries := []mapping.Entry{
		{Nucleotide: "9C>T", Protein: "S3S"},
		{Nucleotide: "9C>T", Protein: "T3I"},
		{Nucleotide: "241C>T", Protein: "P4L"},
	}
	for _, e := range entries {
		if err := s.AddEntry(e); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}

	proteins, err := s.Lookup("9C>T")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(proteins) != 2 || proteins[0] != "S3S" || proteins[1] != "T3I" {
		t.Errorf("Lookup(9C>T) = %v, want [S3S T3I]", proteins)
	}

	none, err := s.Lookup("1A>C")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Lookup(1A>C) = %v, want empty", none)
	}
}

func TestMappingStore_FlushOnClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mapping.duckdb")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.CreateSchema(); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	if err := s.AddEntry(mapping.Entry{Nucleotide: "5G>A", Protein: "A2T"}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	proteins, err := reopened.Lookup("5G>A")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(proteins) != 1 || proteins[0] != "A2T" {
		t.Errorf("Lookup(5G>A) = %v, want [A2T]", proteins)
	}
}
