package services

import (
	"errors"
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
)

func TestGetPageIndices(t *testing.T) {
	indices := getPageIndices(1*16+2*4+3, 3, 4)
	expected := []int{1, 2, 3}
	for i := range expected {
		if indices[i] != expected[i] {
			t.Errorf("Expected index %d at level %d, got %d", expected[i], i, indices[i])
		}
	}
}

func TestPageTable_MapAndFind(t *testing.T) {
	table := NewPageTable(3, 4)

	if err := table.Map(27, 5, models.PTERead|models.PTEUser); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	entry, err := table.Find(27)
	if err != nil {
		t.Fatalf("Expected entry, got: %v", err)
	}
	if entry.Frame != 5 {
		t.Errorf("Expected frame 5, got %d", entry.Frame)
	}
	if !entry.Flags.Has(models.PTEValid | models.PTERead | models.PTEUser) {
		t.Errorf("Unexpected flags %s", entry.Flags)
	}

	if _, err := table.Find(26); !errors.Is(err, models.ErrPageNotMapped) {
		t.Errorf("Expected ErrPageNotMapped, got: %v", err)
	}
}

func TestPageTable_MapTwiceFails(t *testing.T) {
	table := NewPageTable(2, 8)
	table.Map(3, 1, models.PTERead)

	if err := table.Map(3, 2, models.PTERead); !errors.Is(err, models.ErrPageAlreadyMapped) {
		t.Errorf("Expected ErrPageAlreadyMapped, got: %v", err)
	}
	if table.MappedPages() != 1 {
		t.Errorf("Expected 1 mapped page, got %d", table.MappedPages())
	}
}

func TestPageTable_OutOfRange(t *testing.T) {
	table := NewPageTable(2, 4)

	if err := table.Map(16, 1, models.PTERead); !errors.Is(err, models.ErrPageOutOfRange) {
		t.Errorf("Expected ErrPageOutOfRange, got: %v", err)
	}
	if _, err := table.Find(-1); !errors.Is(err, models.ErrPageOutOfRange) {
		t.Errorf("Expected ErrPageOutOfRange, got: %v", err)
	}
}

func TestPageTable_UnmapPrunesEmptyLevels(t *testing.T) {
	table := NewPageTable(3, 4)
	table.Map(40, 9, models.PTEWrite)

	entry, err := table.Unmap(40)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entry.Frame != 9 {
		t.Errorf("Expected frame 9, got %d", entry.Frame)
	}
	if len(table.root.SubTables) != 0 {
		t.Errorf("Expected empty root after unmap, got %d subtables", len(table.root.SubTables))
	}

	if _, err := table.Unmap(40); !errors.Is(err, models.ErrPageNotMapped) {
		t.Errorf("Expected ErrPageNotMapped on second unmap, got: %v", err)
	}
}

func TestPageTable_PagesAreSorted(t *testing.T) {
	table := NewPageTable(2, 4)
	for _, page := range []int{9, 2, 14, 0} {
		table.Map(page, page+100, models.PTERead)
	}

	pages := table.Pages()
	expected := []int{0, 2, 9, 14}
	if len(pages) != len(expected) {
		t.Fatalf("Expected %d pages, got %d", len(expected), len(pages))
	}
	for i, page := range pages {
		if page.PageNumber != expected[i] || page.Frame != expected[i]+100 {
			t.Errorf("Unexpected page at %d: %+v", i, page)
		}
	}
}

func TestPageTable_SingleLevel(t *testing.T) {
	table := NewPageTable(1, 8)
	table.Map(5, 3, models.PTERead)

	entry, err := table.Find(5)
	if err != nil || entry.Frame != 3 {
		t.Errorf("Expected frame 3, got %v (%v)", entry, err)
	}
}
