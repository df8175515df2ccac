package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/models"
	memoriaModels "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
	memoriaServices "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/services"
)

const testPageSize = 64

func newTestMMU(t *testing.T, tlbEntries int) (*MMU, *memoriaServices.Memory) {
	t.Helper()
	memory, err := memoriaServices.NewMemory(memoriaModels.Config{
		MemorySize:     16 * testPageSize,
		PageSize:       testPageSize,
		EntriesPerPage: 8,
		NumberOfLevels: 2,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	memory.CreateAddressSpace(1)
	return NewMMU(memory, NewTLB(tlbEntries, models.TLBLru)), memory
}

func TestTLB_FIFOReplacement(t *testing.T) {
	tlb := NewTLB(2, models.TLBFifo)

	tlb.Insert(1, 10, 100, memoriaModels.PTERead)
	tlb.Insert(1, 20, 200, memoriaModels.PTERead)
	tlb.Search(1, 10)
	tlb.Insert(1, 30, 300, memoriaModels.PTERead)

	if _, found := tlb.Search(1, 10); found {
		t.Errorf("Expected page 10 to be evicted by FIFO")
	}
	if entry, found := tlb.Search(1, 30); !found || entry.FrameNumber != 300 {
		t.Errorf("Expected page 30 in TLB, got %+v", entry)
	}
}

func TestTLB_LRUReplacement(t *testing.T) {
	tlb := NewTLB(2, models.TLBLru)

	tlb.Insert(1, 10, 100, memoriaModels.PTERead)
	tlb.Insert(1, 20, 200, memoriaModels.PTERead)
	tlb.Search(1, 10)
	tlb.Insert(1, 30, 300, memoriaModels.PTERead)

	if _, found := tlb.Search(1, 20); found {
		t.Errorf("Expected page 20 to be evicted by LRU")
	}
	if _, found := tlb.Search(1, 10); !found {
		t.Errorf("Expected page 10 to survive")
	}
}

func TestTLB_RemoveRangeAndPID(t *testing.T) {
	tlb := NewTLB(8, models.TLBFifo)
	for page := 0; page < 4; page++ {
		tlb.Insert(1, page, page, memoriaModels.PTERead)
	}
	tlb.Insert(2, 1, 9, memoriaModels.PTERead)

	tlb.RemoveRange(1, 1, 2)
	if _, found := tlb.Search(1, 1); found {
		t.Errorf("Expected page 1 removed")
	}
	if _, found := tlb.Search(1, 3); !found {
		t.Errorf("Expected page 3 to stay")
	}
	if _, found := tlb.Search(2, 1); !found {
		t.Errorf("Expected PID 2 entries to stay")
	}

	tlb.RemoveByPID(1)
	if tlb.Size() != 1 {
		t.Errorf("Expected only PID 2 entry, got %d entries", tlb.Size())
	}
}

func TestTLB_Disabled(t *testing.T) {
	tlb := NewTLB(0, models.TLBLru)
	tlb.Insert(1, 1, 1, memoriaModels.PTERead)

	if tlb.Size() != 0 {
		t.Errorf("Expected disabled TLB to stay empty")
	}
}

func TestMMU_WriteUserAcrossPageBoundary(t *testing.T) {
	mmu, memory := newTestMMU(t, 4)
	flags := memoriaModels.PTERead | memoriaModels.PTEWrite | memoriaModels.PTEUser
	// Frames no contiguos: la página 3 queda en el frame 0 y la página 4 en el frame 2
	memory.MapPage(1, 3, flags)
	memory.MapPage(1, 9, flags)
	memory.MapPage(1, 4, flags)

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	address := uint64(4*testPageSize - 8)
	if err := mmu.WriteUser(1, address, data); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	firstHalf, _ := memory.ReadFrame(0, testPageSize-8, 8)
	secondHalf, _ := memory.ReadFrame(2, 0, 8)
	if !bytes.Equal(firstHalf, data[:8]) || !bytes.Equal(secondHalf, data[8:]) {
		t.Errorf("Unexpected frame contents %v / %v", firstHalf, secondHalf)
	}

	readBack, err := mmu.ReadUser(1, address, len(data))
	if err != nil || !bytes.Equal(readBack, data) {
		t.Errorf("Expected %v, got %v (%v)", data, readBack, err)
	}
}

func TestMMU_WriteUserFaultsWithoutPartialWrite(t *testing.T) {
	mmu, memory := newTestMMU(t, 4)
	memory.MapPage(1, 0, memoriaModels.PTERead|memoriaModels.PTEWrite|memoriaModels.PTEUser)

	err := mmu.WriteUser(1, testPageSize-4, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	if !errors.Is(err, models.ErrPageFault) {
		t.Fatalf("Expected ErrPageFault, got: %v", err)
	}

	untouched, _ := memory.ReadFrame(0, testPageSize-4, 4)
	if !bytes.Equal(untouched, []byte{0, 0, 0, 0}) {
		t.Errorf("Expected no partial write, got %v", untouched)
	}
}

func TestMMU_PermissionChecks(t *testing.T) {
	mmu, memory := newTestMMU(t, 4)
	memory.MapPage(1, 0, memoriaModels.PTERead|memoriaModels.PTEUser)
	memory.MapPage(1, 1, memoriaModels.PTERead|memoriaModels.PTEWrite)

	if _, _, err := mmu.Translate(1, 0, models.AccessRead); err != nil {
		t.Errorf("Expected read to succeed, got: %v", err)
	}
	if _, _, err := mmu.Translate(1, 8, models.AccessWrite); !errors.Is(err, models.ErrPageFault) {
		t.Errorf("Expected write fault on read-only page, got: %v", err)
	}
	if _, _, err := mmu.Translate(1, testPageSize, models.AccessRead); !errors.Is(err, models.ErrPageFault) {
		t.Errorf("Expected fault on kernel-only page, got: %v", err)
	}
	if _, _, err := mmu.Translate(1, 1<<40, models.AccessRead); !errors.Is(err, models.ErrPageFault) {
		t.Errorf("Expected fault outside address space, got: %v", err)
	}
}

func TestMMU_InvalidateRangeDropsStaleTranslation(t *testing.T) {
	mmu, memory := newTestMMU(t, 4)
	flags := memoriaModels.PTERead | memoriaModels.PTEWrite | memoriaModels.PTEUser
	memory.MapPage(1, 2, flags)

	if _, _, err := mmu.Translate(1, 2*testPageSize, models.AccessWrite); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	memory.UnmapPage(1, 2)
	mmu.InvalidateRange(1, 2, 1)

	if _, _, err := mmu.Translate(1, 2*testPageSize, models.AccessWrite); !errors.Is(err, models.ErrPageFault) {
		t.Errorf("Expected fault after invalidation, got: %v", err)
	}
}
