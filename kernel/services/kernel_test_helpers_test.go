package services

import (
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
)

const (
	testPageSize  = 4096
	testImageBase = 0x10000
	// imagen en la página 16, guarda en la 17, pila en la 18 y heap desde la 19
	testGuardPage  = 0x11000
	testStackPage  = 0x12000
	testHeapBottom = 0x13000
	testHeapLimit  = 4 * testPageSize
	testMmapBase   = 0x40000
)

type fakeClock struct {
	us uint64
}

func (clock *fakeClock) NowMicros() uint64 {
	return clock.us
}

func (clock *fakeClock) Advance(us uint64) {
	clock.us += us
}

func newTestKernel(t *testing.T, frames int) (*Kernel, *fakeClock) {
	t.Helper()
	config := models.DefaultConfig()
	config.Memory.MemorySize = frames * testPageSize
	config.Memory.PageSize = testPageSize
	config.ImageBase = testImageBase
	config.StackSize = testPageSize
	config.HeapLimit = testHeapLimit
	config.TlbEntries = 4

	clock := &fakeClock{us: 5_000_000}
	kernel, err := NewKernel(config, clock)
	if err != nil {
		t.Fatalf("Expected no error creating kernel, got: %v", err)
	}
	return kernel, clock
}

// spawnTask crea una tarea con una página de imagen y una de pila.
func spawnTask(t *testing.T, kernel *Kernel, name string) uint {
	t.Helper()
	pid, err := kernel.Spawn(name, testPageSize)
	if err != nil {
		t.Fatalf("Expected no error spawning %s, got: %v", name, err)
	}
	return pid
}

func dispatch(t *testing.T, kernel *Kernel, pid uint, id int, args ...uint64) int64 {
	t.Helper()
	var raw [3]uint64
	copy(raw[:], args)
	result, err := kernel.Dispatch(pid, id, raw)
	if err != nil {
		t.Fatalf("Unexpected dispatch error for %s: %v", models.SyscallName(id), err)
	}
	return result
}

func mappings(t *testing.T, kernel *Kernel, pid uint) []models.MemoryMapping {
	t.Helper()
	space, err := kernel.tasks.Space(pid)
	if err != nil {
		t.Fatalf("Expected address space for PID %d, got: %v", pid, err)
	}
	return space.Mappings.GetAll()
}

func taskStatus(t *testing.T, kernel *Kernel, pid uint) models.TaskStatus {
	t.Helper()
	status, err := kernel.tasks.GetStatus(pid)
	if err != nil {
		t.Fatalf("Expected status for PID %d, got: %v", pid, err)
	}
	return status
}
