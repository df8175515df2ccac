package services

import (
	"fmt"
	"log/slog"
	"sync"

	cpuServices "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/services"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
	memoriaModels "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
	memoriaServices "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/services"
)

// Kernel es el punto de entrada de las syscalls. El mutex cumple el rol de la única CPU:
// sólo un handler corre a la vez y deja todo consistente antes de soltarlo.
type Kernel struct {
	mu     sync.Mutex
	tasks  *TaskManager
	memory *memoriaServices.Memory
	mmu    *cpuServices.MMU
	clock  Clock
}

func NewKernel(config models.Config, clock Clock) (*Kernel, error) {
	memory, err := memoriaServices.NewMemory(config.Memory)
	if err != nil {
		return nil, fmt.Errorf("error al inicializar memoria: %w", err)
	}
	mmu := cpuServices.NewMMU(memory, cpuServices.NewTLB(config.TlbEntries, config.TlbReplacement))

	tasks, err := NewTaskManager(memory, mmu, clock, Layout{
		ImageBase: config.ImageBase,
		StackSize: config.StackSize,
		HeapLimit: config.HeapLimit,
	})
	if err != nil {
		return nil, err
	}

	return &Kernel{
		tasks:  tasks,
		memory: memory,
		mmu:    mmu,
		clock:  clock,
	}, nil
}

// Boot crea las tareas iniciales configuradas.
func (k *Kernel) Boot(bootTasks []models.SpawnRequest) error {
	for _, task := range bootTasks {
		if _, err := k.Spawn(task.Name, task.ImageSize); err != nil {
			return fmt.Errorf("no se pudo crear la tarea inicial %s: %w", task.Name, err)
		}
	}
	slog.Debug("Kernel iniciado", "tareas", len(bootTasks))
	return nil
}

func (k *Kernel) Spawn(name string, imageSize int) (uint, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.tasks.Spawn(name, imageSize)
}

func (k *Kernel) Tasks() []models.TaskSnapshot {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.tasks.Snapshots()
}

func (k *Kernel) CurrentTaskID() (uint, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.tasks.CurrentTaskID()
}

func (k *Kernel) MemoryStatus() memoriaModels.MemoryStatus {
	return k.memory.Status()
}

func (k *Kernel) PageTable(pid uint) ([]memoriaModels.MappedPage, error) {
	return k.memory.Pages(pid)
}

func (k *Kernel) FrameOwners() []int {
	return k.memory.FrameOwners()
}

// ReadUser lee memoria de la tarea con los permisos de usuario.
func (k *Kernel) ReadUser(pid uint, address uint64, size int) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.mmu.ReadUser(pid, address, size)
}

// WriteUser escribe memoria de la tarea con los permisos de usuario, como lo haría la propia tarea.
func (k *Kernel) WriteUser(pid uint, address uint64, data []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.mmu.WriteUser(pid, address, data)
}
