package services

import (
	"fmt"
	"log/slog"

	cpuServices "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/services"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
	memoriaModels "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
	memoriaServices "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/services"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/list"
)

// Layout fija dónde se ubican imagen, pila y heap en el espacio de direcciones de cada tarea.
type Layout struct {
	ImageBase uint64
	StackSize int
	HeapLimit int
}

// TaskManager es el directorio de tareas y el planificador cooperativo de una única CPU.
// No tiene locks propios: todas las llamadas llegan serializadas por el Kernel.
type TaskManager struct {
	tasks   map[uint]*models.TaskControlBlock
	ready   *list.ArrayList[uint]
	current uint
	running bool
	nextPID uint
	memory  *memoriaServices.Memory
	mmu     *cpuServices.MMU
	clock   Clock
	layout  Layout
}

func NewTaskManager(memory *memoriaServices.Memory, mmu *cpuServices.MMU, clock Clock, layout Layout) (*TaskManager, error) {
	pageSize := uint64(memory.PageSize())
	if layout.ImageBase%pageSize != 0 {
		return nil, fmt.Errorf("%w: image_base 0x%x no está alineada a página", models.ErrInvalidLayout, layout.ImageBase)
	}
	if layout.StackSize <= 0 || layout.HeapLimit < 0 {
		return nil, fmt.Errorf("%w: stack_size %d, heap_limit %d", models.ErrInvalidLayout, layout.StackSize, layout.HeapLimit)
	}

	return &TaskManager{
		tasks:  make(map[uint]*models.TaskControlBlock),
		ready:  &list.ArrayList[uint]{},
		memory: memory,
		mmu:    mmu,
		clock:  clock,
		layout: layout,
	}, nil
}

// Spawn crea una tarea con su imagen y su pila mapeadas y la encola en READY.
// Si la CPU estaba ociosa la tarea pasa directamente a ejecutar.
func (tm *TaskManager) Spawn(name string, imageSize int) (uint, error) {
	if imageSize <= 0 {
		return 0, fmt.Errorf("%w: tamaño de imagen %d", models.ErrInvalidLayout, imageSize)
	}
	pid := tm.nextPID

	space, err := tm.buildAddressSpace(pid, imageSize)
	if err != nil {
		return 0, err
	}
	tm.nextPID++

	tm.tasks[pid] = &models.TaskControlBlock{
		PID:    pid,
		Name:   name,
		Status: models.TaskReady,
		Space:  space,
	}
	tm.ready.Add(pid)
	slog.Info(fmt.Sprintf("## (%d) Se crea la tarea %s - Estado : %s", pid, name, models.TaskReady))

	if !tm.running {
		tm.runNext()
	}
	return pid, nil
}

func (tm *TaskManager) buildAddressSpace(pid uint, imageSize int) (*models.AddressSpace, error) {
	pageSize := tm.memory.PageSize()
	imagePages := pagesFor(uint64(imageSize), pageSize)
	stackPages := pagesFor(uint64(tm.layout.StackSize), pageSize)

	imageFirst := int(tm.layout.ImageBase / uint64(pageSize))
	// Una página de guarda sin mapear entre la imagen y la pila
	stackFirst := imageFirst + imagePages + 1
	heapFirst := stackFirst + stackPages
	heapLast := heapFirst + pagesFor(uint64(tm.layout.HeapLimit), pageSize)
	if heapLast > tm.memory.MaxPages() {
		return nil, fmt.Errorf("%w: el heap de la tarea excede el espacio de direcciones", models.ErrInvalidLayout)
	}

	if err := tm.memory.CreateAddressSpace(pid); err != nil {
		return nil, err
	}
	imageFlags := memoriaModels.PTERead | memoriaModels.PTEWrite | memoriaModels.PTEExecute | memoriaModels.PTEUser
	stackFlags := memoriaModels.PTERead | memoriaModels.PTEWrite | memoriaModels.PTEUser
	if err := mapPages(tm.memory, pid, imageFirst, imagePages, imageFlags); err != nil {
		tm.memory.DestroyAddressSpace(pid)
		return nil, fmt.Errorf("no se pudo cargar la imagen de la tarea %d: %w", pid, err)
	}
	if err := mapPages(tm.memory, pid, stackFirst, stackPages, stackFlags); err != nil {
		tm.memory.DestroyAddressSpace(pid)
		return nil, fmt.Errorf("no se pudo crear la pila de la tarea %d: %w", pid, err)
	}

	heapBottom := pageAddress(heapFirst, pageSize)
	return &models.AddressSpace{
		ImageBase:   tm.layout.ImageBase,
		ImageEnd:    tm.layout.ImageBase + uint64(imageSize),
		StackBottom: pageAddress(stackFirst, pageSize),
		StackTop:    heapBottom,
		HeapBottom:  heapBottom,
		HeapLimit:   uint64(tm.layout.HeapLimit),
		Brk:         heapBottom,
		Mappings:    &list.ArrayList[models.MemoryMapping]{},
	}, nil
}

// transition valida y aplica el cambio de estado. Cualquier salida de EXITED es un error fatal del kernel.
func (tm *TaskManager) transition(tcb *models.TaskControlBlock, newStatus models.TaskStatus) {
	oldStatus := tcb.Status
	var legal bool
	switch oldStatus {
	case models.TaskReady:
		legal = newStatus == models.TaskRunning
	case models.TaskRunning:
		legal = newStatus == models.TaskReady || newStatus == models.TaskExited
	case models.TaskExited:
		legal = false
	}
	if !legal {
		panic(fmt.Sprintf("## (%d) transición de estado inválida: %s -> %s", tcb.PID, oldStatus, newStatus))
	}

	tcb.Status = newStatus
	slog.Info(fmt.Sprintf("## (%d) Pasa del estado %s al estado %s", tcb.PID, oldStatus, newStatus))
}

// runNext toma la primera tarea de READY y la pone a ejecutar. Sin tareas listas la CPU queda ociosa.
func (tm *TaskManager) runNext() {
	pid, err := tm.ready.Dequeue()
	if err != nil {
		tm.running = false
		slog.Info("## No quedan tareas en READY - CPU en IDLE")
		return
	}

	tcb := tm.tasks[pid]
	tm.transition(tcb, models.TaskRunning)
	if !tcb.Started {
		tcb.Started = true
		tcb.FirstRunUs = tm.clock.NowMicros()
	}
	tm.current = pid
	tm.running = true
}

func (tm *TaskManager) currentTask() *models.TaskControlBlock {
	if !tm.running {
		panic("no hay tarea en ejecución")
	}
	return tm.tasks[tm.current]
}

// SuspendCurrentAndRunNext manda la tarea actual al final de READY y elige la siguiente,
// que puede ser la misma si no había otra lista.
func (tm *TaskManager) SuspendCurrentAndRunNext() {
	tcb := tm.currentTask()
	tm.transition(tcb, models.TaskReady)
	tm.ready.Add(tcb.PID)
	tm.running = false
	tm.runNext()
}

// ExitCurrentAndRunNext finaliza la tarea actual, libera toda su memoria y elige la siguiente.
func (tm *TaskManager) ExitCurrentAndRunNext(exitCode int32) {
	tcb := tm.currentTask()
	tm.transition(tcb, models.TaskExited)
	tcb.ExitCode = exitCode
	tcb.ExitedUs = tm.clock.NowMicros()

	tm.ReleaseAllMappings(tcb.PID)
	released, err := tm.memory.DestroyAddressSpace(tcb.PID)
	if err != nil {
		panic(fmt.Sprintf("## (%d) inconsistencia al liberar el espacio de direcciones: %v", tcb.PID, err))
	}
	tm.mmu.InvalidateProcess(tcb.PID)
	tcb.Space.Brk = tcb.Space.HeapBottom

	slog.Info(fmt.Sprintf("## (%d) Finaliza la tarea - Código de salida: %d - Frames liberados: %d", tcb.PID, exitCode, released))
	tm.running = false
	tm.runNext()
}

func (tm *TaskManager) CurrentTaskID() (uint, bool) {
	return tm.current, tm.running
}

func (tm *TaskManager) task(pid uint) (*models.TaskControlBlock, error) {
	tcb, exists := tm.tasks[pid]
	if !exists {
		return nil, fmt.Errorf("%w: PID %d", models.ErrUnknownTask, pid)
	}
	return tcb, nil
}

func (tm *TaskManager) GetStatus(pid uint) (models.TaskStatus, error) {
	tcb, err := tm.task(pid)
	if err != nil {
		return 0, err
	}
	return tcb.Status, nil
}

func (tm *TaskManager) GetSyscallHistogram(pid uint) ([models.MaxSyscallNum]uint32, error) {
	tcb, err := tm.task(pid)
	if err != nil {
		return [models.MaxSyscallNum]uint32{}, err
	}
	return tcb.SyscallTimes, nil
}

// GetRunningTime devuelve los milisegundos desde que la tarea ejecutó por primera vez.
func (tm *TaskManager) GetRunningTime(pid uint) (uint64, error) {
	tcb, err := tm.task(pid)
	if err != nil {
		return 0, err
	}
	if !tcb.Started {
		return 0, nil
	}
	end := tm.clock.NowMicros()
	if tcb.Status == models.TaskExited {
		end = tcb.ExitedUs
	}
	return (end - tcb.FirstRunUs) / 1000, nil
}

// RecordSyscall suma uno al contador de la syscall. Ids fuera del histograma no se cuentan.
func (tm *TaskManager) RecordSyscall(pid uint, id int) {
	tcb, err := tm.task(pid)
	if err != nil || id < 0 || id >= models.MaxSyscallNum {
		return
	}
	tcb.SyscallTimes[id]++
}

func (tm *TaskManager) Space(pid uint) (*models.AddressSpace, error) {
	tcb, err := tm.task(pid)
	if err != nil {
		return nil, err
	}
	return tcb.Space, nil
}

// RecordMapping agrega la región manteniendo la lista ordenada por base.
func (tm *TaskManager) RecordMapping(pid uint, mapping models.MemoryMapping) error {
	space, err := tm.Space(pid)
	if err != nil {
		return err
	}
	space.Mappings.InsertOrdered(mapping, func(a, b models.MemoryMapping) bool {
		return a.Base < b.Base
	})
	return nil
}

func (tm *TaskManager) RemoveMapping(pid uint, base uint64) (models.MemoryMapping, bool) {
	space, err := tm.Space(pid)
	if err != nil {
		return models.MemoryMapping{}, false
	}
	return space.Mappings.RemoveWhere(func(mapping models.MemoryMapping) bool {
		return mapping.Base == base
	})
}

// ReleaseAllMappings desmapea todas las regiones de mmap de la tarea y libera sus frames.
func (tm *TaskManager) ReleaseAllMappings(pid uint) {
	space, err := tm.Space(pid)
	if err != nil {
		return
	}
	pageSize := tm.memory.PageSize()
	for _, mapping := range space.Mappings.GetAll() {
		first := int(mapping.Base / uint64(pageSize))
		if err := unmapPages(tm.memory, pid, first, mapping.PageCount); err != nil {
			panic(fmt.Sprintf("## (%d) región 0x%x inconsistente con la tabla de páginas: %v", pid, mapping.Base, err))
		}
		tm.mmu.InvalidateRange(pid, first, mapping.PageCount)
		tm.RemoveMapping(pid, mapping.Base)
	}
}

func (tm *TaskManager) Snapshots() []models.TaskSnapshot {
	snapshots := make([]models.TaskSnapshot, 0, len(tm.tasks))
	for pid := uint(0); pid < tm.nextPID; pid++ {
		tcb, exists := tm.tasks[pid]
		if !exists {
			continue
		}
		syscalls := make(map[string]int)
		for id, count := range tcb.SyscallTimes {
			if count > 0 {
				syscalls[models.SyscallName(id)] += int(count)
			}
		}
		runningMs, _ := tm.GetRunningTime(pid)
		snapshots = append(snapshots, models.TaskSnapshot{
			PID:       pid,
			Name:      tcb.Name,
			Status:    tcb.Status.String(),
			ExitCode:  tcb.ExitCode,
			Brk:       tcb.Space.Brk,
			Mappings:  tcb.Space.Mappings.GetAll(),
			Syscalls:  syscalls,
			RunningMs: runningMs,
		})
	}
	return snapshots
}
