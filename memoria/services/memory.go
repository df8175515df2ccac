package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
)

// Memory agrupa la memoria de usuario, el asignador de frames y las tablas de páginas de cada proceso.
type Memory struct {
	mu         sync.Mutex
	config     models.Config
	userMemory []byte
	frames     *FrameAllocator
	pageTables map[uint]*PageTable
}

func NewMemory(config models.Config) (*Memory, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	totalFrames := config.MemorySize / config.PageSize
	slog.Debug("Memoria inicializada", "tamaño", config.MemorySize, "frames", totalFrames)

	return &Memory{
		config:     config,
		userMemory: make([]byte, config.MemorySize),
		frames:     NewFrameAllocator(totalFrames),
		pageTables: make(map[uint]*PageTable),
	}, nil
}

func validateConfig(config models.Config) error {
	if config.PageSize <= 0 || config.PageSize&(config.PageSize-1) != 0 {
		return fmt.Errorf("page_size debe ser potencia de 2, se recibió %d", config.PageSize)
	}
	if config.MemorySize <= 0 || config.MemorySize%config.PageSize != 0 {
		return fmt.Errorf("memory_size (%d) debe ser múltiplo de page_size (%d)", config.MemorySize, config.PageSize)
	}
	if config.NumberOfLevels < 1 || config.EntriesPerPage < 2 {
		return fmt.Errorf("tabla multinivel inválida: %d niveles de %d entradas", config.NumberOfLevels, config.EntriesPerPage)
	}
	return nil
}

func (memory *Memory) PageSize() int {
	return memory.config.PageSize
}

// MaxPages es la cantidad de páginas virtuales que puede direccionar un proceso.
func (memory *Memory) MaxPages() int {
	return intPow(memory.config.EntriesPerPage, memory.config.NumberOfLevels)
}

func (memory *Memory) CreateAddressSpace(pid uint) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, exists := memory.pageTables[pid]; exists {
		return fmt.Errorf("%w: PID %d", models.ErrAddressSpaceInUse, pid)
	}
	memory.pageTables[pid] = NewPageTable(memory.config.NumberOfLevels, memory.config.EntriesPerPage)
	return nil
}

// DestroyAddressSpace libera todos los frames del proceso y elimina su tabla. Devuelve la cantidad de frames liberados.
func (memory *Memory) DestroyAddressSpace(pid uint) (int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	table, exists := memory.pageTables[pid]
	if !exists {
		return 0, fmt.Errorf("%w: PID %d", models.ErrNoAddressSpace, pid)
	}

	released := 0
	for _, page := range table.Pages() {
		if err := memory.frames.ReleaseFrame(page.Frame); err != nil {
			return released, err
		}
		released++
	}
	delete(memory.pageTables, pid)

	slog.Debug("Espacio de direcciones destruido", "pid", pid, "frames", released)
	return released, nil
}

// MapPage asigna un frame limpio y lo mapea en la página indicada. Si el mapeo falla el frame se devuelve.
func (memory *Memory) MapPage(pid uint, pageNumber int, flags models.PTEFlags) (int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	table, exists := memory.pageTables[pid]
	if !exists {
		return -1, fmt.Errorf("%w: PID %d", models.ErrNoAddressSpace, pid)
	}

	frame, err := memory.frames.AllocateFrame()
	if err != nil {
		return -1, err
	}
	if err := table.Map(pageNumber, frame, flags); err != nil {
		if releaseErr := memory.frames.ReleaseFrame(frame); releaseErr != nil {
			return -1, errors.Join(err, releaseErr)
		}
		return -1, err
	}

	clear(memory.frameBytes(frame))
	return frame, nil
}

// UnmapPage quita la página de la tabla y libera su frame.
func (memory *Memory) UnmapPage(pid uint, pageNumber int) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	table, exists := memory.pageTables[pid]
	if !exists {
		return fmt.Errorf("%w: PID %d", models.ErrNoAddressSpace, pid)
	}

	entry, err := table.Unmap(pageNumber)
	if err != nil {
		return err
	}
	return memory.frames.ReleaseFrame(entry.Frame)
}

// Lookup devuelve una copia de la entrada de la página.
func (memory *Memory) Lookup(pid uint, pageNumber int) (models.PageEntry, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	table, exists := memory.pageTables[pid]
	if !exists {
		return models.PageEntry{}, fmt.Errorf("%w: PID %d", models.ErrNoAddressSpace, pid)
	}
	entry, err := table.Find(pageNumber)
	if err != nil {
		return models.PageEntry{}, err
	}
	return *entry, nil
}

// IsMapped indica si la página está presente en la tabla del proceso.
func (memory *Memory) IsMapped(pid uint, pageNumber int) bool {
	_, err := memory.Lookup(pid, pageNumber)
	return err == nil
}

// MarkAccessed actualiza los bits de uso y modificado de la entrada.
func (memory *Memory) MarkAccessed(pid uint, pageNumber int, write bool) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	table, exists := memory.pageTables[pid]
	if !exists {
		return
	}
	if entry, err := table.Find(pageNumber); err == nil {
		entry.Use = true
		entry.Modified = entry.Modified || write
	}
}

func (memory *Memory) Pages(pid uint) ([]models.MappedPage, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	table, exists := memory.pageTables[pid]
	if !exists {
		return nil, fmt.Errorf("%w: PID %d", models.ErrNoAddressSpace, pid)
	}
	return table.Pages(), nil
}

// WriteFrame escribe data dentro de un único frame a partir de offset.
func (memory *Memory) WriteFrame(frame int, offset int, data []byte) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if err := memory.checkFrameRange(frame, offset, len(data)); err != nil {
		return err
	}
	copy(memory.frameBytes(frame)[offset:], data)
	return nil
}

// ReadFrame lee size bytes de un único frame a partir de offset.
func (memory *Memory) ReadFrame(frame int, offset int, size int) ([]byte, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if err := memory.checkFrameRange(frame, offset, size); err != nil {
		return nil, err
	}
	data := make([]byte, size)
	copy(data, memory.frameBytes(frame)[offset:offset+size])
	return data, nil
}

func (memory *Memory) checkFrameRange(frame int, offset int, size int) error {
	if frame < 0 || frame >= memory.frames.TotalFrames() {
		return fmt.Errorf("%w: %d", models.ErrInvalidFrame, frame)
	}
	if offset < 0 || size < 0 || offset+size > memory.config.PageSize {
		return fmt.Errorf("acceso fuera del frame %d: offset %d, tamaño %d", frame, offset, size)
	}
	return nil
}

func (memory *Memory) frameBytes(frame int) []byte {
	start := frame * memory.config.PageSize
	return memory.userMemory[start : start+memory.config.PageSize]
}

func (memory *Memory) FreeFrames() int {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	return memory.frames.FreeCount()
}

func (memory *Memory) Status() models.MemoryStatus {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	return models.MemoryStatus{
		PageSize:   memory.config.PageSize,
		TotalFrame: memory.frames.TotalFrames(),
		FreeFrames: memory.frames.FreeCount(),
		Processes:  len(memory.pageTables),
	}
}

// FrameOwners devuelve, para cada frame, el PID que lo tiene mapeado o FreeFrameOwner si está libre.
func (memory *Memory) FrameOwners() []int {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	owners := make([]int, memory.frames.TotalFrames())
	for i := range owners {
		owners[i] = FreeFrameOwner
	}
	for pid, table := range memory.pageTables {
		for _, page := range table.Pages() {
			owners[page.Frame] = int(pid)
		}
	}
	return owners
}
