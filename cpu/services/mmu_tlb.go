package services

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/models"
	memoriaModels "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
	memoriaServices "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/services"
)

// TLB cachea traducciones página -> frame junto con sus permisos. Con maxSize 0 queda desactivada.
type TLB struct {
	mu        sync.Mutex
	entries   []models.TLBEntry
	maxSize   int
	algorithm string // "FIFO" o "LRU"
	counter   int64  // para LRU, contador incremental
}

func NewTLB(maxSize int, algorithm string) *TLB {
	if maxSize < 0 {
		maxSize = 0
	}
	if algorithm != models.TLBFifo && algorithm != models.TLBLru {
		slog.Warn("Algoritmo de TLB desconocido, se usa FIFO", "algoritmo", algorithm)
		algorithm = models.TLBFifo
	}
	return &TLB{
		entries:   make([]models.TLBEntry, 0, maxSize),
		maxSize:   maxSize,
		algorithm: algorithm,
	}
}

func (tlb *TLB) Enabled() bool {
	return tlb.maxSize > 0
}

func (tlb *TLB) Search(pid uint, page int) (models.TLBEntry, bool) {
	tlb.mu.Lock()
	defer tlb.mu.Unlock()

	for i := range tlb.entries {
		if tlb.entries[i].PID == pid && tlb.entries[i].PageNumber == page {
			if tlb.algorithm == models.TLBLru {
				tlb.counter++
				tlb.entries[i].LastUsed = tlb.counter
			}
			return tlb.entries[i], true
		}
	}

	return models.TLBEntry{}, false
}

func (tlb *TLB) Insert(pid uint, page int, frame int, flags memoriaModels.PTEFlags) {
	if !tlb.Enabled() {
		return
	}
	tlb.mu.Lock()
	defer tlb.mu.Unlock()

	tlb.counter++
	entry := models.TLBEntry{
		PID:         pid,
		PageNumber:  page,
		FrameNumber: frame,
		Flags:       flags,
		LastUsed:    tlb.counter,
	}

	if len(tlb.entries) < tlb.maxSize {
		tlb.entries = append(tlb.entries, entry)
		return
	}

	victimIndex := 0
	if tlb.algorithm == models.TLBLru {
		minUsage := tlb.entries[0].LastUsed
		for i, e := range tlb.entries {
			if e.LastUsed < minUsage {
				minUsage = e.LastUsed
				victimIndex = i
			}
		}
	}

	victim := tlb.entries[victimIndex]
	if tlb.algorithm == models.TLBFifo {
		// FIFO: la más vieja siempre está al principio
		tlb.entries = append(tlb.entries[1:], entry)
	} else {
		tlb.entries[victimIndex] = entry
	}
	slog.Debug(fmt.Sprintf("TLB reemplazo: Reemplazando entrada PID %d - Página %d por PID %d - Página %d",
		victim.PID, victim.PageNumber, entry.PID, entry.PageNumber))
}

// RemoveRange elimina las entradas de las páginas [firstPage, firstPage+count) del proceso.
func (tlb *TLB) RemoveRange(pid uint, firstPage int, count int) {
	tlb.removeWhere(func(entry models.TLBEntry) bool {
		return entry.PID == pid && entry.PageNumber >= firstPage && entry.PageNumber < firstPage+count
	})
}

// Elimina las entradas de los procesos que sean finalizados.
func (tlb *TLB) RemoveByPID(pid uint) {
	tlb.removeWhere(func(entry models.TLBEntry) bool {
		return entry.PID == pid
	})
}

func (tlb *TLB) removeWhere(match func(models.TLBEntry) bool) {
	tlb.mu.Lock()
	defer tlb.mu.Unlock()

	filtered := tlb.entries[:0]
	for _, entry := range tlb.entries {
		if !match(entry) {
			filtered = append(filtered, entry)
		}
	}
	tlb.entries = filtered
}

func (tlb *TLB) Size() int {
	tlb.mu.Lock()
	defer tlb.mu.Unlock()
	return len(tlb.entries)
}

// MMU traduce direcciones virtuales de usuario a frames de la memoria, pasando primero por la TLB.
type MMU struct {
	memory *memoriaServices.Memory
	tlb    *TLB
}

func NewMMU(memory *memoriaServices.Memory, tlb *TLB) *MMU {
	return &MMU{memory: memory, tlb: tlb}
}

func (mmu *MMU) PageSize() int {
	return mmu.memory.PageSize()
}

// Translate devuelve frame y desplazamiento de la dirección, validando que la página sea de usuario
// y tenga el permiso del acceso pedido.
func (mmu *MMU) Translate(pid uint, address uint64, access models.Access) (int, int, error) {
	pageSize := uint64(mmu.memory.PageSize())
	if address/pageSize >= uint64(mmu.memory.MaxPages()) {
		return -1, 0, fmt.Errorf("%w: PID %d - dirección 0x%x fuera del espacio de direcciones", models.ErrPageFault, pid, address)
	}
	pageNumber := int(address / pageSize)
	offset := int(address % pageSize)

	var frame int
	var flags memoriaModels.PTEFlags
	if entry, ok := mmu.tlb.Search(pid, pageNumber); ok {
		slog.Debug(fmt.Sprintf("PID: %d - TLB HIT - Pagina: %d", pid, pageNumber))
		frame, flags = entry.FrameNumber, entry.Flags
	} else {
		if mmu.tlb.Enabled() {
			slog.Debug(fmt.Sprintf("PID: %d - TLB MISS - Página: %d", pid, pageNumber))
		}
		entry, err := mmu.memory.Lookup(pid, pageNumber)
		if err != nil {
			return -1, 0, fmt.Errorf("%w: PID %d - dirección 0x%x: %v", models.ErrPageFault, pid, address, err)
		}
		frame, flags = entry.Frame, entry.Flags
		mmu.tlb.Insert(pid, pageNumber, frame, flags)
	}

	required := memoriaModels.PTEValid | memoriaModels.PTEUser | memoriaModels.PTERead
	if access == models.AccessWrite {
		required = memoriaModels.PTEValid | memoriaModels.PTEUser | memoriaModels.PTEWrite
	}
	if !flags.Has(required) {
		return -1, 0, fmt.Errorf("%w: PID %d - %s en 0x%x sin permiso (%s)", models.ErrPageFault, pid, access, address, flags)
	}

	mmu.memory.MarkAccessed(pid, pageNumber, access == models.AccessWrite)
	return frame, offset, nil
}

type frameChunk struct {
	frame  int
	offset int
	size   int
}

// chunks parte [address, address+size) en tramos que no cruzan un borde de página y traduce cada uno por
// separado, ya que páginas contiguas en la memoria virtual pueden estar en frames no contiguos.
func (mmu *MMU) chunks(pid uint, address uint64, size int, access models.Access) ([]frameChunk, error) {
	if address+uint64(size) < address {
		return nil, fmt.Errorf("%w: PID %d - rango desborda el espacio de direcciones", models.ErrPageFault, pid)
	}
	pageSize := uint64(mmu.memory.PageSize())

	chunks := make([]frameChunk, 0, 2)
	for remaining := uint64(size); remaining > 0; {
		frame, offset, err := mmu.Translate(pid, address, access)
		if err != nil {
			return nil, err
		}
		length := min(pageSize-uint64(offset), remaining)
		chunks = append(chunks, frameChunk{frame: frame, offset: offset, size: int(length)})
		address += length
		remaining -= length
	}
	return chunks, nil
}

// WriteUser copia data a la memoria del proceso a partir de address. Se traducen todas las páginas
// antes de escribir, así un fallo no deja el valor escrito a medias.
func (mmu *MMU) WriteUser(pid uint, address uint64, data []byte) error {
	chunks, err := mmu.chunks(pid, address, len(data), models.AccessWrite)
	if err != nil {
		return err
	}

	written := 0
	for _, chunk := range chunks {
		if err := mmu.memory.WriteFrame(chunk.frame, chunk.offset, data[written:written+chunk.size]); err != nil {
			return err
		}
		written += chunk.size
	}
	return nil
}

func (mmu *MMU) ReadUser(pid uint, address uint64, size int) ([]byte, error) {
	chunks, err := mmu.chunks(pid, address, size, models.AccessRead)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, size)
	for _, chunk := range chunks {
		part, err := mmu.memory.ReadFrame(chunk.frame, chunk.offset, chunk.size)
		if err != nil {
			return nil, err
		}
		data = append(data, part...)
	}
	return data, nil
}

// InvalidateRange descarta las traducciones cacheadas de un rango de páginas.
func (mmu *MMU) InvalidateRange(pid uint, firstPage int, count int) {
	mmu.tlb.RemoveRange(pid, firstPage, count)
}

func (mmu *MMU) InvalidateProcess(pid uint) {
	mmu.tlb.RemoveByPID(pid)
}
