package services

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
)

// sysMmap mapea length bytes (redondeados a páginas) a partir de start con los permisos port.
// El start debe estar alineado a página y el rango no puede pisar otra región, páginas ya mapeadas
// ni la ventana reservada para el heap.
func (k *Kernel) sysMmap(pid uint, start uint64, length uint64, port uint64) int64 {
	if length == 0 {
		return 0
	}
	perm := models.Permission(port)
	if !perm.Valid() {
		slog.Debug("mmap con permisos inválidos", "pid", pid, "port", port)
		return -1
	}

	pageSize := k.memory.PageSize()
	addressSpaceEnd := pageAddress(k.memory.MaxPages(), pageSize)
	if start%uint64(pageSize) != 0 || start >= addressSpaceEnd || length > addressSpaceEnd-start {
		slog.Debug("mmap con rango inválido", "pid", pid, "start", start, "len", length)
		return -1
	}
	pageCount := pagesFor(length, pageSize)
	end := start + pageAddress(pageCount, pageSize)
	if end > addressSpaceEnd {
		return -1
	}

	space, err := k.tasks.Space(pid)
	if err != nil {
		return -1
	}
	heapEnd := pageAddress(pagesFor(space.HeapTop(), pageSize), pageSize)
	if start < heapEnd && space.HeapBottom < end {
		slog.Debug("mmap pisa la ventana del heap", "pid", pid, "start", start, "end", end)
		return -1
	}
	if _, overlaps := space.Mappings.Find(func(mapping models.MemoryMapping) bool {
		return mapping.Overlaps(start, end, pageSize)
	}); overlaps {
		slog.Debug("mmap se superpone con una región existente", "pid", pid, "start", start, "end", end)
		return -1
	}
	first := int(start / uint64(pageSize))
	for page := first; page < first+pageCount; page++ {
		if k.memory.IsMapped(pid, page) {
			slog.Debug("mmap pisa una página ya mapeada", "pid", pid, "page", page)
			return -1
		}
	}

	if err := mapPages(k.memory, pid, first, pageCount, perm.PTEFlags()); err != nil {
		slog.Warn(fmt.Sprintf("## (%d) - mmap no pudo instalar %d páginas", pid, pageCount), "err", err)
		return -1
	}
	mapping := models.MemoryMapping{Base: start, PageCount: pageCount, Permissions: perm}
	if err := k.tasks.RecordMapping(pid, mapping); err != nil {
		unmapPages(k.memory, pid, first, pageCount)
		return -1
	}

	slog.Info(fmt.Sprintf("## (%d) - MMAP 0x%x - Páginas: %d - Permisos: %d", pid, start, pageCount, perm))
	return 0
}

// sysMunmap sólo acepta la región completa: mismo start y misma cantidad de páginas que el mmap original.
func (k *Kernel) sysMunmap(pid uint, start uint64, length uint64) int64 {
	pageSize := k.memory.PageSize()
	if length == 0 || start%uint64(pageSize) != 0 || length > math.MaxUint64-uint64(pageSize) {
		return -1
	}
	pageCount := pagesFor(length, pageSize)

	space, err := k.tasks.Space(pid)
	if err != nil {
		return -1
	}
	mapping, found := space.Mappings.Find(func(mapping models.MemoryMapping) bool {
		return mapping.Base == start
	})
	if !found || mapping.PageCount != pageCount {
		slog.Debug("munmap sin región que coincida exactamente", "pid", pid, "start", start, "pages", pageCount)
		return -1
	}

	first := int(start / uint64(pageSize))
	if err := unmapPages(k.memory, pid, first, pageCount); err != nil {
		panic(fmt.Sprintf("## (%d) región 0x%x inconsistente con la tabla de páginas: %v", pid, start, err))
	}
	k.mmu.InvalidateRange(pid, first, pageCount)
	k.tasks.RemoveMapping(pid, start)

	slog.Info(fmt.Sprintf("## (%d) - MUNMAP 0x%x - Páginas: %d", pid, start, pageCount))
	return 0
}

// sysSbrk mueve el break delta bytes y devuelve el anterior. Las páginas del heap se asignan
// apenas el break las cubre y se liberan apenas deja de cubrirlas.
func (k *Kernel) sysSbrk(pid uint, delta int64) int64 {
	space, err := k.tasks.Space(pid)
	if err != nil {
		return -1
	}
	oldBrk := space.Brk

	var newBrk uint64
	if delta >= 0 {
		newBrk = oldBrk + uint64(delta)
		if newBrk < oldBrk || newBrk > space.HeapTop() {
			return -1
		}
	} else {
		shrink := uint64(-(delta + 1)) + 1
		if shrink > oldBrk-space.HeapBottom {
			return -1
		}
		newBrk = oldBrk - shrink
	}

	pageSize := k.memory.PageSize()
	oldEnd := pagesFor(oldBrk, pageSize)
	newEnd := pagesFor(newBrk, pageSize)
	switch {
	case newEnd > oldEnd:
		if err := mapPages(k.memory, pid, oldEnd, newEnd-oldEnd, (models.PermRead|models.PermWrite).PTEFlags()); err != nil {
			slog.Warn(fmt.Sprintf("## (%d) - sbrk no pudo asignar %d páginas", pid, newEnd-oldEnd), "err", err)
			return -1
		}
	case newEnd < oldEnd:
		if err := unmapPages(k.memory, pid, newEnd, oldEnd-newEnd); err != nil {
			panic(fmt.Sprintf("## (%d) heap inconsistente con la tabla de páginas: %v", pid, err))
		}
		k.mmu.InvalidateRange(pid, newEnd, oldEnd-newEnd)
	}

	space.Brk = newBrk
	slog.Debug("sbrk", "pid", pid, "old_brk", oldBrk, "new_brk", newBrk)
	return int64(oldBrk)
}
