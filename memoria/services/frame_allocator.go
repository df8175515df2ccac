package services

import (
	"fmt"
	"log/slog"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
)

// FrameAllocator lleva el registro de frames libres de la memoria de usuario.
// Los frames liberados se reutilizan antes de avanzar sobre frames nunca usados.
type FrameAllocator struct {
	free     []bool
	recycled []int
	next     int
	inUse    int
}

func NewFrameAllocator(totalFrames int) *FrameAllocator {
	free := make([]bool, totalFrames)
	for i := range free {
		free[i] = true
	}
	return &FrameAllocator{free: free}
}

func (allocator *FrameAllocator) AllocateFrame() (int, error) {
	if n := len(allocator.recycled); n > 0 {
		frame := allocator.recycled[n-1]
		allocator.recycled = allocator.recycled[:n-1]
		allocator.take(frame)
		return frame, nil
	}

	for allocator.next < len(allocator.free) {
		frame := allocator.next
		allocator.next++
		if allocator.free[frame] {
			allocator.take(frame)
			return frame, nil
		}
	}

	slog.Error("No hay frames libres disponibles para asignar")
	return -1, models.ErrNoFreeFrames
}

func (allocator *FrameAllocator) take(frame int) {
	allocator.free[frame] = false
	allocator.inUse++
}

func (allocator *FrameAllocator) ReleaseFrame(frame int) error {
	if frame < 0 || frame >= len(allocator.free) {
		return fmt.Errorf("%w: %d", models.ErrInvalidFrame, frame)
	}
	if allocator.free[frame] {
		return fmt.Errorf("%w: %d", models.ErrFrameAlreadyFree, frame)
	}
	allocator.free[frame] = true
	allocator.inUse--
	allocator.recycled = append(allocator.recycled, frame)
	return nil
}

func (allocator *FrameAllocator) FreeCount() int {
	return len(allocator.free) - allocator.inUse
}

func (allocator *FrameAllocator) TotalFrames() int {
	return len(allocator.free)
}
