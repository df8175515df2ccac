package models

import (
	memoriaModels "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
)

// Permission son los bits "port" que recibe mmap.
type Permission uint64

const (
	PermRead    Permission = 1
	PermWrite   Permission = 2
	PermExecute Permission = 4

	PermMask = PermRead | PermWrite | PermExecute
)

// Valid indica que hay al menos un bit y ninguno fuera de R/W/X.
func (perm Permission) Valid() bool {
	return perm&^PermMask == 0 && perm&PermMask != 0
}

// PTEFlags traduce los bits de mmap a los de la tabla de páginas. Toda página mapeada por mmap es de usuario.
func (perm Permission) PTEFlags() memoriaModels.PTEFlags {
	flags := memoriaModels.PTEUser
	if perm&PermRead != 0 {
		flags |= memoriaModels.PTERead
	}
	if perm&PermWrite != 0 {
		flags |= memoriaModels.PTEWrite
	}
	if perm&PermExecute != 0 {
		flags |= memoriaModels.PTEExecute
	}
	return flags
}

// MemoryMapping es una región creada por mmap.
type MemoryMapping struct {
	Base        uint64     `json:"base"`
	PageCount   int        `json:"page_count"`
	Permissions Permission `json:"permissions"`
}

func (mapping MemoryMapping) End(pageSize int) uint64 {
	return mapping.Base + uint64(mapping.PageCount)*uint64(pageSize)
}

// Overlaps indica si la región se superpone con [start, end).
func (mapping MemoryMapping) Overlaps(start uint64, end uint64, pageSize int) bool {
	return start < mapping.End(pageSize) && mapping.Base < end
}
