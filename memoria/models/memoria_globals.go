package models

import "errors"

type Config struct {
	MemorySize     int `json:"memory_size"`
	PageSize       int `json:"page_size"`
	EntriesPerPage int `json:"entries_per_page"`
	NumberOfLevels int `json:"number_of_levels"`
}

// DefaultConfig es una memoria de 4 MiB con páginas de 4 KiB y una tabla de 3 niveles de 512 entradas.
func DefaultConfig() Config {
	return Config{
		MemorySize:     4 << 20,
		PageSize:       4096,
		EntriesPerPage: 512,
		NumberOfLevels: 3,
	}
}

// DEFINICION DE ERRORES
var (
	ErrNoFreeFrames      = errors.New("no hay frames libres")
	ErrInvalidFrame      = errors.New("frame inválido")
	ErrFrameAlreadyFree  = errors.New("el frame ya estaba libre")
	ErrPageAlreadyMapped = errors.New("página ya mapeada")
	ErrPageNotMapped     = errors.New("página no mapeada")
	ErrPageOutOfRange    = errors.New("número de página fuera del espacio de direcciones")
	ErrNoAddressSpace    = errors.New("tabla de páginas no inicializada")
	ErrAddressSpaceInUse = errors.New("ya existe una tabla de páginas para el proceso")
)
