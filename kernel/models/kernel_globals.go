package models

import (
	"errors"

	memoriaModels "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
)

type Config struct {
	PortKernel     int                  `json:"port_kernel"`
	LogLevel       string               `json:"log_level"`
	Memory         memoriaModels.Config `json:"memory"`
	TlbEntries     int                  `json:"tlb_entries"`
	TlbReplacement string               `json:"tlb_replacement"`
	ImageBase      uint64               `json:"image_base"`
	StackSize      int                  `json:"stack_size"`
	HeapLimit      int                  `json:"heap_limit"`
	BootTasks      []SpawnRequest       `json:"boot_tasks"`
}

var KernelConfig *Config

func DefaultConfig() Config {
	return Config{
		PortKernel:     8001,
		LogLevel:       "INFO",
		Memory:         memoriaModels.DefaultConfig(),
		TlbEntries:     16,
		TlbReplacement: "LRU",
		ImageBase:      0x10000,
		StackSize:      8192,
		HeapLimit:      64 * 4096,
	}
}

// DEFINICION DE ERRORES
var (
	ErrNoRunningTask  = errors.New("no hay tarea en ejecución")
	ErrNotRunningTask = errors.New("la tarea no es la que está en ejecución")
	ErrUnknownTask    = errors.New("tarea inexistente")
	ErrInvalidLayout  = errors.New("disposición de memoria inválida")
)
