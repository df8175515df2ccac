package models

import (
	"errors"

	memoriaModels "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
)

type Config struct {
	IpKernel   string `json:"ip_kernel"`
	PortKernel int    `json:"port_kernel"`
	RetryDelay int    `json:"retry_delay"`
	MaxRetries int    `json:"max_retries"`
	LogLevel   string `json:"log_level"`
}

var CpuConfig *Config

type TLBEntry struct {
	PID         uint
	PageNumber  int
	FrameNumber int
	Flags       memoriaModels.PTEFlags
	LastUsed    int64 //contador para LRU
}

// Algoritmos de reemplazo de la TLB
const (
	TLBFifo = "FIFO"
	TLBLru  = "LRU"
)

// Access es el tipo de acceso que se valida contra los permisos de la página.
type Access int

const (
	AccessRead Access = iota
	AccessWrite
)

func (access Access) String() string {
	switch access {
	case AccessRead:
		return "READ"
	case AccessWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Instruction es una línea del script de un programa de usuario ya traducida a syscall.
type Instruction struct {
	Name      string
	SyscallID int
	Args      [3]uint64
}

// DEFINICION DE ERRORES
var (
	ErrPageFault          = errors.New("page fault")
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrTaskNotRunning     = errors.New("la tarea no está en ejecución")
)
