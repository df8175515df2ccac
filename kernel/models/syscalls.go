package models

// Números de syscall, los mismos que usa la biblioteca de usuario.
const (
	SyscallExit     = 93
	SyscallYield    = 124
	SyscallGetTime  = 169
	SyscallSbrk     = 214
	SyscallMunmap   = 215
	SyscallMmap     = 222
	SyscallTaskInfo = 410
)

// MaxSyscallNum es el tamaño del histograma de syscalls de cada tarea.
const MaxSyscallNum = 500

var syscallNames = map[int]string{
	SyscallExit:     "EXIT",
	SyscallYield:    "YIELD",
	SyscallGetTime:  "GET_TIME",
	SyscallSbrk:     "SBRK",
	SyscallMunmap:   "MUNMAP",
	SyscallMmap:     "MMAP",
	SyscallTaskInfo: "TASK_INFO",
}

// SyscallName devuelve el nombre de la syscall o "UNKNOWN".
func SyscallName(id int) string {
	if name, ok := syscallNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}

// SyscallByName es la inversa de SyscallName.
func SyscallByName(name string) (int, bool) {
	for id, syscallName := range syscallNames {
		if syscallName == name {
			return id, true
		}
	}
	return 0, false
}

type SyscallRequest struct {
	PID  uint      `json:"pid"`
	ID   int       `json:"id"`
	Args [3]uint64 `json:"args"`
}

type SyscallResponse struct {
	Result int64 `json:"result"`
}

type SpawnRequest struct {
	Name      string `json:"name"`
	ImageSize int    `json:"image_size"`
}

type SpawnResponse struct {
	PID uint `json:"pid"`
}
