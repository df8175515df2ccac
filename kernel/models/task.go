package models

import (
	"encoding/binary"
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/list"
)

// TaskStatus es el estado de una tarea. Exited es terminal.
type TaskStatus int

const (
	TaskReady TaskStatus = iota + 1
	TaskRunning
	TaskExited
)

func (status TaskStatus) String() string {
	switch status {
	case TaskReady:
		return "READY"
	case TaskRunning:
		return "RUNNING"
	case TaskExited:
		return "EXITED"
	default:
		return fmt.Sprintf("TaskStatus(%d)", int(status))
	}
}

// TimeVal se escribe en memoria de usuario como dos palabras de 64 bits: sec y usec.
type TimeVal struct {
	Sec  uint64
	Usec uint64
}

const TimeValSize = 16

func (tv TimeVal) MarshalBinary() ([]byte, error) {
	buf := make([]byte, TimeValSize)
	binary.LittleEndian.PutUint64(buf[0:], tv.Sec)
	binary.LittleEndian.PutUint64(buf[8:], tv.Usec)
	return buf, nil
}

func (tv *TimeVal) UnmarshalBinary(data []byte) error {
	if len(data) != TimeValSize {
		return fmt.Errorf("TimeVal: se esperaban %d bytes, llegaron %d", TimeValSize, len(data))
	}
	tv.Sec = binary.LittleEndian.Uint64(data[0:])
	tv.Usec = binary.LittleEndian.Uint64(data[8:])
	return nil
}

// TaskInfo se escribe como: estado (u64), histograma de syscalls (u32 x MaxSyscallNum) y tiempo en ms (u64).
type TaskInfo struct {
	Status       TaskStatus
	SyscallTimes [MaxSyscallNum]uint32
	Time         uint64
}

const TaskInfoSize = 8 + 4*MaxSyscallNum + 8

func (info TaskInfo) MarshalBinary() ([]byte, error) {
	buf := make([]byte, TaskInfoSize)
	binary.LittleEndian.PutUint64(buf[0:], uint64(info.Status))
	for i, count := range info.SyscallTimes {
		binary.LittleEndian.PutUint32(buf[8+4*i:], count)
	}
	binary.LittleEndian.PutUint64(buf[8+4*MaxSyscallNum:], info.Time)
	return buf, nil
}

func (info *TaskInfo) UnmarshalBinary(data []byte) error {
	if len(data) != TaskInfoSize {
		return fmt.Errorf("TaskInfo: se esperaban %d bytes, llegaron %d", TaskInfoSize, len(data))
	}
	info.Status = TaskStatus(binary.LittleEndian.Uint64(data[0:]))
	for i := range info.SyscallTimes {
		info.SyscallTimes[i] = binary.LittleEndian.Uint32(data[8+4*i:])
	}
	info.Time = binary.LittleEndian.Uint64(data[8+4*MaxSyscallNum:])
	return nil
}

// TaskControlBlock es el registro de una tarea dentro del directorio de tareas.
type TaskControlBlock struct {
	PID          uint
	Name         string
	Status       TaskStatus
	ExitCode     int32
	SyscallTimes [MaxSyscallNum]uint32
	Started      bool
	FirstRunUs   uint64
	ExitedUs     uint64
	Space        *AddressSpace
}

// AddressSpace describe la disposición de memoria virtual de una tarea.
//
//	ImageBase ... ImageEnd | guarda | StackBottom ... StackTop = HeapBottom ... Brk ... HeapBottom+HeapLimit
type AddressSpace struct {
	ImageBase   uint64
	ImageEnd    uint64
	StackBottom uint64
	StackTop    uint64
	HeapBottom  uint64
	HeapLimit   uint64
	Brk         uint64
	Mappings    *list.ArrayList[MemoryMapping]
}

// HeapTop es el límite superior reservado para el break.
func (space *AddressSpace) HeapTop() uint64 {
	return space.HeapBottom + space.HeapLimit
}

type TaskSnapshot struct {
	PID       uint            `json:"pid"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	ExitCode  int32           `json:"exit_code"`
	Brk       uint64          `json:"brk"`
	Mappings  []MemoryMapping `json:"mappings"`
	Syscalls  map[string]int  `json:"syscalls"`
	RunningMs uint64          `json:"running_ms"`
}
