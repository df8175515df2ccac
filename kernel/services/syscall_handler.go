package services

import (
	"fmt"
	"log/slog"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
)

// exitCodePageFault es el código con el que se finaliza una tarea que pasó una dirección inválida.
const exitCodePageFault = -2

// Dispatch ejecuta la syscall id pedida por la tarea pid con sus argumentos crudos.
// Toda falla recuperable se informa como -1; el error sólo se usa cuando el pedido
// no puede llegar a ningún handler (CPU ociosa o tarea que no está en ejecución).
func (k *Kernel) Dispatch(pid uint, id int, args [3]uint64) (int64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	current, running := k.tasks.CurrentTaskID()
	if !running {
		return -1, models.ErrNoRunningTask
	}
	if current != pid {
		return -1, fmt.Errorf("%w: PID %d (en ejecución: %d)", models.ErrNotRunningTask, pid, current)
	}

	// Volver a ejecutar código de una tarea finalizada es irrecuperable.
	switch status, _ := k.tasks.GetStatus(pid); status {
	case models.TaskRunning:
	case models.TaskReady, models.TaskExited:
		panic(fmt.Sprintf("## (%d) syscall %s desde una tarea en estado %s", pid, models.SyscallName(id), status))
	}

	k.tasks.RecordSyscall(pid, id)
	slog.Info(fmt.Sprintf("## (%d) - Solicitó syscall: %s", pid, models.SyscallName(id)))
	slog.Debug("Argumentos de syscall", "pid", pid, "id", id, "args", args)

	var result int64
	var err error
	switch id {
	case models.SyscallExit:
		k.sysExit(pid, int32(args[0]))
		return 0, nil
	case models.SyscallYield:
		return k.sysYield(pid), nil
	case models.SyscallGetTime:
		result, err = k.sysGetTime(pid, args[0])
	case models.SyscallTaskInfo:
		result, err = k.sysTaskInfo(pid, args[0])
	case models.SyscallMmap:
		return k.sysMmap(pid, args[0], args[1], args[2]), nil
	case models.SyscallMunmap:
		return k.sysMunmap(pid, args[0], args[1]), nil
	case models.SyscallSbrk:
		return k.sysSbrk(pid, int64(args[0])), nil
	default:
		slog.Warn(fmt.Sprintf("## (%d) - Syscall desconocida: %d", pid, id))
		return -1, nil
	}

	if err != nil {
		// La dirección de destino no es válida para la tarea: se la finaliza como lo haría el manejador de traps.
		slog.Error(fmt.Sprintf("## (%d) - Fallo de página en syscall %s, se finaliza la tarea", pid, models.SyscallName(id)), "err", err)
		k.tasks.ExitCurrentAndRunNext(exitCodePageFault)
		return -1, nil
	}
	return result, nil
}
