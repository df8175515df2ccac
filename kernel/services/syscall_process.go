package services

import (
	"fmt"
)

func (k *Kernel) sysExit(pid uint, exitCode int32) {
	k.tasks.ExitCurrentAndRunNext(exitCode)

	if current, running := k.tasks.CurrentTaskID(); running && current == pid {
		panic(fmt.Sprintf("## (%d) el planificador volvió a una tarea finalizada", pid))
	}
}

func (k *Kernel) sysYield(pid uint) int64 {
	k.tasks.SuspendCurrentAndRunNext()
	return 0
}
