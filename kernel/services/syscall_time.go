package services

import (
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
)

const microsPerSecond = 1_000_000

func (k *Kernel) sysGetTime(pid uint, out uint64) (int64, error) {
	us := k.clock.NowMicros()
	timeVal := models.TimeVal{
		Sec:  us / microsPerSecond,
		Usec: us % microsPerSecond,
	}

	data, err := timeVal.MarshalBinary()
	if err != nil {
		return -1, err
	}
	if err := k.mmu.WriteUser(pid, out, data); err != nil {
		return -1, err
	}
	return 0, nil
}

func (k *Kernel) sysTaskInfo(pid uint, out uint64) (int64, error) {
	status, err := k.tasks.GetStatus(pid)
	if err != nil {
		return -1, err
	}
	histogram, err := k.tasks.GetSyscallHistogram(pid)
	if err != nil {
		return -1, err
	}
	runningMs, err := k.tasks.GetRunningTime(pid)
	if err != nil {
		return -1, err
	}

	info := models.TaskInfo{
		Status:       status,
		SyscallTimes: histogram,
		Time:         runningMs,
	}
	data, err := info.MarshalBinary()
	if err != nil {
		return -1, err
	}
	if err := k.mmu.WriteUser(pid, out, data); err != nil {
		return -1, err
	}
	return 0, nil
}
