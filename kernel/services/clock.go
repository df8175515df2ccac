package services

import "time"

// Clock es el reloj monotónico del kernel, en microsegundos desde el arranque.
type Clock interface {
	NowMicros() uint64
}

type MonotonicClock struct {
	boot time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{boot: time.Now()}
}

func (clock *MonotonicClock) NowMicros() uint64 {
	return uint64(time.Since(clock.boot).Microseconds())
}
