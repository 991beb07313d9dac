package common

import "time"

// Clock отдаёт текущее время. В тестах подменяется FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock реализует Clock через системные часы.
type SystemClock struct{}

// Now возвращает текущее время в UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock всегда возвращает одно и то же время.
type FixedClock struct {
	T time.Time
}

// Now возвращает зафиксированное время.
func (c FixedClock) Now() time.Time {
	return c.T
}
