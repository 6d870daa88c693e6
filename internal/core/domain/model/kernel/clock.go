package kernel

import "time"

// Clock supplies the current time to the lifecycle and directory operations.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator supplies identifiers for newly created aggregates.
type IDGenerator interface {
	NewID() UUID
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() UUID

func (f IDGeneratorFunc) NewID() UUID {
	return f()
}

// RandomIDGenerator issues random version 4 UUIDs.
type RandomIDGenerator struct{}

func (RandomIDGenerator) NewID() UUID {
	return NewUUID()
}
