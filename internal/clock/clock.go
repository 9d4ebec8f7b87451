package clock

import "time"

// Clock supplies the current time. The lease engine never calls
// time.Now directly so that expiry boundaries are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewSystem returns a Clock backed by the system time in UTC.
func NewSystem() Clock {
	return systemClock{}
}
