package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations so tests can substitute them.
// Every soft timeout and inter-attempt pause in the system goes through it.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
