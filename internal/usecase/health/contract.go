package health

import "context"

// Pinger checks the availability of one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check is a named dependency check.
type Check struct {
	Name   string
	Pinger Pinger
}
