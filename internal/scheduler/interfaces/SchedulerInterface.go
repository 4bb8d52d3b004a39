package interfaces

import "time"

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

// PersisterInterface is the state the scheduler restores at startup and
// persists at shutdown.
type PersisterInterface interface {
	Restore() error
	Persist() error
}

// TaskInterface is a job run on a fixed interval and once at startup.
type TaskInterface interface {
	Name() string
	Interval() time.Duration
	Enabled() bool
	Run()
}
