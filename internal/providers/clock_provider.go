package providers

import (
	"studymate/internal/structures"
	"time"
)

// Clock is the single source of wall-clock time for date arithmetic.
type Clock interface {
	Now() time.Time
}

type ClockProvider struct {
	loc *time.Location
}

func (c *ClockProvider) Now() time.Time {
	return time.Now().In(c.loc)
}

func NewClockProvider(conf *structures.Config) (Clock, error) {
	if conf.Timezone == "" {
		return &ClockProvider{loc: time.Local}, nil
	}
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return nil, err
	}
	return &ClockProvider{loc: loc}, nil
}
