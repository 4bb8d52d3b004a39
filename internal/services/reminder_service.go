package services

import (
	"studymate/internal/providers"
	"studymate/internal/scheduler/interfaces"
	"studymate/internal/structures"
	"time"
)

const (
	ReminderTitle = "Time to Study!"
	ReminderBody  = "It's been a while since your last session. Keep your streak alive!"
)

// ReminderService nudges the student when no study day has been recorded
// for longer than the configured threshold.
type ReminderService struct {
	conf     structures.ReminderConfig
	stats    StatsServiceInterface
	notifier providers.NotifierInterface
	logger   providers.Logger
}

func NewReminderService(conf *structures.Config, stats StatsServiceInterface, notifier providers.NotifierInterface, logger providers.Logger) interfaces.TaskInterface {
	return &ReminderService{conf: conf.Reminder, stats: stats, notifier: notifier, logger: logger}
}

func (rs *ReminderService) Name() string {
	return "inactivity-reminder"
}

func (rs *ReminderService) Interval() time.Duration {
	return rs.conf.CheckInterval
}

func (rs *ReminderService) Enabled() bool {
	return rs.conf.Enabled && rs.conf.CheckInterval > 0
}

func (rs *ReminderService) Run() {
	inactive := rs.stats.InactiveFor()
	if inactive <= rs.conf.InactivityThreshold {
		return
	}
	rs.logger.Infof(providers.TypeApp, "No study activity for %s, sending reminder", inactive.Round(time.Minute))
	rs.notifier.Notify(ReminderTitle, ReminderBody)
}
