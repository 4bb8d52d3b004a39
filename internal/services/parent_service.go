package services

import (
	"crypto/subtle"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/structures"
)

type ParentOverview struct {
	Stats    models.UserStats     `json:"stats"`
	Activity []models.ActivityLog `json:"activity"`
	Alerts   int                  `json:"alerts"`
}

type ParentServiceInterface interface {
	Overview(pin string) (ParentOverview, error)
}

// ParentService gates the parental review behind the static PIN.
type ParentService struct {
	pin      string
	stats    StatsServiceInterface
	activity ActivityServiceInterface
	logger   providers.Logger
}

func NewParentService(conf *structures.Config, stats StatsServiceInterface, activity ActivityServiceInterface, logger providers.Logger) ParentServiceInterface {
	return &ParentService{pin: conf.Parent.PIN, stats: stats, activity: activity, logger: logger}
}

func (ps *ParentService) Overview(pin string) (ParentOverview, error) {
	if subtle.ConstantTimeCompare([]byte(pin), []byte(ps.pin)) != 1 {
		ps.logger.Warnf(providers.TypeApp, "Parent dashboard: wrong PIN")
		return ParentOverview{}, ErrInvalidPIN
	}

	logs := ps.activity.List()
	alerts := 0
	for _, l := range logs {
		if l.Type == models.ActivityAlert {
			alerts++
		}
	}
	return ParentOverview{Stats: ps.stats.GetStats(), Activity: logs, Alerts: alerts}, nil
}
