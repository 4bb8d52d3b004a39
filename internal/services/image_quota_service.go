package services

import (
	"studymate/internal/providers"
	"studymate/internal/structures"
)

type ImageQuotaServiceInterface interface {
	CheckAllowed() bool
	Remaining() int
	Limit() int
	RecordGeneration(paid bool)
}

// ImageQuotaService is a soft daily allowance of free image generations.
// Paid generations bypass it and are never counted.
type ImageQuotaService struct {
	stats   StatsServiceInterface
	metrics providers.MetricsProviderInterface
	limit   int
}

func NewImageQuotaService(conf *structures.Config, stats StatsServiceInterface, metrics providers.MetricsProviderInterface) ImageQuotaServiceInterface {
	return &ImageQuotaService{stats: stats, metrics: metrics, limit: conf.Quota.DailyImageLimit}
}

func (iq *ImageQuotaService) CheckAllowed() bool {
	return iq.stats.GetStats().ImageGenCount < iq.limit
}

func (iq *ImageQuotaService) Remaining() int {
	return max(iq.limit-iq.stats.GetStats().ImageGenCount, 0)
}

func (iq *ImageQuotaService) Limit() int {
	return iq.limit
}

func (iq *ImageQuotaService) RecordGeneration(paid bool) {
	iq.metrics.IncImageGenerations(paid)
	if paid {
		return
	}
	iq.stats.RecordImageGeneration()
}
