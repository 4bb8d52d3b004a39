package controllers

import (
	"fmt"
	"net/http"
	"studymate/internal/services"
	"studymate/internal/storage"
	"time"
)

type HealthController struct {
	sessions   services.SessionServiceInterface
	kv         storage.KVStore
	quotaBytes int64
	startTime  time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Sessions      int     `json:"sessions"`
	StorageBytes  int64   `json:"storage_bytes"`
	StorageQuota  int64   `json:"storage_quota,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Sessions:      len(hc.sessions.ListSessions()),
		StorageBytes:  hc.kv.Usage(),
		StorageQuota:  hc.quotaBytes,
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(sessions services.SessionServiceInterface, kv storage.KVStore, quotaBytes int64) *HealthController {
	return &HealthController{
		sessions:   sessions,
		kv:         kv,
		quotaBytes: quotaBytes,
		startTime:  time.Now(),
	}
}
