package controllers

import (
	"net/http"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/services"
)

// ApiController serves the progress records: stats, the activity log,
// the image allowance, the parent dashboard and the premium checkout.
type ApiController struct {
	logger   providers.Logger
	stats    services.StatsServiceInterface
	activity services.ActivityServiceInterface
	quota    services.ImageQuotaServiceInterface
	parent   services.ParentServiceInterface
	checkout services.CheckoutServiceInterface
}

func NewApiController(
	logger providers.Logger,
	stats services.StatsServiceInterface,
	activity services.ActivityServiceInterface,
	quota services.ImageQuotaServiceInterface,
	parent services.ParentServiceInterface,
	checkout services.CheckoutServiceInterface,
) *ApiController {
	return &ApiController{
		logger:   logger,
		stats:    stats,
		activity: activity,
		quota:    quota,
		parent:   parent,
		checkout: checkout,
	}
}

type quotaResponse struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Allowed   bool `json:"allowed"`
}

type pinRequest struct {
	PIN string `json:"pin"`
}

type premiumResponse struct {
	Receipt services.Receipt `json:"receipt"`
	Stats   models.UserStats `json:"stats"`
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.stats.GetStats())
}

func (ac *ApiController) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.stats.UpdateStreak())
}

func (ac *ApiController) UnlockPremium(w http.ResponseWriter, r *http.Request) {
	var form services.PaymentForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, ac.logger, r, err)
		return
	}
	receipt, err := ac.checkout.UnlockPremium(form)
	if err != nil {
		writeError(w, ac.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, premiumResponse{Receipt: receipt, Stats: ac.stats.GetStats()})
}

func (ac *ApiController) GetLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.activity.List())
}

func (ac *ApiController) GetImageQuota(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, quotaResponse{
		Used:      ac.stats.GetStats().ImageGenCount,
		Limit:     ac.quota.Limit(),
		Remaining: ac.quota.Remaining(),
		Allowed:   ac.quota.CheckAllowed(),
	})
}

func (ac *ApiController) ParentOverview(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, ac.logger, r, err)
		return
	}
	overview, err := ac.parent.Overview(req.PIN)
	if err != nil {
		writeError(w, ac.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
