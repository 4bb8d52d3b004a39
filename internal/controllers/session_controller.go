package controllers

import (
	"net/http"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/services"
)

type SessionController struct {
	logger   providers.Logger
	sessions services.SessionServiceInterface
	tutor    services.TutorServiceInterface
	checkout services.CheckoutServiceInterface
}

func NewSessionController(logger providers.Logger, sessions services.SessionServiceInterface, tutor services.TutorServiceInterface, checkout services.CheckoutServiceInterface) *SessionController {
	return &SessionController{logger: logger, sessions: sessions, tutor: tutor, checkout: checkout}
}

type sessionResponse struct {
	models.ChatSession
	SaveStatus services.SaveStatus `json:"saveStatus"`
	Streaming  bool                `json:"streaming"`
}

type messageRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	Image     string `json:"image"`
}

type imageRequest struct {
	SessionID string                `json:"sessionId"`
	Prompt    string                `json:"prompt"`
	Payment   *services.PaymentForm `json:"payment,omitempty"`
}

func (sc *SessionController) describe(s models.ChatSession) sessionResponse {
	return sessionResponse{
		ChatSession: s,
		SaveStatus:  sc.sessions.SaveStatus(s.ID),
		Streaming:   sc.sessions.IsStreaming(s.ID),
	}
}

func (sc *SessionController) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.sessions.ListSessions())
}

func (sc *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, sc.describe(sc.sessions.CreateSession()))
}

func (sc *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := sc.sessions.LoadSession(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc.describe(s))
}

// DeleteSession answers with the session the UI should switch to.
func (sc *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	next, err := sc.sessions.DeleteSession(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc.describe(next))
}

// SendMessage runs a whole chat turn and answers once the reply is complete.
// The websocket stream is the incremental variant.
func (sc *SessionController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, sc.logger, r, err)
		return
	}
	turn, err := sc.tutor.SendMessage(r.Context(), req.SessionID, req.Text, req.Image, nil)
	if err != nil {
		writeError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

// GenerateImage spends the daily allowance unless the request carries a
// payment, which is charged first.
func (sc *SessionController) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, sc.logger, r, err)
		return
	}
	paid := false
	if req.Payment != nil {
		if _, err := sc.checkout.Charge(*req.Payment); err != nil {
			writeError(w, sc.logger, r, err)
			return
		}
		paid = true
	}
	turn, err := sc.tutor.GenerateImage(r.Context(), req.SessionID, req.Prompt, paid)
	if err != nil {
		writeError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}
