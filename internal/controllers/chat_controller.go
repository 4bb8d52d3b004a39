package controllers

import (
	"fmt"
	"net/http"
	"studymate/internal/providers"
	"studymate/internal/services"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	FrameMessage = "message"
	FrameImage   = "image"
	FrameChunk   = "chunk"
	FrameFlagged = "flagged"
	FrameEnd     = "end"
	FrameError   = "error"

	chatReadLimit = maxRequestBodySize
	pongWait      = 60 * time.Second
	pingPeriod    = pongWait * 9 / 10
	writeWait     = 10 * time.Second
)

// Frame is both what the client sends and what the server answers with.
// A client "message" carries the question in Content and an optional data
// URI in Image; an "image" frame asks for a generated picture of Content.
type Frame struct {
	Type       string              `json:"type"`
	SessionID  string              `json:"sessionId,omitempty"`
	Content    string              `json:"content,omitempty"`
	Image      string              `json:"image,omitempty"`
	Text       string              `json:"text,omitempty"`
	Reason     string              `json:"reason,omitempty"`
	SaveStatus services.SaveStatus `json:"saveStatus,omitempty"`
	Remaining  *int                `json:"remaining,omitempty"`
	Status     int                 `json:"status,omitempty"`
}

// ChatController streams replies for one session over a websocket.
type ChatController struct {
	logger   providers.Logger
	sessions services.SessionServiceInterface
	tutor    services.TutorServiceInterface
	upgrader websocket.Upgrader

	// pingPeriod must stay below pongWait so a quiet client is not dropped.
	pingPeriod time.Duration
	pongWait   time.Duration
}

func NewChatController(logger providers.Logger, sessions services.SessionServiceInterface, tutor services.TutorServiceInterface) *ChatController {
	return &ChatController{
		logger:   logger,
		sessions: sessions,
		tutor:    tutor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
	}
}

func (cc *ChatController) Stream(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, cc.logger, r, fmt.Errorf("%w: sessionId is required", errBadRequest))
		return
	}
	if _, err := cc.sessions.LoadSession(sessionID); err != nil {
		writeError(w, cc.logger, r, err)
		return
	}

	conn, err := cc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cc.logger.Warnf(providers.TypeChat, "Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// The server write timeout covers the upgrade only; a stream lives longer.
	_ = conn.SetWriteDeadline(time.Time{})
	conn.SetReadLimit(chatReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(cc.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cc.pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go cc.keepAlive(conn, sessionID, done)

	cc.logger.Debugf(providers.TypeChat, "Chat stream opened for session %s", sessionID)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cc.logger.Warnf(providers.TypeChat, "Chat stream for %s closed: %v", sessionID, err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(cc.pongWait))

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			if !cc.send(conn, Frame{Type: FrameError, Content: "malformed frame", Status: http.StatusBadRequest}) {
				return
			}
			continue
		}

		var ok bool
		switch frame.Type {
		case FrameMessage:
			ok = cc.handleMessage(r, conn, sessionID, frame)
		case FrameImage:
			ok = cc.handleImage(r, conn, sessionID, frame)
		default:
			ok = cc.send(conn, Frame{Type: FrameError, Content: "unknown frame type " + frame.Type, Status: http.StatusBadRequest})
		}
		if !ok {
			return
		}
	}
}

// keepAlive pings the client until done is closed. WriteControl may run
// alongside the frame writes of the read loop.
func (cc *ChatController) keepAlive(conn *websocket.Conn, sessionID string, done <-chan struct{}) {
	ticker := time.NewTicker(cc.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				cc.logger.Debugf(providers.TypeChat, "Ping to session %s failed: %v", sessionID, err)
				return
			}
		}
	}
}

func (cc *ChatController) handleMessage(r *http.Request, conn *websocket.Conn, sessionID string, frame Frame) bool {
	alive := true
	flagged := false
	turn, err := cc.tutor.SendMessage(r.Context(), sessionID, frame.Content, frame.Image, func(u services.StreamUpdate) {
		if !alive {
			return
		}
		if u.Flagged && !flagged {
			flagged = true
			alive = cc.send(conn, Frame{Type: FrameFlagged, SessionID: sessionID, Reason: u.Reason})
			if !alive {
				return
			}
		}
		alive = cc.send(conn, Frame{Type: FrameChunk, SessionID: sessionID, Content: u.Chunk, Text: u.Text})
	})
	if err != nil {
		return alive && cc.sendError(conn, sessionID, err)
	}
	if !alive {
		return false
	}
	return cc.send(conn, Frame{
		Type:       FrameEnd,
		SessionID:  sessionID,
		Text:       turn.Reply.Text,
		Reason:     turn.Reason,
		SaveStatus: turn.Status,
	})
}

func (cc *ChatController) handleImage(r *http.Request, conn *websocket.Conn, sessionID string, frame Frame) bool {
	turn, err := cc.tutor.GenerateImage(r.Context(), sessionID, frame.Content, false)
	if err != nil {
		return cc.sendError(conn, sessionID, err)
	}
	remaining := turn.Remaining
	return cc.send(conn, Frame{
		Type:       FrameEnd,
		SessionID:  sessionID,
		Text:       turn.Reply.Text,
		Image:      turn.Reply.ImageURL,
		SaveStatus: turn.Status,
		Remaining:  &remaining,
	})
}

func (cc *ChatController) sendError(conn *websocket.Conn, sessionID string, err error) bool {
	status := statusOf(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		cc.logger.Errorf(providers.TypeChat, "Chat stream %s: %v", sessionID, err)
		if status == http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
	}
	return cc.send(conn, Frame{Type: FrameError, SessionID: sessionID, Content: msg, Status: status})
}

func (cc *ChatController) send(conn *websocket.Conn, frame Frame) bool {
	data, err := json.Marshal(frame)
	if err != nil {
		cc.logger.Errorf(providers.TypeChat, "Encode frame: %v", err)
		return false
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		cc.logger.Debugf(providers.TypeChat, "Write frame: %v", err)
		return false
	}
	return true
}
