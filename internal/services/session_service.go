package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/scheduler"
	"studymate/internal/storage"
	"studymate/internal/structures"
	"sync"

	"github.com/google/uuid"
)

var ErrMessageNotFound = errors.New("message not found")

type SaveStatus string

const (
	SaveIdle   SaveStatus = "idle"
	SaveSaving SaveStatus = "saving"
	SaveSaved  SaveStatus = "saved"
	SaveError  SaveStatus = "error"
)

type SaveResult struct {
	OK             bool     `json:"ok"`
	Evicted        []string `json:"evicted,omitempty"`
	ImagesStripped bool     `json:"imagesStripped,omitempty"`
	Err            error    `json:"-"`
}

type SessionServiceInterface interface {
	Restore() error
	Persist() error
	ListSessions() []models.ChatSession
	CreateSession() models.ChatSession
	LoadSession(id string) (models.ChatSession, error)
	DeleteSession(id string) (models.ChatSession, error)
	AppendMessage(id string, msg models.ChatMessage) (models.ChatMessage, error)
	UpdateMessage(id, msgID, text string, typing bool) error
	SetStreaming(id string, streaming bool) error
	TryStartStreaming(id string) error
	IsStreaming(id string) bool
	Save(session models.ChatSession) SaveResult
	SaveStatus(id string) SaveStatus
	Flush()
}

// SessionService owns the working list of chat sessions. Changes are
// written through a per-session debouncer: slowly while a reply is
// streaming, immediately otherwise.
type SessionService struct {
	mu        sync.Mutex
	writeMu   sync.Mutex
	sessions  []models.ChatSession
	streaming map[string]bool
	status    map[string]SaveStatus
	conf      structures.ChatConfig
	store     storage.RecordStoreInterface
	clock     providers.Clock
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	debouncer *scheduler.Debouncer
}

func NewSessionService(conf *structures.Config, store storage.RecordStoreInterface, clock providers.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface, debouncer *scheduler.Debouncer) SessionServiceInterface {
	return &SessionService{
		streaming: make(map[string]bool),
		status:    make(map[string]SaveStatus),
		conf:      conf.Chat,
		store:     store,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		debouncer: debouncer,
	}
}

// Restore loads the persisted sessions. A user without sessions gets a
// fresh one.
func (ss *SessionService) Restore() error {
	stored := ss.loadPersisted()

	ss.mu.Lock()
	ss.sessions = stored
	ss.mu.Unlock()

	ss.metrics.SetSessionsTotal(len(stored))
	ss.logger.Infof(providers.TypeChat, "Restored %d chat sessions", len(stored))
	if len(stored) == 0 {
		ss.CreateSession()
	}
	return nil
}

// Persist writes every pending change and reports whether any session is
// left in the error state.
func (ss *SessionService) Persist() error {
	ss.Flush()

	ss.mu.Lock()
	defer ss.mu.Unlock()
	failed := 0
	for _, st := range ss.status {
		if st == SaveError {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d sessions not persisted", ErrSaveFailed, failed)
	}
	return nil
}

// ListSessions returns copies of all sessions, most recently modified first.
func (ss *SessionService) ListSessions() []models.ChatSession {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := make([]models.ChatSession, len(ss.sessions))
	for i, s := range ss.sessions {
		out[i] = s.Clone()
	}
	return out
}

func (ss *SessionService) CreateSession() models.ChatSession {
	now := ss.clock.Now().UnixMilli()

	ss.mu.Lock()
	session := models.ChatSession{
		ID:    ss.uniqueIDLocked(now),
		Title: ss.conf.DefaultTitle,
		Messages: []models.ChatMessage{{
			ID:        models.WelcomeMessageID,
			Role:      models.RoleModel,
			Text:      ss.conf.WelcomeText,
			Timestamp: now,
		}},
		LastModified: now,
	}
	ss.sessions = append([]models.ChatSession{session}, ss.sessions...)
	ss.mu.Unlock()

	ss.Save(session.Clone())
	return session
}

func (ss *SessionService) LoadSession(id string) (models.ChatSession, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	idx := ss.indexLocked(id)
	if idx < 0 {
		return models.ChatSession{}, ErrSessionNotFound
	}
	return ss.sessions[idx].Clone(), nil
}

// DeleteSession removes the session and returns the one to show next,
// creating a new session when none are left.
func (ss *SessionService) DeleteSession(id string) (models.ChatSession, error) {
	ss.mu.Lock()
	idx := ss.indexLocked(id)
	if idx < 0 {
		ss.mu.Unlock()
		return models.ChatSession{}, ErrSessionNotFound
	}
	ss.sessions = append(ss.sessions[:idx:idx], ss.sessions[idx+1:]...)
	delete(ss.streaming, id)
	delete(ss.status, id)
	ss.mu.Unlock()

	ss.debouncer.Cancel(id)
	ss.removePersisted(id)

	ss.mu.Lock()
	if len(ss.sessions) > 0 {
		next := ss.sessions[0].Clone()
		ss.mu.Unlock()
		return next, nil
	}
	ss.mu.Unlock()
	return ss.CreateSession(), nil
}

func (ss *SessionService) AppendMessage(id string, msg models.ChatMessage) (models.ChatMessage, error) {
	ss.mu.Lock()
	idx := ss.indexLocked(id)
	if idx < 0 {
		ss.mu.Unlock()
		return models.ChatMessage{}, ErrSessionNotFound
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = ss.clock.Now().UnixMilli()
	}
	ss.sessions[idx].Messages = append(ss.sessions[idx].Messages, msg)
	ss.mu.Unlock()

	ss.schedule(id)
	return msg, nil
}

func (ss *SessionService) UpdateMessage(id, msgID, text string, typing bool) error {
	ss.mu.Lock()
	idx := ss.indexLocked(id)
	if idx < 0 {
		ss.mu.Unlock()
		return ErrSessionNotFound
	}
	found := false
	msgs := ss.sessions[idx].Messages
	for i := range msgs {
		if msgs[i].ID == msgID {
			msgs[i].Text = text
			msgs[i].IsTyping = typing
			found = true
			break
		}
	}
	ss.mu.Unlock()

	if !found {
		return ErrMessageNotFound
	}
	ss.schedule(id)
	return nil
}

func (ss *SessionService) SetStreaming(id string, streaming bool) error {
	ss.mu.Lock()
	if ss.indexLocked(id) < 0 {
		ss.mu.Unlock()
		return ErrSessionNotFound
	}
	ss.streaming[id] = streaming
	ss.mu.Unlock()

	ss.schedule(id)
	return nil
}

// TryStartStreaming marks id as streaming unless a reply is already in
// flight. The check and the mark happen under one lock so only one caller
// can win.
func (ss *SessionService) TryStartStreaming(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.indexLocked(id) < 0 {
		return ErrSessionNotFound
	}
	if ss.streaming[id] {
		return ErrStreamInProgress
	}
	ss.streaming[id] = true
	return nil
}

func (ss *SessionService) IsStreaming(id string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.streaming[id]
}

// Save merges session into the persisted list and writes it, falling back
// to eviction when the store is full.
func (ss *SessionService) Save(session models.ChatSession) SaveResult {
	ss.writeMu.Lock()
	defer ss.writeMu.Unlock()

	ss.mu.Lock()
	known := ss.indexLocked(session.ID) >= 0
	if known {
		ss.status[session.ID] = SaveSaving
	}
	ss.mu.Unlock()
	if !known {
		return SaveResult{Err: ErrSessionNotFound}
	}

	write := func(sessions []models.ChatSession) error {
		return ss.store.Save(storage.KeySessions, sessions)
	}

	list := mergeSession(ss.loadPersisted(), session)
	err := write(list)
	res := SaveResult{OK: err == nil, Err: err}

	if errors.Is(err, storage.ErrQuotaExceeded) {
		ss.logger.Warnf(providers.TypeChat, "Storage full while saving session %s, pruning old sessions", session.ID)
		ev := Evict(list, session.ID, write)
		res = SaveResult{OK: ev.Saved, ImagesStripped: ev.ImagesStripped, Err: ev.Err}
		list = ev.Sessions
		if ev.Saved {
			res.Evicted = ev.Evicted
			ss.applyEviction(session.ID, ev)
		}
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if !res.OK {
		ss.logger.Errorf(providers.TypeChat, "Failed to save session %s: %s", session.ID, res.Err)
		res.Err = fmt.Errorf("%w: %w", ErrSaveFailed, res.Err)
		ss.status[session.ID] = SaveError
		return res
	}

	ss.status[session.ID] = SaveSaved
	ss.metrics.SetSessionsTotal(len(list))
	return res
}

func (ss *SessionService) SaveStatus(id string) SaveStatus {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if st, ok := ss.status[id]; ok {
		return st
	}
	return SaveIdle
}

func (ss *SessionService) Flush() {
	ss.debouncer.Flush()
}

func (ss *SessionService) schedule(id string) {
	ss.mu.Lock()
	delay := ss.conf.IdleSaveDelay
	if ss.streaming[id] {
		delay = ss.conf.StreamingSaveDelay
	}
	ss.mu.Unlock()

	ss.debouncer.Schedule(id, delay, func() { ss.saveFromMemory(id) })
}

// saveFromMemory stamps the in-memory session and saves a snapshot of it.
func (ss *SessionService) saveFromMemory(id string) {
	ss.mu.Lock()
	idx := ss.indexLocked(id)
	if idx < 0 {
		ss.mu.Unlock()
		return
	}
	s := &ss.sessions[idx]
	s.Title = s.DeriveTitle(ss.conf.DefaultTitle)
	s.LastModified = ss.clock.Now().UnixMilli()
	snapshot := s.Clone()
	sortSessions(ss.sessions)
	ss.mu.Unlock()

	ss.Save(snapshot)
}

// applyEviction mirrors a successful eviction in the working list.
func (ss *SessionService) applyEviction(protectedID string, ev EvictionResult) {
	ss.metrics.AddSessionsEvicted(len(ev.Evicted))
	if len(ev.Evicted) > 0 {
		ss.logger.Warnf(providers.TypeChat, "Evicted %d sessions to free storage: %v", len(ev.Evicted), ev.Evicted)
	}

	evicted := make(map[string]bool, len(ev.Evicted))
	for _, id := range ev.Evicted {
		evicted[id] = true
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	kept := ss.sessions[:0]
	for _, s := range ss.sessions {
		if s.ID == protectedID || !evicted[s.ID] {
			kept = append(kept, s)
		}
	}
	ss.sessions = kept
	for id := range evicted {
		delete(ss.status, id)
		delete(ss.streaming, id)
		ss.debouncer.Cancel(id)
	}

	if !ev.ImagesStripped {
		return
	}
	ss.metrics.IncImagesStripped()
	ss.logger.Warnf(providers.TypeChat, "Stripped images from session %s to free storage", protectedID)

	stripped := make(map[string]bool)
	for _, s := range ev.Sessions {
		if s.ID != protectedID {
			continue
		}
		for _, m := range s.Messages {
			if !m.HasImage() {
				stripped[m.ID] = true
			}
		}
	}
	idx := ss.indexLocked(protectedID)
	if idx < 0 {
		return
	}
	msgs := ss.sessions[idx].Messages
	for i := range msgs {
		if msgs[i].HasImage() && stripped[msgs[i].ID] {
			msgs[i].Text += models.ImageRemovedNotice
			msgs[i].ImageURL = ""
		}
	}
}

func (ss *SessionService) removePersisted(id string) {
	ss.writeMu.Lock()
	defer ss.writeMu.Unlock()

	stored := ss.loadPersisted()
	kept := make([]models.ChatSession, 0, len(stored))
	for _, s := range stored {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if err := ss.store.Save(storage.KeySessions, kept); err != nil {
		ss.logger.Errorf(providers.TypeChat, "Failed to delete session %s: %s", id, err)
		return
	}
	ss.metrics.SetSessionsTotal(len(kept))
}

func (ss *SessionService) loadPersisted() []models.ChatSession {
	sessions := storage.LoadOrDefault(ss.store, storage.KeySessions, func() []models.ChatSession {
		return []models.ChatSession{}
	})
	sortSessions(sessions)
	return sessions
}

func (ss *SessionService) indexLocked(id string) int {
	for i := range ss.sessions {
		if ss.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueIDLocked derives the id from the creation time, moving forward a
// millisecond at a time when two sessions are created in the same one.
func (ss *SessionService) uniqueIDLocked(ms int64) string {
	for {
		id := strconv.FormatInt(ms, 10)
		if ss.indexLocked(id) < 0 {
			return id
		}
		ms++
	}
}

func mergeSession(list []models.ChatSession, session models.ChatSession) []models.ChatSession {
	for i := range list {
		if list[i].ID == session.ID {
			list[i] = session
			return list
		}
	}
	return append([]models.ChatSession{session}, list...)
}

func sortSessions(sessions []models.ChatSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastModified > sessions[j].LastModified
	})
}
