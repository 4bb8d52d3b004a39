package testutil

import (
	"context"
	"strings"
	"studymate/internal/models"
	"studymate/internal/providers"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/generative-ai-go/genai"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockClock implements providers.Clock with a settable time.
type MockClock struct {
	mu      sync.Mutex
	NowTime time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{NowTime: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.NowTime
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NowTime = t
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NowTime = c.NowTime.Add(d)
}

// MockNotifier implements providers.NotifierInterface.
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []Notification
}

type Notification struct {
	Title string
	Body  string
}

func (n *MockNotifier) Notify(title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, Notification{Title: title, Body: body})
}

func (n *MockNotifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.Notifications))
	copy(out, n.Notifications)
	return out
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	CacheHits        int
	CacheMisses      int
	StorageWrites    int
	QuotaExceeded    map[string]int
	SessionsEvicted  int
	ImagesStripped   int
	ImageGenerations map[bool]int
	SessionsTotal    int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		QuotaExceeded:    make(map[string]int),
		ImageGenerations: make(map[bool]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObserveStorageWrite(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageWrites++
}
func (m *MockMetrics) IncQuotaExceeded(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuotaExceeded[key]++
}
func (m *MockMetrics) AddSessionsEvicted(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsEvicted += count
}
func (m *MockMetrics) IncImagesStripped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesStripped++
}
func (m *MockMetrics) IncImageGenerations(paid bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImageGenerations[paid]++
}
func (m *MockMetrics) SetSessionsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsTotal = count
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockGenerator implements ai.Generator. Unset functions fall back to
// canned answers.
type MockGenerator struct {
	mu       sync.Mutex
	StreamFn func(history []models.ChatMessage, message, image string, onChunk func(string)) error
	TextFn   func(model, prompt string) (string, error)
	// JSONResponse is decoded into dst when JSONFn is nil.
	JSONResponse string
	JSONFn       func(prompt string, dst any) error
	ImageFn      func(prompt string) (string, error)
	Prompts      []string
}

func (g *MockGenerator) remember(prompt string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Prompts = append(g.Prompts, prompt)
}

func (g *MockGenerator) LastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Prompts) == 0 {
		return ""
	}
	return g.Prompts[len(g.Prompts)-1]
}

func (g *MockGenerator) StreamChat(_ context.Context, history []models.ChatMessage, message, image string, onChunk func(string)) error {
	g.remember(message)
	if g.StreamFn != nil {
		return g.StreamFn(history, message, image, onChunk)
	}
	for _, w := range strings.SplitAfter("Here is the answer.", " ") {
		onChunk(w)
	}
	return nil
}

func (g *MockGenerator) GenerateText(_ context.Context, model, prompt string) (string, error) {
	g.remember(prompt)
	if g.TextFn != nil {
		return g.TextFn(model, prompt)
	}
	return "generated text", nil
}

func (g *MockGenerator) GenerateJSON(_ context.Context, prompt string, _ *genai.Schema, dst any) error {
	g.remember(prompt)
	if g.JSONFn != nil {
		return g.JSONFn(prompt, dst)
	}
	return json.Unmarshal([]byte(g.JSONResponse), dst)
}

func (g *MockGenerator) GenerateImage(_ context.Context, prompt string) (string, error) {
	g.remember(prompt)
	if g.ImageFn != nil {
		return g.ImageFn(prompt)
	}
	return "data:image/jpeg;base64,AAAA", nil
}
