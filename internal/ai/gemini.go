package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/structures"

	"github.com/goccy/go-json"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var (
	ErrNotConfigured = errors.New("ai api key is not configured")
	ErrBadImage      = errors.New("image must be a base64 data uri")
)

// GeminiClient talks to the hosted models. Chat and structured calls go
// through generative-ai-go, image predictions through ImagenClient.
type GeminiClient struct {
	client *genai.Client
	images *ImagenClient
	conf   structures.AIConfig
	logger providers.Logger
}

// NewGenerator returns the Gemini backed generator, or one that fails
// every call with ErrNotConfigured when no api key is set.
func NewGenerator(conf *structures.Config, logger providers.Logger) (Generator, func(), error) {
	if conf.AI.APIKey == "" {
		logger.Warnf(providers.TypeApp, "AI api key is empty, tutor features are disabled")
		return unconfigured{}, func() {}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(conf.AI.APIKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	gc := &GeminiClient{
		client: client,
		images: NewImagenClient(conf.AI, nil),
		conf:   conf.AI,
		logger: logger,
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Failed to close genai client: %s", err)
		}
	}
	return gc, cleanup, nil
}

func (g *GeminiClient) StreamChat(ctx context.Context, history []models.ChatMessage, message, image string, onChunk func(string)) error {
	model := g.client.GenerativeModel(g.conf.ChatModel)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))

	cs := model.StartChat()
	cs.History = toContents(history)

	parts := []genai.Part{genai.Text(message)}
	if image != "" {
		blob, err := decodeDataURI(image)
		if err != nil {
			return err
		}
		if message == "" {
			parts[0] = genai.Text(defaultImageQuestion)
		}
		parts = append(parts, blob)
	}

	it := cs.SendMessageStream(ctx, parts...)
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("chat stream: %w", err)
		}
		if text := responseText(resp); text != "" {
			onChunk(text)
		}
	}
}

func (g *GeminiClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, dst any) error {
	model := g.client.GenerativeModel(g.conf.ChatModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("generate json: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return ErrNoContent
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("malformed model response: %w", err)
	}
	return nil
}

func (g *GeminiClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return g.images.Generate(ctx, prompt)
}

func toContents(history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == models.RoleModel {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Text)}})
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		case *genai.Text:
			sb.WriteString(string(*p))
		}
	}
	return sb.String()
}

// decodeDataURI splits "data:image/png;base64,...." into an inline blob.
func decodeDataURI(uri string) (genai.Blob, error) {
	if !strings.HasPrefix(uri, "data:") {
		return genai.Blob{}, ErrBadImage
	}
	meta, data, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return genai.Blob{}, ErrBadImage
	}
	mime, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" || mime == "" {
		return genai.Blob{}, ErrBadImage
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return genai.Blob{}, fmt.Errorf("%w: %w", ErrBadImage, err)
	}
	return genai.Blob{MIMEType: mime, Data: raw}, nil
}

type unconfigured struct{}

func (unconfigured) StreamChat(context.Context, []models.ChatMessage, string, string, func(string)) error {
	return ErrNotConfigured
}

func (unconfigured) GenerateText(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (unconfigured) GenerateJSON(context.Context, string, *genai.Schema, any) error {
	return ErrNotConfigured
}

func (unconfigured) GenerateImage(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
