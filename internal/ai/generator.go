package ai

import (
	"context"
	"errors"
	"studymate/internal/models"

	"github.com/google/generative-ai-go/genai"
)

var ErrNoContent = errors.New("model returned no content")

// Generator is the hosted model as the tutor sees it.
type Generator interface {
	// StreamChat sends message (and an optional data URI image) after the
	// given history and calls onChunk with every text fragment received.
	StreamChat(ctx context.Context, history []models.ChatMessage, message, image string, onChunk func(string)) error
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	// GenerateJSON asks for a document conforming to schema and decodes it into dst.
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, dst any) error
	// GenerateImage returns a data:image/jpeg;base64 URI.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
