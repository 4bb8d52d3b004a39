package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"studymate/internal/structures"
	"time"

	"github.com/goccy/go-json"
)

const imagenTimeout = 60 * time.Second

// ImagenClient calls the image prediction endpoint directly; the genai
// package has no image generation call.
type ImagenClient struct {
	http     *http.Client
	endpoint string
	model    string
	apiKey   string
}

func NewImagenClient(conf structures.AIConfig, client *http.Client) *ImagenClient {
	if client == nil {
		client = &http.Client{Timeout: imagenTimeout}
	}
	return &ImagenClient{
		http:     client,
		endpoint: conf.ImageEndpoint,
		model:    conf.ImageModel,
		apiKey:   conf.APIKey,
	}
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount    int    `json:"sampleCount"`
	OutputMimeType string `json:"outputMimeType"`
	AspectRatio    string `json:"aspectRatio"`
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenPrediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type imagenResponse struct {
	Predictions []imagenPrediction `json:"predictions"`
}

// Generate renders one 4:3 jpeg for the prompt and returns it as a data uri.
func (c *ImagenClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(imagenRequest{
		Instances: []imagenInstance{{Prompt: ImagePrompt(prompt)}},
		Parameters: imagenParameters{
			SampleCount:    1,
			OutputMimeType: "image/jpeg",
			AspectRatio:    "4:3",
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:predict", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image request failed with status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out imagenResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("malformed image response: %w", err)
	}
	if len(out.Predictions) == 0 || out.Predictions[0].BytesBase64Encoded == "" {
		return "", ErrNoContent
	}
	return "data:image/jpeg;base64," + out.Predictions[0].BytesBase64Encoded, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
