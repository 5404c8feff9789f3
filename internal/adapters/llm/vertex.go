package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/spiralite/internal/domain"
)

const DefaultVertexModel = "gemini-2.5-flash-lite"

// VertexClient completes through Vertex AI (Gemini).
type VertexClient struct {
	client    *genai.Client
	modelName string
}

// NewVertexClient creates a Vertex AI completer for the given project and
// region.
func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("vertex: project and location must be set")
	}
	if modelName == "" {
		modelName = DefaultVertexModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete implements domain.Completer.
func (v *VertexClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	system, _ := splitMessages(messages)

	var contents []*genai.Content
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		// the SDK expects the user role on system instructions
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   4096,
		ResponseMIMEType:  "application/json",
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", &domain.NetworkError{Reason: "vertex generate content", Err: err}
	}

	text := res.Text()
	if text == "" {
		return "", &domain.NetworkError{Reason: "vertex returned empty text"}
	}

	return text, nil
}
