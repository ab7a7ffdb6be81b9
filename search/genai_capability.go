package search

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.0-flash"

	systemInstruction = "You help a sales team find client leads. " +
		"Answer the user's search with a concise, plain text list of matching leads " +
		"and the reason each one matches."
)

// GenAISettings configures the Gemini backed capability
type GenAISettings struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint
	BaseURL string
}

// GenAICapability answers searches with a single Gemini generation
type GenAICapability struct {
	client *genai.Client
	model  string
}

func NewGenAICapability(ctx context.Context, settings GenAISettings) (*GenAICapability, error) {
	if settings.APIKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	if settings.Model == "" {
		settings.Model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      settings.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: settings.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAICapability{client: client, model: settings.Model}, nil
}

func (g *GenAICapability) Search(ctx context.Context, req Request) (Response, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(req.Query),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return Response{}, fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return Response{}, errors.New("GenAI returned no text")
	}
	return Response{Results: text}, nil
}

// Name returns the capability name
func (g *GenAICapability) Name() string {
	return fmt.Sprintf("genai:%s", g.model)
}
