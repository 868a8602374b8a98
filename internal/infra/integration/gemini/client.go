package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xavierca1/ligue-crm/internal/config"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

var ErrNotConfigured = errors.New("clave de Gemini no configurada")

type SettingsSource interface {
	Get(ctx context.Context) config.Settings
}

// Request es una llamada de generación: instrucción de sistema, prompt y si la
// respuesta debe ser JSON.
type Request struct {
	System string
	Prompt string
	JSON   bool
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client implementa Generator sobre google.golang.org/genai. Reutiliza el cliente
// mientras la clave de los ajustes no cambie.
type Client struct {
	settings SettingsSource

	mu     sync.Mutex
	key    string
	client *genai.Client
}

func NewClient(settings SettingsSource) *Client {
	return &Client{settings: settings}
}

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	cfg := c.settings.Get(ctx)
	client, err := c.clientFor(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return "", err
	}
	model := cfg.GeminiModel
	if model == "" {
		model = DefaultModel
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate falló: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini devolvió una respuesta vacía")
	}
	return text, nil
}

func (c *Client) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.key == apiKey {
		return c.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("no se pudo crear el cliente de Gemini: %w", err)
	}
	c.client, c.key = client, apiKey
	return client, nil
}
