package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const maxTags = 5

// Analyzer implementa el análisis IA de prospectos sobre un Generator.
type Analyzer struct {
	Gen     Generator
	Prompts *Prompts
}

func NewAnalyzer(gen Generator, prompts *Prompts) *Analyzer {
	return &Analyzer{Gen: gen, Prompts: prompts}
}

func (a *Analyzer) Analyze(ctx context.Context, p *entity.Prospect) (*entity.Analysis, error) {
	raw, err := a.run(ctx, &a.Prompts.Analyze, p, true)
	if err != nil {
		return nil, err
	}
	var out entity.Analysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("respuesta de análisis inválida: %w", err)
	}

	out.Priority = normalizePriority(out.Priority)
	out.Tags = cleanTags(out.Tags)
	if out.Score < 0 {
		out.Score = 0
	}
	if out.Score > 100 {
		out.Score = 100
	}
	return &out, nil
}

func (a *Analyzer) DeepAnalyze(ctx context.Context, p *entity.Prospect) (*entity.DeepAnalysis, error) {
	raw, err := a.run(ctx, &a.Prompts.DeepAnalyze, p, true)
	if err != nil {
		return nil, err
	}
	var out entity.DeepAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("respuesta de análisis profundo inválida: %w", err)
	}
	return &out, nil
}

func (a *Analyzer) GenerateDemo(ctx context.Context, p *entity.Prospect) (string, error) {
	raw, err := a.run(ctx, &a.Prompts.Demo, p, false)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(strings.ToLower(raw), "<!doctype") && !strings.HasPrefix(raw, "<") {
		return "", fmt.Errorf("la demo generada no es HTML")
	}
	return raw, nil
}

func (a *Analyzer) run(ctx context.Context, pr *Prompt, p *entity.Prospect, jsonOut bool) (string, error) {
	prompt, err := pr.Render(p)
	if err != nil {
		return "", fmt.Errorf("error al preparar el prompt: %w", err)
	}
	raw, err := a.Gen.Generate(ctx, Request{System: pr.System, Prompt: prompt, JSON: jsonOut})
	if err != nil {
		return "", err
	}
	return stripFences(raw), nil
}

// stripFences quita los bloques ```json ... ``` que a veces envuelven la respuesta.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high", "alta":
		return entity.PriorityHigh
	case "low", "baja":
		return entity.PriorityLow
	default:
		return entity.PriorityMedium
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
