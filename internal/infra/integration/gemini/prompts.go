package gemini

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

type Prompt struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`

	tmpl *template.Template
}

type Prompts struct {
	Analyze     Prompt `yaml:"analyze"`
	DeepAnalyze Prompt `yaml:"deep_analyze"`
	Demo        Prompt `yaml:"demo"`
}

// LoadPrompts lee el catálogo embebido y compila las plantillas.
func LoadPrompts() (*Prompts, error) {
	return ParsePrompts(promptsYAML)
}

func ParsePrompts(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("error al leer prompts: %w", err)
	}
	for name, pr := range map[string]*Prompt{"analyze": &p.Analyze, "deep_analyze": &p.DeepAnalyze, "demo": &p.Demo} {
		if pr.User == "" {
			return nil, fmt.Errorf("prompt %s vacío", name)
		}
		t, err := template.New(name).Option("missingkey=error").Parse(pr.User)
		if err != nil {
			return nil, fmt.Errorf("prompt %s inválido: %w", name, err)
		}
		pr.tmpl = t
	}
	return &p, nil
}

func (p *Prompt) Render(prospect *entity.Prospect) (string, error) {
	var b bytes.Buffer
	if err := p.tmpl.Execute(&b, prospect); err != nil {
		return "", err
	}
	return b.String(), nil
}
