package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed defaults.yaml
var defaultPrompts []byte

type Prompts struct {
	System    SystemPrompts    `yaml:"system"`
	Narration NarrationPrompts `yaml:"narration"`
	Caption   CaptionPrompts   `yaml:"caption"`
}

type SystemPrompts struct {
	Narration string `yaml:"narration"`
	Caption   string `yaml:"caption"`
}

type NarrationPrompts struct {
	Generate string `yaml:"generate"`
}

type CaptionPrompts struct {
	Generate string `yaml:"generate"`
}

type NarrationParams struct {
	Title     string
	Style     string
	Words     int
	KeyPoints []string
	Intro     string
	Outro     string
}

type CaptionParams struct {
	Title       string
	Description string
}

// Load reads prompts.yaml from the working directory, falling back to the
// built-in prompts when the file does not exist.
func Load() (*Prompts, error) {
	p, err := LoadFrom(defaultPromptsPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	return p, err
}

func Default() (*Prompts, error) {
	return parse(defaultPrompts)
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Prompts, error) {
	defaults := &Prompts{}
	if err := yaml.Unmarshal(defaultPrompts, defaults); err != nil {
		return nil, fmt.Errorf("parse built-in prompts: %w", err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}

	p.fillFrom(defaults)
	return &p, nil
}

func (p *Prompts) fillFrom(defaults *Prompts) {
	if p.System.Narration == "" {
		p.System.Narration = defaults.System.Narration
	}
	if p.System.Caption == "" {
		p.System.Caption = defaults.System.Caption
	}
	if p.Narration.Generate == "" {
		p.Narration.Generate = defaults.Narration.Generate
	}
	if p.Caption.Generate == "" {
		p.Caption.Generate = defaults.Caption.Generate
	}
}

func (p *Prompts) RenderNarration(params NarrationParams) (string, error) {
	return render(p.Narration.Generate, params)
}

func (p *Prompts) RenderCaption(params CaptionParams) (string, error) {
	return render(p.Caption.Generate, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
