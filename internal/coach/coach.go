// Package coach turns planning results into short study advice, using an
// LLM when one is configured and a rule-based summary otherwise.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/studyplan/internal/llm"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/planner"
)

// Source says where a piece of advice came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Advice is the coach's commentary on one set of results.
type Advice struct {
	Summary     string    `json:"summary"`
	FocusTips   []string  `json:"focus_tips"`
	Warning     string    `json:"warning,omitempty"`
	Source      Source    `json:"source"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Coach produces advice. A nil provider always uses the fallback.
type Coach struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// New creates a coach. provider may be nil.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Coach {
	if log == nil {
		log = logger.Nop()
	}
	return &Coach{provider: provider, cfg: cfg, log: log, now: time.Now}
}

type adviceOutput struct {
	Summary   string   `json:"summary"`
	FocusTips []string `json:"focus_tips"`
	Warning   string   `json:"warning"`
}

// Advise returns advice for res. Provider failures are logged and answered
// with the fallback, so the caller always gets something to show.
func (c *Coach) Advise(ctx context.Context, res planner.Results) Advice {
	if c.provider == nil {
		return c.fallback(res)
	}
	advice, err := c.generate(ctx, res)
	if err != nil {
		c.log.Warn("coach falling back to rule-based advice", "error", err)
		return c.fallback(res)
	}
	return advice
}

func (c *Coach) generate(ctx context.Context, res planner.Results) (Advice, error) {
	ctx = llm.WithPurpose(ctx, "coach")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(res, c.cfg.MaxSubjects)},
		},
		Schema:      AdviceSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return Advice{}, fmt.Errorf("coach generation: %w", err)
	}

	var out adviceOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Advice{}, fmt.Errorf("parse coach response: %w", err)
	}

	tips := make([]string, 0, len(out.FocusTips))
	for _, t := range out.FocusTips {
		if t = strings.TrimSpace(t); t != "" {
			tips = append(tips, t)
		}
	}
	return Advice{
		Summary:     strings.TrimSpace(out.Summary),
		FocusTips:   tips,
		Warning:     strings.TrimSpace(out.Warning),
		Source:      SourceLLM,
		Model:       resp.Model,
		GeneratedAt: c.now(),
	}, nil
}
