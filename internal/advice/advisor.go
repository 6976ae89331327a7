package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/inference"
	"github.com/huertalab/durazno/internal/llm"
)

// Advisor produces advice plans, enriched by an LLM when one is configured.
type Advisor struct {
	provider llm.Provider
	catalog  *catalogue.Catalogue
	logger   *slog.Logger
}

// NewAdvisor creates an Advisor. provider may be nil for static advice only.
func NewAdvisor(provider llm.Provider, cat *catalogue.Catalogue, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Advisor{provider: provider, catalog: cat, logger: logger}
}

type llmAdvice struct {
	Summary string   `json:"summary"`
	Actions []string `json:"actions"`
	Urgency Urgency  `json:"urgency"`
}

// Advise returns the static plan, with summary, actions and urgency from
// the LLM when it answers. An LLM failure is recorded in Plan.LLMError
// and never returned as an error. Nothing is asked when ranked is empty.
func (a *Advisor) Advise(ctx context.Context, ranked []inference.RuleScore, risk inference.Risk) *Plan {
	plan := Static(ranked, risk, a.catalog)
	if a.provider == nil || len(ranked) == 0 {
		return plan
	}

	out, err := a.generate(ctx, ranked, risk, plan)
	if err != nil {
		a.logger.Warn("llm advice unavailable, using static advice", "error", err)
		plan.LLMError = err.Error()
		return plan
	}

	plan.Summary = out.Summary
	plan.Actions = out.Actions
	plan.Urgency = out.Urgency
	plan.Source = SourceLLM
	return plan
}

func (a *Advisor) generate(ctx context.Context, ranked []inference.RuleScore, risk inference.Risk, static *Plan) (*llmAdvice, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTreatmentAdvice)

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(ranked, risk, static, a.catalog)),
		Schema:      AdviceSchema,
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	var out llmAdvice
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode advice: %w", err)
	}
	return &out, nil
}
