package plan

import (
	"context"
	"errors"

	"github.com/FranksOps/scout/internal/metrics"
	"github.com/FranksOps/scout/pkg/logging"
)

// Completer is the external text-generation service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator turns a free-form description into a Plan.
type Generator struct {
	llm      Completer
	log      *logging.Logger
	negative []string
}

func NewGenerator(llm Completer, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Generator{llm: llm, log: logger}
}

// Generate asks the service for count combinations and validates the reply.
// The returned error is always a *GenerationError unless count is invalid.
func (g *Generator) Generate(ctx context.Context, description string, count int) (*Plan, error) {
	if count < 1 {
		return nil, errors.New("plan: combination count must be at least 1")
	}

	prompt, err := BuildPrompt(description, count)
	if err != nil {
		return nil, &GenerationError{Reason: "render prompt", Err: err}
	}

	g.log.Debug("requesting query plan", "combinations", count)

	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		metrics.RecordPlan(err)
		return nil, &GenerationError{Reason: "text generation request failed", Err: err}
	}

	p, err := Parse(raw)
	metrics.RecordPlan(err)
	if err != nil {
		g.log.Error("query plan rejected", "error", err, "raw", raw)
		return nil, err
	}

	if len(p.Combinations) != count {
		g.log.Warn("query plan size differs from request", "requested", count, "received", len(p.Combinations))
	}

	g.negative = p.NegativeSignals
	g.log.Info("query plan generated", "combinations", len(p.Combinations), "negative_signals", len(p.NegativeSignals))
	g.log.Debug("planned queries", "queries", p.Queries())

	return p, nil
}

// NegativeSignals returns the signals from the most recent successful plan.
func (g *Generator) NegativeSignals() []string {
	out := make([]string, len(g.negative))
	copy(out, g.negative)
	return out
}
