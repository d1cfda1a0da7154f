package tools

import (
	"context"

	"github.com/dileep-u-k/coach-gateway/internal/expr"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
)

// --- Arithmetic Tool Implementation ---

const ArithmeticToolName = "arithmetic"

// ArithmeticResult holds one evaluation per expression found in the text.
type ArithmeticResult struct {
	Evaluations []expr.Evaluation `json:"evaluations"`
}

// ArithmeticTool evaluates the arithmetic spans of a message. Whole sentences
// are never evaluated; only what expr.Extract isolates.
type ArithmeticTool struct{}

var _ Tool = (*ArithmeticTool)(nil)

func NewArithmeticTool() *ArithmeticTool {
	return &ArithmeticTool{}
}

func (t *ArithmeticTool) Definition() Definition {
	return NewDefinition(
		ArithmeticToolName,
		"Evaluates arithmetic and percentage expressions found in the message, e.g. '15% of 200' or '(12+3)*4'.",
		intent.Arithmetic,
		false,
		standardSchema("The user's message containing one or more expressions."),
	)
}

func (t *ArithmeticTool) Execute(_ context.Context, in Input) (any, error) {
	spans := expr.Extract(in.Text)
	if len(spans) == 0 {
		return nil, ErrNoData
	}
	res := &ArithmeticResult{Evaluations: make([]expr.Evaluation, 0, len(spans))}
	for _, s := range spans {
		res.Evaluations = append(res.Evaluations, expr.Evaluate(s))
	}
	return res, nil
}
