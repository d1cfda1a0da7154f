// Package tools defines the capabilities the orchestrator can run for a request
// and the registry that maps intent tags to them.
package tools

import (
	"context"
	"errors"

	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// ToolTypeFunction is the type recorded on every definition.
const ToolTypeFunction = "function"

// ErrNoData marks a tool that ran successfully but had nothing to contribute,
// for example an arithmetic request with no expression in it.
var ErrNoData = errors.New("tool produced no data")

// Definition describes a tool to API clients and to the generation step.
// External tools call a remote service and run under a timeout.
type Definition struct {
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Tag         intent.Tag `json:"tag"`
	External    bool       `json:"external"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is the subset of JSON Schema used to describe tool inputs.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// NewDefinition fills in the function type.
func NewDefinition(name, description string, tag intent.Tag, external bool, parameters JSONSchema) Definition {
	return Definition{
		Type:        ToolTypeFunction,
		Name:        name,
		Description: description,
		Tag:         tag,
		External:    external,
		Parameters:  parameters,
	}
}

// Input is everything a tool may read. It is shared by all tools of a request
// and must not be modified.
type Input struct {
	RequestID       string
	Text            string
	Profile         profile.Profile
	WeightHistoryLb []float64
}

// Tool is one capability. Execute returns the tool's data, ErrNoData when it
// ran but found nothing to do, or any other error on failure.
type Tool interface {
	Definition() Definition
	Execute(ctx context.Context, in Input) (any, error)
}

// Estimator is implemented by results that filled in missing profile values.
type Estimator interface {
	EstimationWarnings() []string
}

// standardSchema is the parameter schema shared by the built-in tools: they
// read the request text and the profile rather than structured arguments.
func standardSchema(textDescription string) JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]*JSONSchema{
			"text": {
				Type:        "string",
				Description: textDescription,
			},
			"profile": {
				Type:        "object",
				Description: "Sparse user profile: age, weight_kg, height_cm, sex, body_fat_percentage, activity_level, goal.",
			},
		},
		Required: []string{"text"},
	}
}
