// Package assembler turns a tool bundle, reference passages and the profile
// into the payload for the text-generation step.
package assembler

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/knowledge"
	"github.com/dileep-u-k/coach-gateway/internal/orchestrator"
	"github.com/dileep-u-k/coach-gateway/internal/profile"
	"github.com/dileep-u-k/coach-gateway/internal/tools"
)

//go:embed system_instruction.tmpl
var systemInstructionSource string

//go:embed user_payload.tmpl
var userPayloadSource string

var funcs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

var (
	systemTemplate = template.Must(template.New("system").Parse(systemInstructionSource))
	userTemplate   = template.Must(template.New("user").Funcs(funcs).Parse(userPayloadSource))
)

// Request is everything the assembler reads.
type Request struct {
	Text       string
	Profile    profile.Profile
	Tags       intent.TagSet
	Bundle     orchestrator.Bundle
	References []knowledge.Reference
}

// Payload is handed to the generation service.
type Payload struct {
	SystemInstruction string `json:"system_instruction"`
	UserPayload       string `json:"user_payload"`
}

type section struct {
	Heading string
	Body    string
}

type reference struct {
	Source  string
	Content string
}

type userData struct {
	Text           string
	ProfileSummary string
	Tags           []string
	Sections       []section
	References     []reference
}

// Assemble renders the payload. Each slot is rendered on its own, so one
// tool's failure never hides another tool's result.
func Assemble(req Request) (Payload, error) {
	tags := req.Tags
	if tags == nil {
		tags = req.Bundle.Tags
	}

	var sys bytes.Buffer
	if err := systemTemplate.Execute(&sys, struct{ Sensitive bool }{tags.Has(intent.SensitiveTopic)}); err != nil {
		return Payload{}, fmt.Errorf("render system instruction: %w", err)
	}

	data := userData{
		Text:           strings.TrimSpace(req.Text),
		ProfileSummary: req.Profile.Summary(),
		Tags:           tags.Strings(),
	}
	for _, name := range req.Bundle.SlotNames() {
		data.Sections = append(data.Sections, renderSlot(req.Bundle.Slots[name]))
	}
	for _, r := range req.References {
		content := strings.Join(strings.Fields(r.Content), " ")
		if content == "" {
			continue
		}
		data.References = append(data.References, reference{Source: r.Source(), Content: content})
	}

	var user bytes.Buffer
	if err := userTemplate.Execute(&user, data); err != nil {
		return Payload{}, fmt.Errorf("render user payload: %w", err)
	}
	return Payload{
		SystemInstruction: strings.TrimSpace(sys.String()),
		UserPayload:       strings.TrimSpace(user.String()),
	}, nil
}

func renderSlot(s orchestrator.Slot) section {
	switch s.Status {
	case orchestrator.StatusOK:
		if n, ok := s.Data.(*tools.NutritionResult); ok && !n.Complete() {
			return section{Heading: "MISSING DATA: " + s.Tool, Body: n.Message}
		}
		return section{
			Heading: "VERIFIED RESULT: " + s.Tool + " (quote these figures verbatim)",
			Body:    renderData(s.Data),
		}
	case orchestrator.StatusEmpty:
		return section{Heading: "NO RESULT: " + s.Tool, Body: "The tool ran but had nothing to add for this message."}
	case orchestrator.StatusUnavailable:
		return section{Heading: "UNAVAILABLE: " + s.Tool, Body: "This service did not answer in time. Tell the user it is temporarily unavailable."}
	default:
		return section{Heading: "UNAVAILABLE: " + s.Tool, Body: "This tool failed and produced no figures. Do not estimate them."}
	}
}
