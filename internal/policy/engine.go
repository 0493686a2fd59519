// Package policy decides how a prompt is handled using an OPA/rego policy.
package policy

import (
	"context"

	"github.com/open-policy-agent/opa/rego"
	"github.com/pkg/errors"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

// Prompt routes.
const (
	RouteChat   = "chat"
	RouteImage  = "image"
	RouteSearch = "search"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// RouteInput is what the policy sees for one prompt.
type RouteInput struct {
	GenerateImage bool
	WebSearch     bool
	Model         domain.ModelConfig
}

// NewEngine creates a new policy engine with the given policy content. The
// policy must define data.prompt_route.route.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.prompt_route.route"),
		rego.Module("prompt_route.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare rego")
	}

	return &Engine{query: query}, nil
}

// Route evaluates the policy and returns one of RouteChat, RouteImage or
// RouteSearch.
func (e *Engine) Route(ctx context.Context, in RouteInput) (string, error) {
	caps := in.Model.Capabilities
	input := map[string]interface{}{
		"generate_image": in.GenerateImage,
		"web_search":     in.WebSearch,
		"model": map[string]interface{}{
			"name":     in.Model.Name,
			"provider": string(in.Model.Provider),
		},
		"capabilities": map[string]interface{}{
			"text":                caps.Text,
			"image_generation":    caps.ImageGeneration,
			"image_understanding": caps.ImageUnderstanding,
			"web_search":          caps.WebSearch,
			"file_upload":         caps.FileUpload,
			"function_calling":    caps.FunctionCalling,
		},
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", errors.Wrap(err, "failed to evaluate policy")
	}

	// An undefined result falls back to plain chat.
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return RouteChat, nil
	}

	switch route := results[0].Expressions[0].Value.(type) {
	case string:
		switch route {
		case RouteChat, RouteImage, RouteSearch:
			return route, nil
		}
		return "", errors.Errorf("policy returned unknown route %q", route)
	default:
		return "", errors.Errorf("policy returned %T, want string", route)
	}
}

// DefaultPolicy sends a prompt to image generation or web search only when
// the user asked for it and the model supports it.
const DefaultPolicy = `
package prompt_route

default route = "chat"

route = "image" {
	input.generate_image
	input.capabilities.image_generation
} else = "search" {
	input.web_search
	input.capabilities.web_search
}
`
