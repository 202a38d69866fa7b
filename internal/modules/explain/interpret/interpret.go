// Package interpret turns a raw explain completion into a validated,
// link-enriched Explanation.
package interpret

import (
	"errors"

	types "github.com/yungbote/code-explainer-backend/internal/domain"
	"github.com/yungbote/code-explainer-backend/internal/observability"
)

type Interpreter struct {
	links Links
}

func New(links Links) *Interpreter {
	return &Interpreter{links: links}
}

// Interpret runs extract, enrich and validate. Failures wrap ErrNoJSON,
// ErrMalformedJSON or ErrSchema.
func (i *Interpreter) Interpret(raw string) (*types.Explanation, error) {
	doc, err := Extract(raw)
	if err == nil {
		Enrich(doc, i.links)
		var exp *types.Explanation
		exp, err = Validate(doc)
		if err == nil {
			observability.Current().IncInterpretOutcome("ok")
			return exp, nil
		}
	}
	observability.Current().IncInterpretOutcome(Outcome(err))
	return nil, err
}

// Outcome names the failure class of err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoJSON):
		return "no_json"
	case errors.Is(err, ErrMalformedJSON):
		return "malformed_json"
	case errors.Is(err, ErrSchema):
		return "schema"
	default:
		return "error"
	}
}
