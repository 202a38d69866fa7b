package interpret

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	types "github.com/yungbote/code-explainer-backend/internal/domain"
)

var ErrSchema = errors.New("explanation failed schema validation")

func schemaErr(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSchema, field, fmt.Sprintf(format, args...))
}

// Validate converts a decoded document into an Explanation. Unknown keys
// are ignored; risks defaults to empty when absent.
func Validate(doc map[string]any) (*types.Explanation, error) {
	out := &types.Explanation{}
	var err error

	if out.Summary, err = requiredString(doc, "summary"); err != nil {
		return nil, err
	}
	if out.Walkthrough, err = stringList(doc, "walkthrough"); err != nil {
		return nil, err
	}
	if out.Concepts, err = conceptList(doc); err != nil {
		return nil, err
	}
	if out.Gotchas, err = stringList(doc, "gotchas"); err != nil {
		return nil, err
	}
	if out.Improvements, err = stringList(doc, "improvements"); err != nil {
		return nil, err
	}
	if out.QuestionsToAsk, err = stringList(doc, "questions_to_ask"); err != nil {
		return nil, err
	}
	if out.Risks, err = riskList(doc); err != nil {
		return nil, err
	}
	return out, nil
}

func requiredString(doc map[string]any, key string) (string, error) {
	v, ok := doc[key]
	if !ok {
		return "", schemaErr(key, "field required")
	}
	s, ok := v.(string)
	if !ok {
		return "", schemaErr(key, "expected string, got %s", kind(v))
	}
	return s, nil
}

func requiredList(doc map[string]any, key string) ([]any, error) {
	v, ok := doc[key]
	if !ok {
		return nil, schemaErr(key, "field required")
	}
	list, ok := v.([]any)
	if !ok {
		return nil, schemaErr(key, "expected list, got %s", kind(v))
	}
	return list, nil
}

func stringList(doc map[string]any, key string) ([]string, error) {
	list, err := requiredList(doc, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, schemaErr(fmt.Sprintf("%s[%d]", key, i), "expected string, got %s", kind(item))
		}
		out = append(out, s)
	}
	return out, nil
}

func conceptList(doc map[string]any) ([]types.ConceptRef, error) {
	list, err := requiredList(doc, "concepts")
	if err != nil {
		return nil, err
	}
	out := make([]types.ConceptRef, 0, len(list))
	for i, item := range list {
		field := fmt.Sprintf("concepts[%d]", i)
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, schemaErr(field, "expected object, got %s", kind(item))
		}
		name, err := requiredString(entry, "concept")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		ref := types.ConceptRef{Concept: name}
		switch u := entry["learn_more_url"].(type) {
		case nil:
		case string:
			ref.LearnMoreURL = &u
		default:
			return nil, schemaErr(field+".learn_more_url", "expected string or null, got %s", kind(u))
		}
		out = append(out, ref)
	}
	return out, nil
}

func riskList(doc map[string]any) ([]types.Risk, error) {
	if _, ok := doc["risks"]; !ok {
		return []types.Risk{}, nil
	}
	list, err := requiredList(doc, "risks")
	if err != nil {
		return nil, err
	}
	out := make([]types.Risk, 0, len(list))
	for i, item := range list {
		field := fmt.Sprintf("risks[%d]", i)
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, schemaErr(field, "expected object, got %s", kind(item))
		}
		line, err := intField(entry, "line")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		reason, err := requiredString(entry, "reason")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		out = append(out, types.Risk{Line: line, Reason: reason})
	}
	return out, nil
}

// intField accepts integral numbers, including forms like 3.0.
func intField(doc map[string]any, key string) (int, error) {
	v, ok := doc[key]
	if !ok {
		return 0, schemaErr(key, "field required")
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, schemaErr(key, "expected integer, got %s", kind(v))
	}
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, schemaErr(key, "expected integer, got %s", n.String())
	}
	return int(f), nil
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "bool"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
