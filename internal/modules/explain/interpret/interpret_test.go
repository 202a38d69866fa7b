package interpret

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/code-explainer-backend/internal/modules/explain/conceptlinks"
)

const validDoc = `{
  "summary": "Defines a Pydantic model.",
  "walkthrough": ["Import BaseModel", "Declare fields"],
  "concepts": [
    {"concept": "Pydantic", "learn_more_url": "http://attacker.example"},
    {"concept": "Monads", "learn_more_url": "https://made-up.example"},
    {"concept": " BaseModel "}
  ],
  "gotchas": ["Mutable defaults"],
  "improvements": ["Add validators"],
  "questions_to_ask": ["What is Field?"],
  "risks": [{"line": 3, "reason": "No input bound"}]
}`

func newInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	seed, err := conceptlinks.DefaultSeed()
	require.NoError(t, err)
	return New(conceptlinks.NewTable(seed.URLs()))
}

func TestInterpretPureJSON(t *testing.T) {
	exp, err := newInterpreter(t).Interpret(validDoc)
	require.NoError(t, err)

	assert.Equal(t, "Defines a Pydantic model.", exp.Summary)
	require.Len(t, exp.Concepts, 3)

	require.NotNil(t, exp.Concepts[0].LearnMoreURL)
	assert.Equal(t, "https://docs.pydantic.dev/", *exp.Concepts[0].LearnMoreURL)
	assert.Nil(t, exp.Concepts[1].LearnMoreURL, "unknown concept gets null, never the model URL")
	require.NotNil(t, exp.Concepts[2].LearnMoreURL)
	assert.Equal(t, "https://docs.pydantic.dev/latest/concepts/models/", *exp.Concepts[2].LearnMoreURL)

	require.Len(t, exp.Risks, 1)
	assert.Equal(t, 3, exp.Risks[0].Line)
}

func TestInterpretProseWrapped(t *testing.T) {
	raw := "Sure! Here's the explanation:\n" + validDoc + "\nHope that helps!"
	exp, err := newInterpreter(t).Interpret(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Import BaseModel", "Declare fields"}, exp.Walkthrough)
}

func TestInterpretMarkdownFenceWithTrailingBrace(t *testing.T) {
	raw := "```json\n" + validDoc + "\n```\nNote: use {braces} carefully }"
	exp, err := newInterpreter(t).Interpret(raw)
	require.NoError(t, err)
	assert.Equal(t, "Defines a Pydantic model.", exp.Summary)
}

func TestInterpretBracesInsideStrings(t *testing.T) {
	raw := `Result: {"summary": "uses {dict} and \"}\" chars", "walkthrough": [], "concepts": [], "gotchas": [], "improvements": [], "questions_to_ask": []} trailing }`
	exp, err := newInterpreter(t).Interpret(raw)
	require.NoError(t, err)
	assert.Equal(t, `uses {dict} and "}" chars`, exp.Summary)
	assert.NotNil(t, exp.Risks)
	assert.Empty(t, exp.Risks)
}

func TestInterpretSkipsLeadingStrayBrace(t *testing.T) {
	raw := `Template {name} below: {"summary": "s", "walkthrough": [], "concepts": [], "gotchas": [], "improvements": [], "questions_to_ask": []}`
	exp, err := newInterpreter(t).Interpret(raw)
	require.NoError(t, err)
	assert.Equal(t, "s", exp.Summary)
}

func TestInterpretNoJSON(t *testing.T) {
	for _, raw := range []string{"", "I cannot help with that.", "}", "only closing } braces }"} {
		_, err := newInterpreter(t).Interpret(raw)
		assert.ErrorIs(t, err, ErrNoJSON, "input %q", raw)
	}
}

func TestInterpretMalformed(t *testing.T) {
	for _, raw := range []string{"{not valid json", "} {", `{"summary": "x",}`, `{"a": [1, 2}`} {
		_, err := newInterpreter(t).Interpret(raw)
		assert.ErrorIs(t, err, ErrMalformedJSON, "input %q", raw)
		assert.False(t, errors.Is(err, ErrNoJSON))
	}
}

func TestInterpretMissingSummary(t *testing.T) {
	raw := strings.Replace(validDoc, `"summary": "Defines a Pydantic model.",`, "", 1)
	_, err := newInterpreter(t).Interpret(raw)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "summary")
}

func TestInterpretSchemaViolations(t *testing.T) {
	base := func() map[string]any {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(validDoc), &m))
		return m
	}
	cases := map[string]func(m map[string]any){
		"null summary":        func(m map[string]any) { m["summary"] = nil },
		"walkthrough string":  func(m map[string]any) { m["walkthrough"] = "step" },
		"gotcha number":       func(m map[string]any) { m["gotchas"] = []any{1} },
		"concept not string":  func(m map[string]any) { m["concepts"] = []any{map[string]any{"concept": 7}} },
		"concept not object":  func(m map[string]any) { m["concepts"] = []any{"Pydantic"} },
		"risk line fraction":  func(m map[string]any) { m["risks"] = []any{map[string]any{"line": 1.5, "reason": "r"}} },
		"risk missing reason": func(m map[string]any) { m["risks"] = []any{map[string]any{"line": 1}} },
		"risks null":          func(m map[string]any) { m["risks"] = nil },
		"missing questions":   func(m map[string]any) { delete(m, "questions_to_ask") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := base()
			mutate(m)
			raw, err := json.Marshal(m)
			require.NoError(t, err)
			_, err = newInterpreter(t).Interpret(string(raw))
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestInterpretRisksDefaultAndIntegralFloat(t *testing.T) {
	raw := `{"summary": "s", "walkthrough": [], "concepts": [], "gotchas": [], "improvements": [], "questions_to_ask": [], "extra": true}`
	exp, err := newInterpreter(t).Interpret(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, len(exp.Risks))
	assert.NotNil(t, exp.Risks)

	raw = `{"summary": "s", "walkthrough": [], "concepts": [], "gotchas": [], "improvements": [], "questions_to_ask": [], "risks": [{"line": 12.0, "reason": "r"}]}`
	exp, err = newInterpreter(t).Interpret(raw)
	require.NoError(t, err)
	assert.Equal(t, 12, exp.Risks[0].Line)
}

func TestEnrichLeavesOtherEntriesAlone(t *testing.T) {
	doc := map[string]any{
		"concepts": []any{
			"plain string",
			map[string]any{"name": "no concept key", "learn_more_url": "https://kept.example"},
			map[string]any{"concept": "Pydantic", "learn_more_url": "http://attacker.example"},
		},
	}
	seed, err := conceptlinks.DefaultSeed()
	require.NoError(t, err)
	Enrich(doc, conceptlinks.NewTable(seed.URLs()))

	items := doc["concepts"].([]any)
	assert.Equal(t, "plain string", items[0])
	assert.Equal(t, "https://kept.example", items[1].(map[string]any)["learn_more_url"])
	assert.Equal(t, "https://docs.pydantic.dev/", items[2].(map[string]any)["learn_more_url"])
}

func TestEnrichWithoutConcepts(t *testing.T) {
	doc := map[string]any{"concepts": "not a list"}
	Enrich(doc, nil)
	assert.Equal(t, "not a list", doc["concepts"])
}

func TestBalancedEnd(t *testing.T) {
	s := `x{"a":{"b":"}"}}y`
	assert.Equal(t, len(s)-2, balancedEnd(s, 1))
	assert.Equal(t, -1, balancedEnd(`{"a":1`, 0))
	assert.Equal(t, -1, balancedEnd(`{"a":"\"}`, 0))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "no_json", Outcome(ErrNoJSON))
	_, err := Extract("{bad")
	assert.Equal(t, "malformed_json", Outcome(err))
	assert.Equal(t, "error", Outcome(errors.New("x")))
}
