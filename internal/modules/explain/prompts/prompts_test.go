package prompts

import (
	"strings"
	"testing"
)

func TestExplainPromptUnknownLanguage(t *testing.T) {
	p, err := BuildExplainPrompt("print('hi')", "beginner", nil)
	if err != nil {
		t.Fatalf("BuildExplainPrompt: %v", err)
	}
	if !strings.Contains(p, "Explain this unknown code for a beginner developer.") {
		t.Fatalf("missing unknown language placeholder:\n%s", p)
	}
	if !strings.Contains(p, "```unknown\nprint('hi')\n```") {
		t.Fatalf("code not fenced verbatim:\n%s", p)
	}
}

func TestExplainPromptEmbedsSchemaAndCode(t *testing.T) {
	lang := "python"
	code := "def f(x):\n    return {\"k\": x}  # {{.Code}} stays literal"
	p, err := BuildExplainPrompt(code, "expert", &lang)
	if err != nil {
		t.Fatalf("BuildExplainPrompt: %v", err)
	}
	for _, want := range []string{
		"Return ONLY valid JSON",
		`"summary"`, `"walkthrough"`, `"concepts"`, `"learn_more_url"`,
		`"gotchas"`, `"improvements"`, `"questions_to_ask"`, `"risks"`,
		"for a expert developer",
		"```python\n" + code + "\n```",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBlankLanguageIsUnknown(t *testing.T) {
	blank := "  "
	p, err := BuildChatPrompt("why?", "x = 1", "intermediate", &blank)
	if err != nil {
		t.Fatalf("BuildChatPrompt: %v", err)
	}
	if !strings.Contains(p, "understand this unknown code") {
		t.Fatalf("blank language should render unknown:\n%s", p)
	}
}

func TestChatPrompt(t *testing.T) {
	lang := "go"
	p, err := BuildChatPrompt("What does defer do?", "defer f.Close()", "", &lang)
	if err != nil {
		t.Fatalf("BuildChatPrompt: %v", err)
	}
	if !strings.HasSuffix(p, "Question: What does defer do?\n\nAnswer:") {
		t.Fatalf("unexpected tail:\n%s", p)
	}
	for _, want := range []string{"Do NOT include any URLs or links", "**bold**", "a beginner developer", "```go\ndefer f.Close()\n```"} {
		if !strings.Contains(p, want) {
			t.Fatalf("chat prompt missing %q", want)
		}
	}
}

func TestBuildValidation(t *testing.T) {
	if _, err := BuildChatPrompt("", "x", "beginner", nil); err == nil {
		t.Fatalf("expected error for empty question")
	}
	if _, err := Build(PromptName("nope"), Input{}); err == nil {
		t.Fatalf("expected unknown prompt error")
	}
	if Version(PromptExplain) != 1 {
		t.Fatalf("unexpected version: %d", Version(PromptExplain))
	}
}

func TestWhitespaceCodePassesEmptyFails(t *testing.T) {
	if _, err := BuildExplainPrompt(" \t\n", "beginner", nil); err != nil {
		t.Fatalf("whitespace code should be accepted: %v", err)
	}
	if _, err := BuildChatPrompt(" ", "x", "beginner", nil); err != nil {
		t.Fatalf("whitespace question should be accepted: %v", err)
	}
	if _, err := BuildExplainPrompt("", "beginner", nil); err == nil {
		t.Fatalf("empty code should be rejected")
	}
}
