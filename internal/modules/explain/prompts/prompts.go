package prompts

// Output contract for the explain prompt; field names match domain.Explanation.
const explanationSchema = `{
  "summary": "Brief explanation",
  "walkthrough": ["Step 1", "Step 2"],
  "concepts": [{"concept": "Name", "learn_more_url": "https://exact-working-url.com or null"}],
  "gotchas": ["What could go wrong and why"],
  "improvements": ["How to make it better"],
  "questions_to_ask": ["Questions for deeper understanding"],
  "risks": [{"line": 1, "reason": "Security/performance issue"}]
}`

func init() {
	RegisterSpec(Spec{
		Name:    PromptExplain,
		Version: 1,
		User: `
Explain this {{.Language}} code for a {{.Level}} developer. Return ONLY valid JSON:

` + explanationSchema + `

For learn_more_url:
- Use the curated URL database for verified links
- Set to null if concept not in database

Code:
` + "```" + `{{.Language}}
{{.Code}}
` + "```",
		Validators: []Validator{
			RequireNonEmpty("code", func(in Input) string { return in.Code }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptChat,
		Version: 1,
		User: `
You are helping a {{.Level}} developer understand this {{.Language}} code. Answer their question clearly and concisely.

When providing learning resources:
- Do NOT include any URLs or links
- Instead, give specific search terms like "search for 'Pydantic BaseModel tutorial'"
- Mention official documentation sites by name without linking
- Example: "Check the official Pydantic documentation for BaseModel details"

Format guidelines:
- Use **bold** for important terms
- Keep explanations appropriate for {{.Level}} level
- Be specific and practical
- Provide search guidance instead of direct links

Code context:
` + "```" + `{{.Language}}
{{.Code}}
` + "```" + `

Question: {{.Question}}

Answer:`,
		Validators: []Validator{
			RequireNonEmpty("code", func(in Input) string { return in.Code }),
			RequireNonEmpty("question", func(in Input) string { return in.Question }),
		},
	})
}

// BuildExplainPrompt renders the structured-explanation prompt. A nil or
// blank language renders as "unknown".
func BuildExplainPrompt(code, level string, language *string) (string, error) {
	return Build(PromptExplain, Input{Code: code, Level: level, Language: deref(language)})
}

func BuildChatPrompt(question, code, level string, language *string) (string, error) {
	return Build(PromptChat, Input{Code: code, Level: level, Language: deref(language), Question: question})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
