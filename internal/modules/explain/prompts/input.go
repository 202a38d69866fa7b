package prompts

import (
	"errors"
	"strings"
)

const unknownLanguage = "unknown"

// Input carries every field any prompt may reference.
type Input struct {
	Code     string
	Level    string
	Language string
	Question string
}

// normalized fills the language placeholder and default level. Code and
// Question pass through verbatim.
func (in Input) normalized() Input {
	if strings.TrimSpace(in.Language) == "" {
		in.Language = unknownLanguage
	}
	if strings.TrimSpace(in.Level) == "" {
		in.Level = "beginner"
	}
	return in
}

type Validator func(Input) error

// RequireNonEmpty rejects a missing field. Whitespace is content and passes
// through verbatim.
func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if get(in) == "" {
			return errors.New(field + " required")
		}
		return nil
	}
}
