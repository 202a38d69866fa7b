package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Spec is the declaration format for a prompt. User is a Go template
// rendered against Input.
type Spec struct {
	Name       PromptName
	Version    int
	User       string
	Validators []Validator
}

type Template struct {
	Name     PromptName
	Version  int
	User     func(Input) (string, error)
	Validate Validator
}

// MakeTemplate compiles a Spec into a Template.
func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	userT, err := template.New(string(s.Name)).Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	t := Template{
		Name:    s.Name,
		Version: s.Version,
		User: func(in Input) (string, error) {
			var b bytes.Buffer
			if err := userT.Execute(&b, in.normalized()); err != nil {
				return "", err
			}
			return strings.TrimSpace(b.String()), nil
		},
	}
	if len(s.Validators) > 0 {
		t.Validate = func(in Input) error {
			for _, v := range s.Validators {
				if v == nil {
					continue
				}
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return t, nil
}

// RegisterSpec compiles and registers s, panicking on a bad template.
func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	Register(t)
}
