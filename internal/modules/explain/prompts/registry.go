package prompts

import (
	"fmt"
	"sync"
)

type PromptName string

const (
	PromptExplain PromptName = "explain"
	PromptChat    PromptName = "chat"
)

var (
	registryMu sync.RWMutex
	registry   = map[PromptName]Template{}
)

func Register(t Template) {
	registryMu.Lock()
	registry[t.Name] = t
	registryMu.Unlock()
}

// Build renders the named prompt for in.
func Build(name PromptName, in Input) (string, error) {
	registryMu.RLock()
	t, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return "", fmt.Errorf("%s: %w", string(name), err)
		}
	}
	out, err := t.User(in)
	if err != nil {
		return "", fmt.Errorf("%s render: %w", string(name), err)
	}
	return out, nil
}

// Version returns the registered version of name, or 0.
func Version(name PromptName) int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name].Version
}
