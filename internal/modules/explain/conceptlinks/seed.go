package conceptlinks

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

// SeedPathEnv points at a YAML file that replaces the embedded seed.
const SeedPathEnv = "CONCEPT_SEED_YAML"

//go:embed seed.yaml
var embeddedSeed []byte

type seedFile struct {
	Version int         `yaml:"version"`
	Groups  []seedGroup `yaml:"groups"`
}

type seedGroup struct {
	Name     string      `yaml:"name"`
	Concepts []SeedEntry `yaml:"concepts"`
}

type SeedEntry struct {
	Concept    string   `yaml:"concept"`
	URL        string   `yaml:"url"`
	Candidates []string `yaml:"candidates"`
	Group      string   `yaml:"-"`
}

// Seed is the parsed curated link set.
type Seed struct {
	Version int
	Entries []SeedEntry
}

// URLs returns concept → url.
func (s *Seed) URLs() map[string]string {
	out := make(map[string]string, len(s.Entries))
	for _, e := range s.Entries {
		out[Key(e.Concept)] = e.URL
	}
	return out
}

// Candidates returns the url followed by any alternates, deduplicated.
func (s *Seed) Candidates(concept string) []string {
	key := Key(concept)
	for _, e := range s.Entries {
		if Key(e.Concept) != key {
			continue
		}
		return dedupe(append([]string{e.URL}, e.Candidates...))
	}
	return nil
}

func ParseSeed(data []byte) (*Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse concept seed: %w", err)
	}
	seen := map[string]bool{}
	out := &Seed{Version: f.Version}
	for _, g := range f.Groups {
		for _, e := range g.Concepts {
			key := Key(e.Concept)
			if key == "" {
				return nil, fmt.Errorf("concept seed group %q: entry without concept", g.Name)
			}
			if strings.TrimSpace(e.URL) == "" {
				return nil, fmt.Errorf("concept seed: %q has no url", key)
			}
			if seen[key] {
				return nil, fmt.Errorf("concept seed: duplicate concept %q", key)
			}
			seen[key] = true
			e.Concept = key
			e.Group = g.Name
			out.Entries = append(out.Entries, e)
		}
	}
	return out, nil
}

// DefaultSeed parses the embedded seed file.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(embeddedSeed)
}

// LoadSeed reads CONCEPT_SEED_YAML when set, else the embedded seed.
func LoadSeed(log *logger.Logger) (*Seed, error) {
	path := strings.TrimSpace(os.Getenv(SeedPathEnv))
	if path == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SeedPathEnv, err)
	}
	if log != nil {
		log.Info("loading concept seed override", "path", path)
	}
	return ParseSeed(data)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
