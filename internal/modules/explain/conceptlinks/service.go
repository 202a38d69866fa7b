package conceptlinks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/code-explainer-backend/internal/data/repos/concepts"
	types "github.com/yungbote/code-explainer-backend/internal/domain"
	"github.com/yungbote/code-explainer-backend/internal/observability"
	"github.com/yungbote/code-explainer-backend/internal/pkg/dbctx"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
	"github.com/yungbote/code-explainer-backend/internal/platform/redisbus"
)

var (
	ErrInvalidConcept = errors.New("concept is required")
	ErrInvalidURL     = errors.New("url must be an absolute http(s) URL")
)

// Entry is one row of the public concept listing.
type Entry struct {
	Concept string `json:"concept"`
	URL     string `json:"url"`
}

// Service owns the process-wide table and keeps it in step with the
// database and other replicas. repo and bus are optional.
type Service struct {
	log    *logger.Logger
	table  *Table
	seed   *Seed
	repo   concepts.ConceptURLRepo
	bus    redisbus.Bus
	origin string
}

func NewService(log *logger.Logger, seed *Seed, repo concepts.ConceptURLRepo, bus redisbus.Bus) *Service {
	if seed == nil {
		seed = &Seed{}
	}
	return &Service{
		log:    log.With("service", "ConceptLinkService"),
		table:  NewTable(seed.URLs()),
		seed:   seed,
		repo:   repo,
		bus:    bus,
		origin: uuid.NewString(),
	}
}

func (s *Service) Table() *Table { return s.table }

func (s *Service) Lookup(concept string) (string, bool) { return s.table.Lookup(concept) }

func (s *Service) List() []Entry {
	snap := s.table.Snapshot()
	keys := s.table.Concepts()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		if u, ok := snap[k]; ok {
			out = append(out, Entry{Concept: k, URL: u})
		}
	}
	return out
}

// Load overlays persisted rows on the seed and swaps the table.
func (s *Service) Load(ctx context.Context) error {
	merged := s.seed.URLs()
	if s.repo != nil {
		rows, err := s.repo.List(dbctx.New(ctx))
		if err != nil {
			return fmt.Errorf("load concept urls: %w", err)
		}
		for _, r := range rows {
			if r == nil || Key(r.Concept) == "" {
				continue
			}
			merged[Key(r.Concept)] = r.URL
		}
		s.log.Info("concept table loaded", "seeded", len(s.seed.Entries), "persisted", len(rows), "total", len(merged))
	}
	s.table.Replace(merged)
	observability.Current().SetTableSize(s.table.Len())
	return nil
}

// Upsert persists, applies locally, then tells other replicas.
func (s *Service) Upsert(ctx context.Context, concept, rawURL, updatedBy string) (Entry, error) {
	key := Key(concept)
	if key == "" {
		return Entry{}, ErrInvalidConcept
	}
	link, err := normalizeURL(rawURL)
	if err != nil {
		return Entry{}, err
	}

	if s.repo != nil {
		row := &types.ConceptURL{
			Concept:    key,
			URL:        link,
			Candidates: datatypes.JSONSlice[string](s.seed.Candidates(key)),
			UpdatedBy:  updatedBy,
		}
		if err := s.repo.Upsert(dbctx.New(ctx), row); err != nil {
			return Entry{}, fmt.Errorf("persist concept url: %w", err)
		}
	}
	s.table.Upsert(key, link)
	observability.Current().ObserveTableUpdate("local", s.table.Len())

	if s.bus != nil {
		u := redisbus.ConceptUpdate{Concept: key, URL: link, Origin: s.origin, At: time.Now().UTC()}
		if err := s.bus.Publish(ctx, u); err != nil {
			// local and persisted state are already updated; peers catch up on restart
			s.log.Warn("concept update publish failed", "concept", key, "error", err)
		}
	}
	s.log.Info("concept url upserted", "concept", key, "url", link, "updated_by", updatedBy)
	return Entry{Concept: key, URL: link}, nil
}

// Follow applies updates published by other replicas until ctx ends.
func (s *Service) Follow(ctx context.Context) error {
	if s.bus == nil {
		return nil
	}
	return s.bus.StartForwarder(ctx, s.apply)
}

func (s *Service) apply(u redisbus.ConceptUpdate) {
	if u.Origin == s.origin {
		return
	}
	link, err := normalizeURL(u.URL)
	if err != nil || Key(u.Concept) == "" {
		s.log.Warn("ignoring invalid concept update", "concept", u.Concept, "origin", u.Origin)
		return
	}
	s.table.Upsert(u.Concept, link)
	observability.Current().ObserveTableUpdate("peer", s.table.Len())
	s.log.Debug("applied peer concept update", "concept", Key(u.Concept), "origin", u.Origin)
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}
	return raw, nil
}
