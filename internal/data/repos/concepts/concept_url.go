package concepts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/code-explainer-backend/internal/domain"
	"github.com/yungbote/code-explainer-backend/internal/pkg/dbctx"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

type ConceptURLRepo interface {
	List(dbc dbctx.Context) ([]*types.ConceptURL, error)
	Get(dbc dbctx.Context, concept string) (*types.ConceptURL, error)
	Upsert(dbc dbctx.Context, row *types.ConceptURL) error
}

type conceptURLRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptURLRepo(db *gorm.DB, log *logger.Logger) ConceptURLRepo {
	return &conceptURLRepo{
		db:  db,
		log: log.With("repo", "ConceptURLRepo"),
	}
}

func (r *conceptURLRepo) List(dbc dbctx.Context) ([]*types.ConceptURL, error) {
	var out []*types.ConceptURL
	if err := dbc.DB(r.db).Order("concept ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns nil, nil when the concept is not stored.
func (r *conceptURLRepo) Get(dbc dbctx.Context, concept string) (*types.ConceptURL, error) {
	key := strings.ToLower(strings.TrimSpace(concept))
	if key == "" {
		return nil, fmt.Errorf("missing concept")
	}
	var row types.ConceptURL
	err := dbc.DB(r.db).Where("concept = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *conceptURLRepo) Upsert(dbc dbctx.Context, row *types.ConceptURL) error {
	if row == nil {
		return nil
	}
	row.Concept = strings.ToLower(strings.TrimSpace(row.Concept))
	if row.Concept == "" {
		return fmt.Errorf("missing concept")
	}
	if strings.TrimSpace(row.URL) == "" {
		return fmt.Errorf("missing url for %q", row.Concept)
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "concept"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "candidates", "updated_by", "updated_at"}),
	}).Create(row).Error
}
