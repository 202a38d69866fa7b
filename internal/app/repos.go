package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/code-explainer-backend/internal/data/repos/concepts"
	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

type Repos struct {
	// ConceptURL is nil when no database is configured.
	ConceptURL concepts.ConceptURLRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	if db == nil {
		log.Info("No database configured; concept table is seed-only")
		return Repos{}
	}
	log.Info("Wiring repos...")
	return Repos{
		ConceptURL: concepts.NewConceptURLRepo(db, log),
	}
}
