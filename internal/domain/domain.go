package domain

import (
	"github.com/yungbote/code-explainer-backend/internal/domain/concepts"
	"github.com/yungbote/code-explainer-backend/internal/domain/explain"
)

type Level = explain.Level

const (
	LevelBeginner     = explain.LevelBeginner
	LevelIntermediate = explain.LevelIntermediate
	LevelExpert       = explain.LevelExpert
)

type ExplainRequest = explain.ExplainRequest
type ChatRequest = explain.ChatRequest
type Explanation = explain.Explanation
type ConceptRef = explain.ConceptRef
type Risk = explain.Risk
type ChatAnswer = explain.ChatAnswer

type ConceptURL = concepts.ConceptURL

// AutoMigrateModels lists every persisted model.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&ConceptURL{},
	}
}
