package explain

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelExpert       Level = "expert"
)

// OrDefault returns beginner for an empty level.
func (l Level) OrDefault() Level {
	if l == "" {
		return LevelBeginner
	}
	return l
}

type ExplainRequest struct {
	Code     string  `json:"code" binding:"required,min=1,max=50000"`
	Language *string `json:"language"`
	Level    Level   `json:"level" binding:"omitempty,oneof=beginner intermediate expert"`
}

type ChatRequest struct {
	Question string  `json:"question" binding:"required,min=1,max=1000"`
	Code     string  `json:"code" binding:"required,min=1,max=50000"`
	Language *string `json:"language"`
	Level    Level   `json:"level" binding:"omitempty,oneof=beginner intermediate expert"`
}

// ConceptRef is one key concept. LearnMoreURL is only ever set from the
// verified URL table and serializes as null when absent.
type ConceptRef struct {
	Concept      string  `json:"concept"`
	LearnMoreURL *string `json:"learn_more_url"`
}

type Risk struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Explanation struct {
	Summary        string       `json:"summary"`
	Walkthrough    []string     `json:"walkthrough"`
	Concepts       []ConceptRef `json:"concepts"`
	Gotchas        []string     `json:"gotchas"`
	Improvements   []string     `json:"improvements"`
	QuestionsToAsk []string     `json:"questions_to_ask"`
	Risks          []Risk       `json:"risks"`
}

type ChatAnswer struct {
	Answer string `json:"answer"`
}
