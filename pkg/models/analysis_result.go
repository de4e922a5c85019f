package models

// AnalysisResult is the normalized resume analysis. Every field is always
// present; scores are in [0, 100].
type AnalysisResult struct {
	Total       float64          `json:"total"`
	Breakdown   ScoreBreakdown   `json:"breakdown"`
	Explanation ScoreExplanation `json:"explanation"`
	Keywords    KeywordReport    `json:"keywords"`
	Suggestions []Suggestion     `json:"suggestions"`
}

type ScoreBreakdown struct {
	ATS      float64 `json:"ats"`
	Impact   float64 `json:"impact"`
	Keywords float64 `json:"keywords"`
	Clarity  float64 `json:"clarity"`
}

type ScoreExplanation struct {
	ATS      []string `json:"ats"`
	Impact   []string `json:"impact"`
	Keywords []string `json:"keywords"`
	Clarity  []string `json:"clarity"`
}

type KeywordReport struct {
	Present    []string `json:"present"`
	Missing    []string `json:"missing"`
	Irrelevant []string `json:"irrelevant"`
}

// Suggestion is a single actionable improvement to a resume.
type Suggestion struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	SectionTarget string `json:"section_target"`
	Description   string `json:"description"`
	ProposedFix   string `json:"proposed_fix"`
}

var (
	SuggestionTypes    = []string{"impact", "ats", "clarity", "formatting", "tone", "general"}
	SuggestionSeverity = []string{"high", "medium", "low"}
	SectionTargets     = []string{"summary", "experience", "projects", "education", "skills", "general"}
)

// EmptyAnalysisResult returns a zeroed result with every list non-nil.
func EmptyAnalysisResult() AnalysisResult {
	return AnalysisResult{
		Explanation: ScoreExplanation{
			ATS:      []string{},
			Impact:   []string{},
			Keywords: []string{},
			Clarity:  []string{},
		},
		Keywords: KeywordReport{
			Present:    []string{},
			Missing:    []string{},
			Irrelevant: []string{},
		},
		Suggestions: []Suggestion{},
	}
}
