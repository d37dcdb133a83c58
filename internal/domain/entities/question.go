package entities

// Question is a single multiple-choice prompt inside a chapter.
type Question struct {
	Prompt        string   `json:"question" yaml:"question"`             // text shown to the user
	Options       []string `json:"options" yaml:"options"`               // answer choices, at least two
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"` // must be one of Options
}

// IsCorrect reports whether option is the correct answer. Comparison is by exact value.
func (q Question) IsCorrect(option string) bool {
	return option == q.CorrectAnswer
}

// HasOption reports whether option is one of the question's choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
