package service

import "github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"

// View is everything a presentation layer needs to draw the current screen.
// Exactly one of the screen payloads is set, matching Screen; the no-content
// screen has none.
type View struct {
	Screen   entities.Screen `json:"screen"`
	Home     *HomeView       `json:"home,omitempty"`
	Question *QuestionView   `json:"question,omitempty"`
	Result   *ResultView     `json:"result,omitempty"`
	Summary  *SummaryView    `json:"summary,omitempty"`
}

// ChapterItem is one row of the chapter list.
type ChapterItem struct {
	Index     int    `json:"index"`
	Topic     string `json:"topic"`
	Questions int    `json:"questions"` // per attempt, after the question limit
	Unlocked  bool   `json:"unlocked"`
	Answered  int    `json:"answered"` // answers recorded in the latest attempt
	Correct   int    `json:"correct"`
}

type HomeView struct {
	Chapters []ChapterItem `json:"chapters"`
}

type QuestionView struct {
	ChapterIndex  int      `json:"chapter_index"`
	Topic         string   `json:"topic"`
	Number        int      `json:"number"` // 1-based position in the attempt
	Total         int      `json:"total"`
	Score         int      `json:"score"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	Answered      bool     `json:"answered"`
	Selected      string   `json:"selected,omitempty"`
	IsCorrect     bool     `json:"is_correct,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"` // revealed once answered
}

type ResultView struct {
	ChapterIndex int    `json:"chapter_index"`
	Topic        string `json:"topic"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	Required     int    `json:"required"`
	Passed       bool   `json:"passed"`
	HasNext      bool   `json:"has_next"`
}

type ChapterSummary struct {
	Index   int    `json:"index"`
	Topic   string `json:"topic"`
	Results []bool `json:"results"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

type SummaryView struct {
	Chapters []ChapterSummary `json:"chapters"`
	Correct  int              `json:"correct"`
	Total    int              `json:"total"`
}

// BuildView renders the session's current screen.
func BuildView(s *entities.QuizSession) View {
	v := View{Screen: s.Screen()}

	switch v.Screen {
	case entities.ScreenHome:
		v.Home = buildHome(s)
	case entities.ScreenQuestion:
		v.Question = buildQuestion(s)
	case entities.ScreenChapterResult:
		v.Result = buildResult(s)
	case entities.ScreenRunSummary:
		v.Summary = buildSummary(s)
	}

	return v
}

func buildHome(s *entities.QuizSession) *HomeView {
	home := &HomeView{Chapters: make([]ChapterItem, 0, s.ChapterCount())}

	for i := range s.ChapterCount() {
		ch, _ := s.Chapter(i)
		results := s.ChapterResults(i)

		home.Chapters = append(home.Chapters, ChapterItem{
			Index:     i,
			Topic:     ch.Label(),
			Questions: s.AttemptSize(i),
			Unlocked:  s.IsUnlocked(i),
			Answered:  len(results),
			Correct:   countCorrect(results),
		})
	}

	return home
}

func buildQuestion(s *entities.QuizSession) *QuestionView {
	q, options, _ := s.CurrentQuestion()
	ch, _ := s.Chapter(s.CurrentChapter())
	selected, answered := s.Selected()

	v := &QuestionView{
		ChapterIndex: s.CurrentChapter(),
		Topic:        ch.Label(),
		Number:       s.CurrentQuestionIndex() + 1,
		Total:        s.QuestionCount(),
		Score:        s.Score(),
		Prompt:       q.Prompt,
		Options:      options,
		Answered:     answered,
	}
	if answered {
		v.Selected = selected
		v.IsCorrect = q.IsCorrect(selected)
		v.CorrectAnswer = q.CorrectAnswer
	}

	return v
}

func buildResult(s *entities.QuizSession) *ResultView {
	ch, _ := s.Chapter(s.CurrentChapter())

	return &ResultView{
		ChapterIndex: s.CurrentChapter(),
		Topic:        ch.Label(),
		Score:        s.Score(),
		Total:        s.QuestionCount(),
		Required:     s.Required(),
		Passed:       s.Passed(),
		HasNext:      s.HasNextChapter(),
	}
}

func buildSummary(s *entities.QuizSession) *SummaryView {
	attempted := s.AttemptedChapters()
	summary := &SummaryView{Chapters: make([]ChapterSummary, 0, len(attempted))}

	for _, i := range attempted {
		ch, _ := s.Chapter(i)
		results := s.ChapterResults(i)
		correct := countCorrect(results)

		summary.Chapters = append(summary.Chapters, ChapterSummary{
			Index:   i,
			Topic:   ch.Label(),
			Results: results,
			Correct: correct,
			Total:   len(results),
		})
		summary.Correct += correct
		summary.Total += len(results)
	}

	return summary
}

func countCorrect(results []bool) int {
	n := 0
	for _, ok := range results {
		if ok {
			n++
		}
	}
	return n
}
