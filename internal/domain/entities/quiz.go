package entities

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Screen is the screen a session currently shows. It is derived from the
// session fields, never stored.
type Screen string

const (
	ScreenNoContent     Screen = "no_content"     // the content source has no chapters
	ScreenHome          Screen = "home"           // chapter list
	ScreenQuestion      Screen = "question"       // question in progress
	ScreenChapterResult Screen = "chapter_result" // end of a chapter attempt
	ScreenRunSummary    Screen = "run_summary"    // results of every attempted chapter
)

// NoChapter is the chapter index of the home screen.
const NoChapter = -1

var (
	ErrNoContent         = errors.New("no quiz content available")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrOptionNotFound    = errors.New("option not found")
	ErrChapterLocked     = errors.New("chapter is locked")
	ErrAlreadyAnswered   = errors.New("question already answered")
	ErrNoAnswerSelected  = errors.New("no answer selected")
	ErrChapterPassed     = errors.New("chapter already passed")
	ErrChapterNotPassed  = errors.New("chapter not passed")
	ErrInvalidTransition = errors.New("action not available on this screen")
)

// SessionOptions configures a new QuizSession.
type SessionOptions struct {
	Policy        PassPolicy // pass threshold rule
	QuestionLimit int        // max questions per chapter attempt, 0 means all
	Random        Randomizer // nil means a time-seeded source
}

// QuizSession is the quiz state machine for a single user. It is not safe for
// concurrent use: the owner serializes events.
type QuizSession struct {
	content *Content
	policy  PassPolicy
	limit   int
	rnd     Randomizer

	chapter   int        // NoChapter on the home screen
	question  int        // index into questions
	questions []Question // shuffled working copy of the current chapter
	options   []string   // shuffled options of the current question

	selected string
	answered bool
	score    int

	showResults bool
	inSummary   bool

	unlocked map[int]bool
	results  map[int][]bool

	StartedAt time.Time
}

// NewQuizSession creates a session on the home screen with chapter 0 unlocked.
func NewQuizSession(content *Content, opts SessionOptions) *QuizSession {
	rnd := opts.Random
	if rnd == nil {
		rnd = NewRandomizer()
	}

	return &QuizSession{
		content:   content,
		policy:    opts.Policy,
		limit:     max(opts.QuestionLimit, 0),
		rnd:       rnd,
		chapter:   NoChapter,
		unlocked:  map[int]bool{0: true},
		results:   make(map[int][]bool),
		StartedAt: time.Now(),
	}
}

// Screen returns the current screen.
func (s *QuizSession) Screen() Screen {
	switch {
	case s.content.Empty():
		return ScreenNoContent
	case s.inSummary:
		return ScreenRunSummary
	case s.chapter == NoChapter:
		return ScreenHome
	case s.showResults:
		return ScreenChapterResult
	default:
		return ScreenQuestion
	}
}

// SelectChapter starts a fresh attempt of chapter i from the home screen.
func (s *QuizSession) SelectChapter(i int) error {
	if err := s.expect(ScreenHome); err != nil {
		return err
	}
	if i < 0 || i >= len(s.content.Chapters) {
		return fmt.Errorf("%w: %d", ErrChapterNotFound, i)
	}
	if !s.unlocked[i] {
		return ErrChapterLocked
	}

	s.startChapter(i)
	return nil
}

// SelectAnswer records the answer to the current question. Only the first
// answer per question counts.
func (s *QuizSession) SelectAnswer(option string) error {
	if err := s.expect(ScreenQuestion); err != nil {
		return err
	}
	if s.answered {
		return ErrAlreadyAnswered
	}

	q := s.questions[s.question]
	if !q.HasOption(option) {
		return fmt.Errorf("%w: %q", ErrOptionNotFound, option)
	}

	correct := q.IsCorrect(option)
	if correct {
		s.score++
	}
	s.results[s.chapter] = append(s.results[s.chapter], correct)
	s.selected = option
	s.answered = true

	return nil
}

// SelectOption answers with the option at index i of the shuffled options.
func (s *QuizSession) SelectOption(i int) error {
	if err := s.expect(ScreenQuestion); err != nil {
		return err
	}
	if i < 0 || i >= len(s.options) {
		return fmt.Errorf("%w: index %d", ErrOptionNotFound, i)
	}
	return s.SelectAnswer(s.options[i])
}

// Advance moves to the next question or, after the last one, to the chapter
// result. A passing score unlocks the next chapter.
func (s *QuizSession) Advance() error {
	if err := s.expect(ScreenQuestion); err != nil {
		return err
	}
	if !s.answered {
		return ErrNoAnswerSelected
	}

	if s.question < len(s.questions)-1 {
		s.question++
		s.clearSelection()
		s.shuffleOptions()
		return nil
	}

	s.showResults = true
	if s.Passed() && s.HasNextChapter() {
		s.unlocked[s.chapter+1] = true
	}

	return nil
}

// Retry restarts a failed chapter.
func (s *QuizSession) Retry() error {
	if err := s.expect(ScreenChapterResult); err != nil {
		return err
	}
	if s.Passed() {
		return ErrChapterPassed
	}

	s.startChapter(s.chapter)
	return nil
}

// Proceed enters the next chapter after a pass, or shows the run summary
// after the last chapter.
func (s *QuizSession) Proceed() error {
	if err := s.expect(ScreenChapterResult); err != nil {
		return err
	}
	if !s.Passed() {
		return ErrChapterNotPassed
	}

	if !s.HasNextChapter() {
		s.showResults = false
		s.chapter = NoChapter
		s.inSummary = true
		return nil
	}

	s.startChapter(s.chapter + 1)
	return nil
}

// BackToHome returns to the chapter list from a result or summary screen.
// Unlocked chapters and result history are kept.
func (s *QuizSession) BackToHome() error {
	switch s.Screen() {
	case ScreenHome:
		return nil
	case ScreenChapterResult, ScreenRunSummary:
		s.chapter = NoChapter
		s.question = 0
		s.questions = nil
		s.options = nil
		s.clearSelection()
		s.score = 0
		s.showResults = false
		s.inSummary = false
		return nil
	case ScreenNoContent:
		return ErrNoContent
	default:
		return ErrInvalidTransition
	}
}

// ShowSummary opens the run summary from the home screen.
func (s *QuizSession) ShowSummary() error {
	if s.Screen() == ScreenRunSummary {
		return nil
	}
	if err := s.expect(ScreenHome); err != nil {
		return err
	}

	s.inSummary = true
	return nil
}

// ChapterCount returns the number of chapters in the content.
func (s *QuizSession) ChapterCount() int {
	if s.content.Empty() {
		return 0
	}
	return len(s.content.Chapters)
}

// Chapter returns chapter i of the content.
func (s *QuizSession) Chapter(i int) (Chapter, error) {
	if i < 0 || i >= s.ChapterCount() {
		return Chapter{}, fmt.Errorf("%w: %d", ErrChapterNotFound, i)
	}
	return s.content.Chapters[i], nil
}

// CurrentChapter returns the index of the chapter in progress, or NoChapter.
func (s *QuizSession) CurrentChapter() int { return s.chapter }

// CurrentQuestionIndex returns the zero-based position in the working copy.
func (s *QuizSession) CurrentQuestionIndex() int { return s.question }

// QuestionCount returns the number of questions in the current attempt.
func (s *QuizSession) QuestionCount() int { return len(s.questions) }

// AttemptSize returns how many questions an attempt of chapter i asks, taking
// the question limit into account.
func (s *QuizSession) AttemptSize(i int) int {
	if i < 0 || i >= s.ChapterCount() {
		return 0
	}
	n := len(s.content.Chapters[i].Questions)
	if s.limit > 0 {
		return min(s.limit, n)
	}
	return n
}

// CurrentQuestion returns the question on screen and its shuffled options.
func (s *QuizSession) CurrentQuestion() (Question, []string, bool) {
	if s.Screen() != ScreenQuestion {
		return Question{}, nil, false
	}
	return s.questions[s.question], slices.Clone(s.options), true
}

// Selected returns the selected answer of the current question.
func (s *QuizSession) Selected() (string, bool) { return s.selected, s.answered }

// Score returns the correct answers of the current attempt.
func (s *QuizSession) Score() int { return s.score }

// Required returns the passing score of the current attempt.
func (s *QuizSession) Required() int { return s.policy.Required(len(s.questions)) }

// Passed reports whether the current attempt meets the pass threshold.
func (s *QuizSession) Passed() bool { return s.policy.Passed(s.score, len(s.questions)) }

// HasNextChapter reports whether a chapter follows the current one.
func (s *QuizSession) HasNextChapter() bool {
	return s.chapter != NoChapter && s.chapter < s.ChapterCount()-1
}

// IsUnlocked reports whether chapter i may be entered.
func (s *QuizSession) IsUnlocked(i int) bool { return s.unlocked[i] }

// UnlockedChapters returns the unlocked chapter indices in order.
func (s *QuizSession) UnlockedChapters() []int {
	out := make([]int, 0, len(s.unlocked))
	for i := range s.unlocked {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// ChapterResults returns the per-question correctness history of chapter i.
func (s *QuizSession) ChapterResults(i int) []bool {
	return slices.Clone(s.results[i])
}

// AttemptedChapters returns, in order, the chapters that have any recorded answer.
func (s *QuizSession) AttemptedChapters() []int {
	out := make([]int, 0, len(s.results))
	for i, r := range s.results {
		if len(r) > 0 {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

func (s *QuizSession) expect(screen Screen) error {
	current := s.Screen()
	if current == ScreenNoContent {
		return ErrNoContent
	}
	if current != screen {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, current)
	}
	return nil
}

func (s *QuizSession) startChapter(i int) {
	questions := Shuffled(s.rnd, s.content.Chapters[i].Questions)
	if s.limit > 0 && s.limit < len(questions) {
		questions = questions[:s.limit]
	}

	s.chapter = i
	s.questions = questions
	s.question = 0
	s.score = 0
	s.showResults = false
	s.inSummary = false
	delete(s.results, i)
	s.clearSelection()
	s.shuffleOptions()
}

func (s *QuizSession) shuffleOptions() {
	s.options = Shuffled(s.rnd, s.questions[s.question].Options)
}

func (s *QuizSession) clearSelection() {
	s.selected = ""
	s.answered = false
}
