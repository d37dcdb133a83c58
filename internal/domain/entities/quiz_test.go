package entities

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"
)

func testContent(chapterSizes ...int) *Content {
	c := &Content{}
	for ci, n := range chapterSizes {
		ch := Chapter{Topic: fmt.Sprintf("chapter-%d", ci)}
		for qi := range n {
			right := fmt.Sprintf("right-%d-%d", ci, qi)
			ch.Questions = append(ch.Questions, Question{
				Prompt:        fmt.Sprintf("prompt-%d-%d", ci, qi),
				Options:       []string{right, "wrong-a", "wrong-b", "wrong-c"},
				CorrectAnswer: right,
			})
		}
		c.Chapters = append(c.Chapters, ch)
	}
	return c
}

func newTestSession(t *testing.T, c *Content) *QuizSession {
	t.Helper()
	return NewQuizSession(c, SessionOptions{Policy: FixedPassPolicy(LegacyPassScore), Random: keepOrder{}})
}

// answerChapter answers every question of the current attempt, the first
// `correct` of them correctly, and advances after each.
func answerChapter(t *testing.T, s *QuizSession, correct int) {
	t.Helper()
	for i := 0; s.Screen() == ScreenQuestion; i++ {
		q, _, _ := s.CurrentQuestion()
		answer := "wrong-a"
		if i < correct {
			answer = q.CorrectAnswer
		}
		if err := s.SelectAnswer(answer); err != nil {
			t.Fatalf("SelectAnswer(%q): %v", answer, err)
		}
		if err := s.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
}

func TestNewSessionStartsHomeWithFirstChapterUnlocked(t *testing.T) {
	s := newTestSession(t, testContent(3, 3))

	if s.Screen() != ScreenHome {
		t.Fatalf("screen: want=%s got=%s", ScreenHome, s.Screen())
	}
	if !slices.Equal(s.UnlockedChapters(), []int{0}) {
		t.Fatalf("unlocked: want=[0] got=%v", s.UnlockedChapters())
	}
	if s.CurrentChapter() != NoChapter {
		t.Fatalf("current chapter: want=%d got=%d", NoChapter, s.CurrentChapter())
	}
}

func TestEmptyContentShowsNoContent(t *testing.T) {
	for _, c := range []*Content{nil, {}} {
		s := newTestSession(t, c)
		if s.Screen() != ScreenNoContent {
			t.Fatalf("screen: want=%s got=%s", ScreenNoContent, s.Screen())
		}
		if err := s.SelectChapter(0); !errors.Is(err, ErrNoContent) {
			t.Fatalf("SelectChapter: want ErrNoContent, got %v", err)
		}
		if err := s.BackToHome(); !errors.Is(err, ErrNoContent) {
			t.Fatalf("BackToHome: want ErrNoContent, got %v", err)
		}
	}
}

func TestSelectChapter(t *testing.T) {
	s := newTestSession(t, testContent(3, 3))

	if err := s.SelectChapter(1); !errors.Is(err, ErrChapterLocked) {
		t.Fatalf("locked chapter: want ErrChapterLocked, got %v", err)
	}
	if err := s.SelectChapter(5); !errors.Is(err, ErrChapterNotFound) {
		t.Fatalf("out of range: want ErrChapterNotFound, got %v", err)
	}
	if err := s.SelectChapter(-1); !errors.Is(err, ErrChapterNotFound) {
		t.Fatalf("negative: want ErrChapterNotFound, got %v", err)
	}
	if s.Screen() != ScreenHome {
		t.Fatalf("rejected selections must not leave home, got %s", s.Screen())
	}

	if err := s.SelectChapter(0); err != nil {
		t.Fatalf("SelectChapter(0): %v", err)
	}
	if s.Screen() != ScreenQuestion {
		t.Fatalf("screen: want=%s got=%s", ScreenQuestion, s.Screen())
	}
	if s.CurrentQuestionIndex() != 0 || s.Score() != 0 {
		t.Fatalf("fresh attempt expected, got question=%d score=%d", s.CurrentQuestionIndex(), s.Score())
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("fresh attempt must have no selection")
	}
	if err := s.SelectChapter(0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("SelectChapter mid question: want ErrInvalidTransition, got %v", err)
	}
}

func TestSelectAnswerScoring(t *testing.T) {
	s := newTestSession(t, testContent(3))
	_ = s.SelectChapter(0)

	q, _, _ := s.CurrentQuestion()
	if err := s.SelectAnswer(q.CorrectAnswer); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if s.Score() != 1 {
		t.Fatalf("score: want=1 got=%d", s.Score())
	}
	if got := s.ChapterResults(0); !slices.Equal(got, []bool{true}) {
		t.Fatalf("results: want=[true] got=%v", got)
	}

	_ = s.Advance()
	if err := s.SelectAnswer("wrong-b"); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if s.Score() != 1 {
		t.Fatalf("wrong answer changed score to %d", s.Score())
	}
	if got := s.ChapterResults(0); !slices.Equal(got, []bool{true, false}) {
		t.Fatalf("results: want=[true false] got=%v", got)
	}
	if sel, ok := s.Selected(); !ok || sel != "wrong-b" {
		t.Fatalf("selected: want=wrong-b got=%q (%v)", sel, ok)
	}
}

func TestSelectAnswerTwiceHasNoEffect(t *testing.T) {
	s := newTestSession(t, testContent(3))
	_ = s.SelectChapter(0)

	q, _, _ := s.CurrentQuestion()
	if err := s.SelectAnswer("wrong-a"); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if err := s.SelectAnswer(q.CorrectAnswer); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second answer: want ErrAlreadyAnswered, got %v", err)
	}
	if s.Score() != 0 {
		t.Fatalf("score: want=0 got=%d", s.Score())
	}
	if got := s.ChapterResults(0); !slices.Equal(got, []bool{false}) {
		t.Fatalf("results: want=[false] got=%v", got)
	}
	if sel, _ := s.Selected(); sel != "wrong-a" {
		t.Fatalf("selection changed to %q", sel)
	}
}

func TestSelectAnswerRejectsUnknownOption(t *testing.T) {
	s := newTestSession(t, testContent(3))
	_ = s.SelectChapter(0)

	if err := s.SelectAnswer("not an option"); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("want ErrOptionNotFound, got %v", err)
	}
	if err := s.SelectOption(4); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("SelectOption(4): want ErrOptionNotFound, got %v", err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("rejected answers must not select")
	}
	if err := s.SelectOption(0); err != nil {
		t.Fatalf("SelectOption(0): %v", err)
	}
	if s.Score() != 1 {
		t.Fatalf("option 0 keeps the correct answer first with keepOrder, score=%d", s.Score())
	}
}

func TestAdvanceRequiresSelection(t *testing.T) {
	s := newTestSession(t, testContent(3))
	_ = s.SelectChapter(0)

	if err := s.Advance(); !errors.Is(err, ErrNoAnswerSelected) {
		t.Fatalf("want ErrNoAnswerSelected, got %v", err)
	}
	if s.CurrentQuestionIndex() != 0 {
		t.Fatalf("question moved to %d", s.CurrentQuestionIndex())
	}
}

func TestAdvanceClearsSelectionAndReshufflesOptions(t *testing.T) {
	r := &recordingRand{pick: func(n int) int { return n - 1 }}
	s := NewQuizSession(testContent(3), SessionOptions{Policy: DefaultPassPolicy(), Random: r})
	_ = s.SelectChapter(0)

	// Question order (3 items) then options (4 items).
	if !slices.Equal(r.bounds, []int{3, 2, 4, 3, 2}) {
		t.Fatalf("draws after SelectChapter: %v", r.bounds)
	}

	_ = s.SelectAnswer("wrong-a")
	if len(r.bounds) != 5 {
		t.Fatalf("answering must not reshuffle, draws=%v", r.bounds)
	}

	_ = s.Advance()
	if len(r.bounds) != 8 {
		t.Fatalf("advancing must shuffle the next options once, draws=%v", r.bounds)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("selection not cleared")
	}
	if s.CurrentQuestionIndex() != 1 {
		t.Fatalf("question: want=1 got=%d", s.CurrentQuestionIndex())
	}
}

func TestAllCorrectPassesAndUnlocksNext(t *testing.T) {
	s := newTestSession(t, testContent(12, 12))
	_ = s.SelectChapter(0)

	answerChapter(t, s, 12)

	if s.Screen() != ScreenChapterResult {
		t.Fatalf("screen: want=%s got=%s", ScreenChapterResult, s.Screen())
	}
	if s.Score() != 12 || !s.Passed() {
		t.Fatalf("want pass with 12, got score=%d passed=%v", s.Score(), s.Passed())
	}
	if !s.IsUnlocked(1) {
		t.Fatalf("chapter 1 should be unlocked")
	}
}

func TestFailedChapterRetry(t *testing.T) {
	s := newTestSession(t, testContent(12, 12))
	_ = s.SelectChapter(0)

	answerChapter(t, s, 5)

	if s.Score() != 5 || s.Passed() {
		t.Fatalf("want fail with 5, got score=%d passed=%v", s.Score(), s.Passed())
	}
	if s.IsUnlocked(1) {
		t.Fatalf("chapter 1 must stay locked")
	}
	if err := s.Proceed(); !errors.Is(err, ErrChapterNotPassed) {
		t.Fatalf("Proceed after fail: want ErrChapterNotPassed, got %v", err)
	}

	if err := s.Retry(); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if s.Screen() != ScreenQuestion || s.CurrentChapter() != 0 {
		t.Fatalf("retry should restart chapter 0, got screen=%s chapter=%d", s.Screen(), s.CurrentChapter())
	}
	if s.Score() != 0 || s.CurrentQuestionIndex() != 0 {
		t.Fatalf("retry must reset, got score=%d question=%d", s.Score(), s.CurrentQuestionIndex())
	}
	if len(s.ChapterResults(0)) != 0 {
		t.Fatalf("retry must clear results, got %v", s.ChapterResults(0))
	}
	if !slices.Equal(s.UnlockedChapters(), []int{0}) {
		t.Fatalf("retry changed unlocked chapters: %v", s.UnlockedChapters())
	}
}

func TestRetryAfterPassIsRejected(t *testing.T) {
	s := newTestSession(t, testContent(12, 12))
	_ = s.SelectChapter(0)
	answerChapter(t, s, 10)

	if err := s.Retry(); !errors.Is(err, ErrChapterPassed) {
		t.Fatalf("want ErrChapterPassed, got %v", err)
	}
}

func TestProceedEntersNextChapter(t *testing.T) {
	s := newTestSession(t, testContent(12, 12))
	_ = s.SelectChapter(0)
	answerChapter(t, s, 11)

	if err := s.Proceed(); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	if s.Screen() != ScreenQuestion || s.CurrentChapter() != 1 {
		t.Fatalf("want chapter 1 in progress, got screen=%s chapter=%d", s.Screen(), s.CurrentChapter())
	}
	if s.Score() != 0 {
		t.Fatalf("score not reset: %d", s.Score())
	}
	if got := s.ChapterResults(0); len(got) != 12 {
		t.Fatalf("chapter 0 history must survive, got %v", got)
	}
}

func TestProceedAfterLastChapterShowsSummary(t *testing.T) {
	s := newTestSession(t, testContent(12, 12))
	_ = s.SelectChapter(0)
	answerChapter(t, s, 12)
	_ = s.Proceed()
	answerChapter(t, s, 10)

	if s.HasNextChapter() {
		t.Fatalf("chapter 1 is the last chapter")
	}
	if err := s.Proceed(); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	if s.Screen() != ScreenRunSummary {
		t.Fatalf("screen: want=%s got=%s", ScreenRunSummary, s.Screen())
	}
	if !slices.Equal(s.AttemptedChapters(), []int{0, 1}) {
		t.Fatalf("attempted: want=[0 1] got=%v", s.AttemptedChapters())
	}

	if err := s.BackToHome(); err != nil {
		t.Fatalf("BackToHome: %v", err)
	}
	if s.Screen() != ScreenHome {
		t.Fatalf("screen: want=%s got=%s", ScreenHome, s.Screen())
	}
	if !slices.Equal(s.UnlockedChapters(), []int{0, 1}) {
		t.Fatalf("unlocked: want=[0 1] got=%v", s.UnlockedChapters())
	}
}

func TestBackToHomeKeepsUnlocks(t *testing.T) {
	s := newTestSession(t, testContent(12, 12, 12))
	_ = s.SelectChapter(0)

	if err := s.BackToHome(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("BackToHome mid question: want ErrInvalidTransition, got %v", err)
	}

	answerChapter(t, s, 3)
	if err := s.BackToHome(); err != nil {
		t.Fatalf("BackToHome: %v", err)
	}
	if !slices.Equal(s.UnlockedChapters(), []int{0}) {
		t.Fatalf("failed attempt must not unlock, got %v", s.UnlockedChapters())
	}
	if got := s.ChapterResults(0); len(got) != 12 {
		t.Fatalf("history must survive going home, got %v", got)
	}
}

func TestUnlockOnlyFollowsPassedPredecessor(t *testing.T) {
	s := newTestSession(t, testContent(12, 12, 12))

	_ = s.SelectChapter(0)
	answerChapter(t, s, 12)
	_ = s.BackToHome()

	// Passing chapter 0 unlocks 1 but never 2.
	if !s.IsUnlocked(1) || s.IsUnlocked(2) {
		t.Fatalf("unlocked: %v", s.UnlockedChapters())
	}

	// A later failed attempt of chapter 0 does not relock chapter 1.
	_ = s.SelectChapter(0)
	answerChapter(t, s, 0)
	_ = s.BackToHome()
	if !s.IsUnlocked(1) {
		t.Fatalf("chapter 1 lost its unlock: %v", s.UnlockedChapters())
	}

	if err := s.SelectChapter(2); !errors.Is(err, ErrChapterLocked) {
		t.Fatalf("want ErrChapterLocked, got %v", err)
	}
}

func TestReenteringChapterClearsOnlyItsHistory(t *testing.T) {
	s := newTestSession(t, testContent(12, 12))
	_ = s.SelectChapter(0)
	answerChapter(t, s, 12)
	_ = s.Proceed()
	answerChapter(t, s, 2)
	_ = s.BackToHome()

	_ = s.SelectChapter(0)
	if len(s.ChapterResults(0)) != 0 {
		t.Fatalf("chapter 0 history not cleared")
	}
	if len(s.ChapterResults(1)) != 12 {
		t.Fatalf("chapter 1 history must be kept, got %v", s.ChapterResults(1))
	}
}

func TestQuestionLimitKeepsChapterPassable(t *testing.T) {
	s := NewQuizSession(testContent(12, 12), SessionOptions{
		Policy:        FixedPassPolicy(LegacyPassScore),
		QuestionLimit: 1,
		Random:        keepOrder{},
	})
	_ = s.SelectChapter(0)

	if s.QuestionCount() != 1 {
		t.Fatalf("question count: want=1 got=%d", s.QuestionCount())
	}
	answerChapter(t, s, 1)
	if !s.Passed() || !s.IsUnlocked(1) {
		t.Fatalf("single question attempt should pass with 1 correct")
	}
}

func TestAttemptSize(t *testing.T) {
	content := testContent(12, 3)

	limited := NewQuizSession(content, SessionOptions{QuestionLimit: 5, Random: keepOrder{}})
	if got := limited.AttemptSize(0); got != 5 {
		t.Fatalf("limited long chapter: want=5 got=%d", got)
	}
	if got := limited.AttemptSize(1); got != 3 {
		t.Fatalf("limited short chapter: want=3 got=%d", got)
	}
	if got := limited.AttemptSize(2); got != 0 {
		t.Fatalf("unknown chapter: want=0 got=%d", got)
	}

	full := newTestSession(t, content)
	if got := full.AttemptSize(0); got != 12 {
		t.Fatalf("no limit: want=12 got=%d", got)
	}
}

func TestShowSummaryFromHome(t *testing.T) {
	s := newTestSession(t, testContent(3))
	if err := s.ShowSummary(); err != nil {
		t.Fatalf("ShowSummary: %v", err)
	}
	if s.Screen() != ScreenRunSummary {
		t.Fatalf("screen: want=%s got=%s", ScreenRunSummary, s.Screen())
	}
	if err := s.SelectChapter(0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("SelectChapter from summary: want ErrInvalidTransition, got %v", err)
	}
	_ = s.BackToHome()
	_ = s.SelectChapter(0)
	if err := s.ShowSummary(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ShowSummary mid question: want ErrInvalidTransition, got %v", err)
	}
}

func TestQuestionOrderIsAPermutationPerAttempt(t *testing.T) {
	c := testContent(12)
	s := NewQuizSession(c, SessionOptions{Policy: DefaultPassPolicy(), Random: rand.New(rand.NewSource(3))})
	_ = s.SelectChapter(0)

	var prompts []string
	for s.Screen() == ScreenQuestion {
		q, opts, _ := s.CurrentQuestion()
		prompts = append(prompts, q.Prompt)

		sortedOpts := slices.Clone(opts)
		slices.Sort(sortedOpts)
		wantOpts := slices.Clone(q.Options)
		slices.Sort(wantOpts)
		if !slices.Equal(sortedOpts, wantOpts) {
			t.Fatalf("options %v are not a permutation of %v", opts, q.Options)
		}

		_ = s.SelectAnswer(q.CorrectAnswer)
		_ = s.Advance()
	}

	want := make([]string, 0, len(c.Chapters[0].Questions))
	for _, q := range c.Chapters[0].Questions {
		want = append(want, q.Prompt)
	}
	slices.Sort(prompts)
	slices.Sort(want)
	if !slices.Equal(prompts, want) {
		t.Fatalf("attempt did not visit every question exactly once")
	}
	if c.Chapters[0].Questions[0].Prompt != "prompt-0-0" {
		t.Fatalf("content must not be reordered in place")
	}
}
