// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
)

// Plain-text messages and callback popups.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command. Send /help to see what I can do."
	msgNoContent       = "No quiz data available."
	msgChapterLocked   = "🔒 Pass the previous chapter to unlock this one."
	msgAlreadyAnswered = "You already answered this question."
	msgStaleButton     = "This question is no longer active."
)

const progressBarLength = 12

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeText() string {
	var sb strings.Builder

	sb.WriteString(md("¡Hola! 👋"))
	sb.WriteString("\n\n")
	sb.WriteString(bold("Spanish Quiz Bot"))
	sb.WriteString(md(" helps you learn Spanish vocabulary chapter by chapter."))
	sb.WriteString("\n\n")
	sb.WriteString(md("Answer the questions of a chapter and reach the passing score to unlock the next one."))
	sb.WriteString("\n")
	sb.WriteString(md("Questions and answer options are shuffled on every attempt."))

	return sb.String()
}

func helpText() string {
	var sb strings.Builder

	sb.WriteString(bold("Commands"))
	sb.WriteString("\n\n")
	sb.WriteString(md("/start — start over from the first chapter"))
	sb.WriteString("\n")
	sb.WriteString(md("/chapters — show the chapter list"))
	sb.WriteString("\n")
	sb.WriteString(md("/summary — show the results of every chapter you tried"))
	sb.WriteString("\n")
	sb.WriteString(md("/help — show this message"))

	return sb.String()
}

// renderView builds the text and keyboard of a screen.
func renderView(v service.View) (string, *tgbotapi.InlineKeyboardMarkup) {
	switch v.Screen {
	case entities.ScreenHome:
		return renderHome(v.Home), buildHomeKeyboard(v.Home)
	case entities.ScreenQuestion:
		return renderQuestion(v.Question), buildQuestionKeyboard(v.Question)
	case entities.ScreenChapterResult:
		return renderResult(v.Result), buildResultKeyboard(v.Result)
	case entities.ScreenRunSummary:
		return renderSummary(v.Summary), buildSummaryKeyboard()
	default:
		return md(msgNoContent), nil
	}
}

func renderHome(home *service.HomeView) string {
	var sb strings.Builder

	sb.WriteString(bold("📚 Chapters"))
	sb.WriteString("\n\n")

	for _, ch := range home.Chapters {
		line := fmt.Sprintf("%d. %s (%d)", ch.Index+1, ch.Topic, ch.Questions)
		switch {
		case !ch.Unlocked:
			line = "🔒 " + line
		case ch.Answered > 0:
			line = fmt.Sprintf("✏️ %s: %d/%d correct", line, ch.Correct, ch.Answered)
		default:
			line = "▫️ " + line
		}
		sb.WriteString(md(line))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(md("Choose a chapter to start."))

	return sb.String()
}

func renderQuestion(q *service.QuestionView) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("Chapter %d: %s", q.ChapterIndex+1, q.Topic)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Question %d of %d", q.Number, q.Total)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(q.Number, q.Total, progressBarLength)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Score: %d/%d", q.Score, q.Total)))
	sb.WriteString("\n\n")
	sb.WriteString(bold(q.Prompt))

	if q.Answered {
		sb.WriteString("\n\n")
		if q.IsCorrect {
			sb.WriteString(md("✅ Correct!"))
		} else {
			sb.WriteString(md("❌ Incorrect. The correct answer is: "))
			sb.WriteString(bold(q.CorrectAnswer))
		}
	}

	return sb.String()
}

func renderResult(r *service.ResultView) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("Chapter %d results: %s", r.ChapterIndex+1, r.Topic)))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("You scored %d out of %d.", r.Score, r.Total)))
	sb.WriteString("\n\n")

	switch {
	case !r.Passed:
		sb.WriteString(md(fmt.Sprintf("You need to score at least %d to pass. Try again!", r.Required)))
	case r.HasNext:
		sb.WriteString(bold("🎉 Congratulations! You passed this chapter."))
	default:
		sb.WriteString(bold("🏆 You've completed all chapters!"))
	}

	return sb.String()
}

func renderSummary(s *service.SummaryView) string {
	var sb strings.Builder

	sb.WriteString(bold("📊 Summary"))
	sb.WriteString("\n\n")

	if len(s.Chapters) == 0 {
		sb.WriteString(md("You have not answered any questions yet."))
		return sb.String()
	}

	for _, ch := range s.Chapters {
		sb.WriteString(bold(fmt.Sprintf("%d. %s", ch.Index+1, ch.Topic)))
		sb.WriteString(md(fmt.Sprintf(": %d/%d", ch.Correct, ch.Total)))
		sb.WriteString("\n")
		sb.WriteString(md(resultMarks(ch.Results)))
		sb.WriteString("\n\n")
	}

	sb.WriteString(md(fmt.Sprintf("Total: %d/%d correct", s.Correct, s.Total)))

	return sb.String()
}

func resultMarks(results []bool) string {
	var sb strings.Builder
	for _, ok := range results {
		if ok {
			sb.WriteString("✅")
		} else {
			sb.WriteString("❌")
		}
	}
	return sb.String()
}

func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
