package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
)

// buildHomeKeyboard builds one button per chapter plus the summary button.
// Locked chapters keep a button so the press can explain the lock.
func buildHomeKeyboard(home *service.HomeView) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(home.Chapters)+1)
	for _, ch := range home.Chapters {
		label := ch.Topic
		if !ch.Unlocked {
			label = "🔒 " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildChapterCallback(ch.Index)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📊 Summary", buildSummaryCallback()),
	))

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildQuestionKeyboard builds the option buttons. Once answered, the options
// are marked and a button to move on is added.
func buildQuestionKeyboard(q *service.QuestionView) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options)+1)
	for i, option := range q.Options {
		label := option
		if q.Answered {
			switch {
			case option == q.CorrectAnswer:
				label = "✅ " + option
			case option == q.Selected:
				label = "❌ " + option
			}
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildAnswerCallback(q.ChapterIndex, q.Number, i)),
		))
	}

	if q.Answered {
		next := "Next question ▶️"
		if q.Number == q.Total {
			next = "See results 🏁"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(next, buildNextCallback()),
		))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildResultKeyboard builds keyboard for chapter results screen.
func buildResultKeyboard(r *service.ResultView) *tgbotapi.InlineKeyboardMarkup {
	var primary tgbotapi.InlineKeyboardButton
	switch {
	case !r.Passed:
		primary = tgbotapi.NewInlineKeyboardButtonData("🔄 Restart chapter", buildRetryCallback())
	case r.HasNext:
		primary = tgbotapi.NewInlineKeyboardButtonData("Next chapter ▶️", buildProceedCallback())
	default:
		primary = tgbotapi.NewInlineKeyboardButtonData("📊 Summary", buildProceedCallback())
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(primary),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Chapters", buildHomeCallback()),
		),
	)
	return &kb
}

func buildSummaryKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Chapters", buildHomeCallback()),
		),
	)
	return &kb
}
