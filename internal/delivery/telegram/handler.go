package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/spanish-quiz-bot/internal/monitoring"
	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
)

type Handler struct {
	bot     BotAPI
	logger  *zap.Logger
	quiz    QuizService
	metrics *monitoring.Metrics
}

// NewHandler creates the bot handler. metrics may be nil.
func NewHandler(bot BotAPI, logger *zap.Logger, quiz QuizService, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		bot:     bot,
		logger:  logger,
		quiz:    quiz,
		metrics: metrics,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.count("callback")
		h.logger.Debug("callback received",
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.count("ignored")
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	key := sessionKey(update.Message.From.ID)

	if !update.Message.IsCommand() {
		h.count("message")
		h.send(newMessage(chatID, helpText()))
		return
	}

	h.count("command")
	switch update.Message.Command() {
	case "start":
		h.runCommand(ctx, "start", chatID, h.startHandler(key))

	case "chapters":
		h.runCommand(ctx, "chapters", chatID, h.screenHandler(key, h.quiz.BackToHome))

	case "summary":
		h.runCommand(ctx, "summary", chatID, h.screenHandler(key, h.quiz.ShowSummary))

	case "help":
		h.send(newMessage(chatID, helpText()))

	default:
		h.send(newMessage(chatID, md(msgUnknownCommand)))
	}
}

// commandFunc handles one slash command for a chat.
type commandFunc func(ctx context.Context, chatID int64) error

// runCommand runs fn and tells the user when it fails.
func (h *Handler) runCommand(ctx context.Context, command string, chatID int64, fn commandFunc) {
	if err := fn(ctx, chatID); err != nil {
		h.logger.Error("command failed",
			zap.String("command", command),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
	}
}

// startHandler drops any previous run and shows the chapter list.
func (h *Handler) startHandler(key string) commandFunc {
	return func(_ context.Context, chatID int64) error {
		h.send(newMessage(chatID, welcomeText()))
		h.sendView(chatID, h.quiz.Restart(key))
		return nil
	}
}

// screenHandler applies a navigation action and sends the resulting screen as
// a new message. A rejected action re-sends the unchanged screen.
func (h *Handler) screenHandler(key string, action func(key string) (service.View, error)) commandFunc {
	return func(_ context.Context, chatID int64) error {
		if !h.quiz.Exists(key) {
			if _, err := h.quiz.Start(key); err != nil {
				return err
			}
		}

		view, err := action(key)
		if err != nil && !service.IsSuppressed(err) && !isNoContent(err) {
			return err
		}

		h.sendView(chatID, view)
		return nil
	}
}

func (h *Handler) sendView(chatID int64, view service.View) {
	text, kb := renderView(view)
	msg := newMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	h.send(msg)
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) count(kind string) {
	if h.metrics != nil {
		h.metrics.TelegramUpdates.WithLabelValues(kind).Inc()
	}
}
