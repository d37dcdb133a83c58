package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
)

// TxRunner runs a function inside a read-only transaction.
type TxRunner interface {
	WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ContentRepository reads the quiz document from the chapters and questions tables.
type ContentRepository struct {
	tx TxRunner
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(tx TxRunner) *ContentRepository {
	return &ContentRepository{tx: tx}
}

// Load reads all chapters with their questions in one snapshot and validates them.
func (r *ContentRepository) Load(ctx context.Context) (*entities.Content, error) {
	var content entities.Content

	err := r.tx.WithinReadOnlyTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		chapters, ids, err := r.loadChapters(ctx, tx)
		if err != nil {
			return err
		}

		if err := r.loadQuestions(ctx, tx, chapters, ids); err != nil {
			return err
		}

		content.Chapters = chapters
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return &content, nil
}

func (r *ContentRepository) loadChapters(ctx context.Context, tx pgx.Tx) ([]entities.Chapter, map[int64]int, error) {
	query := `
		SELECT id, topic
		FROM chapters
		ORDER BY position, id
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("get chapters: %w", err)
	}
	defer rows.Close()

	var chapters []entities.Chapter
	ids := make(map[int64]int) // chapter id -> index in chapters
	for rows.Next() {
		var (
			id int64
			ch entities.Chapter
		)
		if err := rows.Scan(&id, &ch.Topic); err != nil {
			return nil, nil, fmt.Errorf("scan chapter: %w", err)
		}
		ids[id] = len(chapters)
		chapters = append(chapters, ch)
	}

	return chapters, ids, rows.Err()
}

func (r *ContentRepository) loadQuestions(ctx context.Context, tx pgx.Tx, chapters []entities.Chapter, ids map[int64]int) error {
	query := `
		SELECT chapter_id, prompt, options, correct_answer
		FROM questions
		ORDER BY chapter_id, position, id
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			chapterID int64
			q         entities.Question
		)
		if err := rows.Scan(&chapterID, &q.Prompt, &q.Options, &q.CorrectAnswer); err != nil {
			return fmt.Errorf("scan question: %w", err)
		}

		idx, ok := ids[chapterID]
		if !ok {
			continue
		}
		chapters[idx].Questions = append(chapters[idx].Questions, q)
	}

	return rows.Err()
}
