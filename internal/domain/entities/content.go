// Package entities contains domain entities used across the application.
package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidContent is returned when a quiz document breaks one of the content rules.
var ErrInvalidContent = errors.New("invalid quiz content")

// Chapter is a named group of questions on one topic.
type Chapter struct {
	Topic     string     `json:"topic" yaml:"topic"`                     // topic label shown in the chapter list
	Title     string     `json:"title,omitempty" yaml:"title,omitempty"` // legacy label key, used when Topic is empty
	Questions []Question `json:"questions" yaml:"questions"`
}

// Label returns the chapter's display label.
func (c Chapter) Label() string {
	if c.Topic != "" {
		return c.Topic
	}
	return c.Title
}

// Content is the whole read-only quiz document.
type Content struct {
	Chapters []Chapter `json:"chapters" yaml:"chapters"`
}

// Empty reports whether there is nothing to quiz on.
func (c *Content) Empty() bool {
	return c == nil || len(c.Chapters) == 0
}

// Validate checks the document once at load time.
//
// Every chapter needs at least one question, and every question needs:
//  1. a non-empty prompt;
//  2. at least two distinct options;
//  3. a correct answer that is one of the options.
//
// A document without chapters is valid: it renders as the no-content screen.
func (c *Content) Validate() error {
	if c == nil {
		return nil
	}

	for ci, ch := range c.Chapters {
		if strings.TrimSpace(ch.Label()) == "" {
			return fmt.Errorf("%w: chapter %d has no topic", ErrInvalidContent, ci+1)
		}
		if len(ch.Questions) == 0 {
			return fmt.Errorf("%w: chapter %d (%s) has no questions", ErrInvalidContent, ci+1, ch.Label())
		}

		for qi, q := range ch.Questions {
			if err := validateQuestion(q); err != nil {
				return fmt.Errorf("%w: chapter %d question %d: %s", ErrInvalidContent, ci+1, qi+1, err)
			}
		}
	}

	return nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("empty prompt")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("expected at least 2 options, got %d", len(q.Options))
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if _, ok := seen[o]; ok {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = struct{}{}
	}

	if _, ok := seen[q.CorrectAnswer]; !ok {
		return fmt.Errorf("correct answer %q is not among the options", q.CorrectAnswer)
	}

	return nil
}
