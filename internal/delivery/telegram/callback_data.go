package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionChapter = "chapter"
	actionAnswer  = "answer"
	actionNext    = "next"
	actionRetry   = "retry"
	actionProceed = "proceed"
	actionHome    = "home"
	actionSummary = "summary"
)

var errMalformedCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// ints parses exactly n integer params.
func (cd callbackData) ints(n int) ([]int, error) {
	if len(cd.Params) != n {
		return nil, errMalformedCallback
	}

	out := make([]int, n)
	for i, p := range cd.Params {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, errMalformedCallback
		}
		out[i] = v
	}
	return out, nil
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildChapterCallback(chapter int) string {
	return callbackData{
		Action: actionChapter,
		Params: []string{strconv.Itoa(chapter)},
	}.encode()
}

// buildAnswerCallback builds callback data for answering question number
// questionNum (1-based) of chapter with the option at optionIndex.
func buildAnswerCallback(chapter, questionNum, optionIndex int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			strconv.Itoa(chapter),
			strconv.Itoa(questionNum),
			strconv.Itoa(optionIndex),
		},
	}.encode()
}

func buildNextCallback() string    { return actionNext }
func buildRetryCallback() string   { return actionRetry }
func buildProceedCallback() string { return actionProceed }
func buildHomeCallback() string    { return actionHome }
func buildSummaryCallback() string { return actionSummary }
