package ai

import "errors"

var (
	// ErrTransport covers any completion call that could not be completed:
	// network failure, non-2xx status, malformed envelope or timeout.
	ErrTransport = errors.New("completion transport error")
	// ErrInferenceTimeout additionally marks transport errors caused by the
	// inference deadline.
	ErrInferenceTimeout = errors.New("ai inference timeout")
	// ErrEmptyResponse means the provider answered with no usable text.
	ErrEmptyResponse = errors.New("completion returned no usable text")
)

// ErrNoQuestions means a completion was received but contained no question lines.
var ErrNoQuestions = errors.New("completion contained no follow-up questions")
