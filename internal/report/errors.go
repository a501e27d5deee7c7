package report

import "errors"

var (
	// ErrUnknownFormat is returned when an output format name is not recognized.
	ErrUnknownFormat = errors.New("unknown report format")

	// ErrInvalidWordCounts is returned when encoded word counts are not a
	// JSON object of word to count.
	ErrInvalidWordCounts = errors.New("word counts must be a JSON object")
)
