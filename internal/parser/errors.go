package parser

import "errors"

var (
	// ErrUnexpectedStatus is returned when an HTTP response is not 2xx.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrUnsupportedScheme is returned for URLs that are neither http(s) nor file.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrInvalidIgnoredWord is returned when an ignored word pattern does not compile.
	ErrInvalidIgnoredWord = errors.New("invalid ignored word pattern")
)
