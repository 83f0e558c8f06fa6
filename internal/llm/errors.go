package llm

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure so callers can pick between
// an actionable config message, a retry-later message, or dropping
// a non-critical generation.
type Kind int

const (
	KindConfig    Kind = iota + 1 // bad provider/key/model, caught before dispatch
	KindTransient                 // timeout, network failure, 5xx after retries
	KindProvider                  // well-formed 4xx rejection from the provider
	KindParse                     // 2xx body without extractable content
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransient:
		return "transient"
	case KindProvider:
		return "provider"
	case KindParse:
		return "parse"
	}
	return "unknown"
}

// Error is the one error type that crosses the llm package boundary.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newErr(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

func configErrf(format string, args ...any) *Error {
	return newErr(KindConfig, nil, format, args...)
}

// KindOf reports the classification of err, or zero when err did not
// come out of this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
