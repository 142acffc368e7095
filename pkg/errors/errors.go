package errors

import (
	goerrors "errors"
	"fmt"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return goerrors.New(text)
}

// As is a passthrough to the standard library so that callers only need to
// import one errors package.
func As(err error, target interface{}) bool {
	return goerrors.As(err, target)
}

type contextError struct {
	context string
	err     error
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err contextError) Unwrap() error {
	return err.err
}

// WithContext annotates `err` with a short description of what was being
// attempted when it occurred. It returns nil if `err` is nil.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return contextError{context: context, err: err}
}

// RootCause strips all the context added by WithContext and returns the
// original error.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(contextError)
		if !ok {
			return err
		}
		err = ctxErr.err
	}
}

// FriendlyError is an error whose message is suitable for showing directly
// to users, without the internal context chain.
type FriendlyError interface {
	error
	FriendlyMessage() string
}

type friendlyError struct {
	msg string
}

func (err friendlyError) Error() string {
	return err.msg
}

func (err friendlyError) FriendlyMessage() string {
	return err.msg
}

// NewFriendlyError creates an error whose message will be shown verbatim by
// the CLI.
func NewFriendlyError(format string, a ...interface{}) error {
	return friendlyError{fmt.Sprintf(format, a...)}
}

// GetPrintableMessage returns the message that should be shown to the user
// for `err`.
func GetPrintableMessage(err error) string {
	var friendly FriendlyError
	if goerrors.As(err, &friendly) {
		return friendly.FriendlyMessage()
	}
	return err.Error()
}
