package http

import (
	"errors"
)

var (
	ErrUnsupportedMethod    = errors.New("request method is not supported")
	ErrBodyNotAllowed       = errors.New("request with GET/HEAD method cannot have body")
	ErrInvalidStatusCode    = errors.New("status code is out of range")
	ErrInvalidURL           = errors.New("url is not absolute")
	ErrBodyAlreadyConsumed  = errors.New("body has been already read")
	ErrAlreadyConsumedClone = errors.New("cannot clone a message with already read body")

	ErrAbortedWithoutReason = errors.New("signal is aborted without reason")
)
