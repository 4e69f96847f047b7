package domain

import "github.com/pkg/errors"

var (
	ErrNoData             = errors.New("no data")
	ErrDuplicate          = errors.New("duplicate")
	ErrExpired            = errors.New("expired")
	ErrInvalidURL         = errors.New("invalid url")
	ErrShortCodeExhausted = errors.New("short code space exhausted")
)
