package controllers

import "github.com/go-faster/errors"

var (
	errTrailingData         = errors.New("unexpected data after JSON value")
	errUnsupportedMediaType = errors.New("content type must be application/json or application/x-www-form-urlencoded")
)
