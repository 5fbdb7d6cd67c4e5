package handlers

import "errors"

var (
	errInvalidID   = errors.New("invalid id")
	errInvalidPage = errors.New("invalid pagination parameter")
)
