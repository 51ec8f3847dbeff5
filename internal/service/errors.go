package service

import "errors"

var (
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidDrink = errors.New("invalid_drink")
)
