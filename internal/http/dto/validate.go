package dto

import (
	"errors"
	"strconv"
)

var (
	ErrMalformedBody  = errors.New("malformed body")
	ErrTitleRequired  = errors.New("title required")
	ErrRecipeRequired = errors.New("recipe required")
	ErrBadID          = errors.New("bad drink id")
)

// ValidateCreate — для POST оба поля обязательны
func (r DrinkRequest) ValidateCreate() error {
	if r.Title == nil {
		return ErrTitleRequired
	}
	if r.Recipe == nil {
		return ErrRecipeRequired
	}
	return nil
}

// ParseID — id из пути; не положительное целое считается несуществующим
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadID
	}
	return id, nil
}
