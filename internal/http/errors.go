package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vbncursed/vkr/coffee-shop/internal/auth"
	"github.com/vbncursed/vkr/coffee-shop/internal/http/dto"
	"github.com/vbncursed/vkr/coffee-shop/internal/service"
)

// MapError переводит ошибки авторизации, DTO, сервиса и echo в HTTP статус и тело APIError
func MapError(err error) (int, APIError) {
	if f, ok := auth.AsFailure(err); ok {
		return f.Status, APIError{Code: f.Code(), Message: f.Description}
	}

	switch {
	// DTO validation
	case errors.Is(err, dto.ErrMalformedBody):
		return http.StatusBadRequest, APIError{Code: "bad_request", Message: "malformed request body"}
	case errors.Is(err, dto.ErrTitleRequired), errors.Is(err, dto.ErrRecipeRequired):
		return http.StatusUnprocessableEntity, APIError{Code: "unprocessable", Message: "unprocessable"}
	case errors.Is(err, dto.ErrBadID):
		return http.StatusNotFound, APIError{Code: "not_found", Message: "resource not found"}

	// Service errors
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, APIError{Code: "not_found", Message: "resource not found"}
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, APIError{Code: "conflict", Message: "drink with this title already exists"}
	case errors.Is(err, service.ErrInvalidDrink):
		return http.StatusUnprocessableEntity, APIError{Code: "unprocessable", Message: "unprocessable"}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, httpErrorBody(he.Code)
	}
	return http.StatusInternalServerError, APIError{Code: "internal", Message: "internal server error"}
}

func httpErrorBody(status int) APIError {
	switch status {
	case http.StatusNotFound:
		return APIError{Code: "not_found", Message: "resource not found"}
	case http.StatusMethodNotAllowed:
		return APIError{Code: "method_not_allowed", Message: "method not allowed"}
	case http.StatusUnprocessableEntity:
		return APIError{Code: "unprocessable", Message: "unprocessable"}
	case http.StatusUnsupportedMediaType:
		return APIError{Code: "unsupported_media_type", Message: "content type must be application/json"}
	case http.StatusRequestEntityTooLarge:
		return APIError{Code: "payload_too_large", Message: "request body too large"}
	case http.StatusBadRequest:
		return APIError{Code: "bad_request", Message: "bad request"}
	}
	if status >= http.StatusInternalServerError {
		return APIError{Code: "internal", Message: "internal server error"}
	}
	return APIError{Code: "error", Message: http.StatusText(status)}
}
