package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vbncursed/vkr/coffee-shop/internal/auth"
	"github.com/vbncursed/vkr/coffee-shop/internal/http/dto"
	"github.com/vbncursed/vkr/coffee-shop/internal/service"
)

// Permissions, которые требуют закрытые маршруты
const (
	PermGetDrinksDetail = "get:drinks-detail"
	PermPostDrinks      = "post:drinks"
	PermPatchDrinks     = "patch:drinks"
	PermDeleteDrinks    = "delete:drinks"
)

// ListDrinks — публичный список в коротком представлении
// @Summary     Список напитков
// @Tags        drinks
// @Produce     json
// @Success     200 {object} dto.DrinksShortResponse
// @Failure     500 {object} APIError
// @Router      /drinks [get]
func ListDrinks(svc *service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		drinks, err := svc.List(c.Request().Context())
		if err != nil {
			return err
		}
		return writeJSON(c, http.StatusOK, dto.FromDrinksShort(drinks))
	}
}

// ListDrinksDetail — список с названиями ингредиентов
// @Summary     Список напитков с рецептами
// @Tags        drinks
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} dto.DrinksLongResponse
// @Failure     401 {object} APIError
// @Failure     403 {object} APIError
// @Router      /drinks-detail [get]
func ListDrinksDetail(svc *service.Service) GuardedHandler {
	return func(c echo.Context, _ *auth.Claims) error {
		drinks, err := svc.List(c.Request().Context())
		if err != nil {
			return err
		}
		return writeJSON(c, http.StatusOK, dto.FromDrinksLong(drinks...))
	}
}

// CreateDrink — новый напиток
// @Summary     Создать напиток
// @Tags        drinks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body dto.DrinkRequest true "Drink"
// @Success     200 {object} dto.DrinksLongResponse
// @Failure     400 {object} APIError
// @Failure     401 {object} APIError
// @Failure     403 {object} APIError
// @Failure     409 {object} APIError
// @Failure     422 {object} APIError
// @Router      /drinks [post]
func CreateDrink(svc *service.Service) GuardedHandler {
	return func(c echo.Context, _ *auth.Claims) error {
		req, err := bindDrink(c)
		if err != nil {
			return err
		}
		if err := req.ValidateCreate(); err != nil {
			return err
		}
		d, err := svc.Create(c.Request().Context(), req.ToCreateCommand())
		if err != nil {
			return err
		}
		return writeJSON(c, http.StatusOK, dto.FromDrinksLong(d))
	}
}

// UpdateDrink — частичное обновление
// @Summary     Изменить напиток
// @Tags        drinks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "Drink ID"
// @Param       request body dto.DrinkRequest true "Changed fields"
// @Success     200 {object} dto.DrinksLongResponse
// @Failure     401 {object} APIError
// @Failure     403 {object} APIError
// @Failure     404 {object} APIError
// @Failure     409 {object} APIError
// @Failure     422 {object} APIError
// @Router      /drinks/{id} [patch]
func UpdateDrink(svc *service.Service) GuardedHandler {
	return func(c echo.Context, _ *auth.Claims) error {
		id, err := dto.ParseID(c.Param("id"))
		if err != nil {
			return err
		}
		req, err := bindDrink(c)
		if err != nil {
			return err
		}
		d, err := svc.Update(c.Request().Context(), id, req.ToUpdateCommand())
		if err != nil {
			return err
		}
		return writeJSON(c, http.StatusOK, dto.FromDrinksLong(d))
	}
}

// DeleteDrink — удаление по id
// @Summary     Удалить напиток
// @Tags        drinks
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Drink ID"
// @Success     200 {object} dto.DeleteResponse
// @Failure     401 {object} APIError
// @Failure     403 {object} APIError
// @Failure     404 {object} APIError
// @Router      /drinks/{id} [delete]
func DeleteDrink(svc *service.Service) GuardedHandler {
	return func(c echo.Context, _ *auth.Claims) error {
		id, err := dto.ParseID(c.Param("id"))
		if err != nil {
			return err
		}
		deleted, err := svc.Delete(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return writeJSON(c, http.StatusOK, dto.DeleteResponseOK(deleted))
	}
}

func bindDrink(c echo.Context) (dto.DrinkRequest, error) {
	var req dto.DrinkRequest
	if err := c.Bind(&req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return req, err
		}
		return req, fmt.Errorf("%w: %v", dto.ErrMalformedBody, err)
	}
	return req, nil
}
