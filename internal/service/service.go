package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vbncursed/vkr/coffee-shop/internal/models"
)

// Service реализует use case'ы меню
type Service struct {
	drinks DrinkRepository
}

func New(drinks DrinkRepository) *Service {
	return &Service{drinks: drinks}
}

// List — все напитки по возрастанию id
func (s *Service) List(ctx context.Context) ([]models.Drink, error) {
	return s.drinks.ListDrinks(ctx)
}

// Create — новый напиток; title и непустой recipe обязательны
func (s *Service) Create(ctx context.Context, cmd CreateDrinkCommand) (models.Drink, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return models.Drink{}, fmt.Errorf("%w: title required", ErrInvalidDrink)
	}
	if len(cmd.Recipe) == 0 {
		return models.Drink{}, fmt.Errorf("%w: recipe required", ErrInvalidDrink)
	}
	return s.drinks.InsertDrink(ctx, title, cmd.Recipe)
}

// Update меняет только переданные поля; пустая команда возвращает напиток как есть
func (s *Service) Update(ctx context.Context, id int64, cmd UpdateDrinkCommand) (models.Drink, error) {
	var patch DrinkPatch
	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return models.Drink{}, fmt.Errorf("%w: title must not be blank", ErrInvalidDrink)
		}
		patch.Title = &title
	}
	if cmd.Recipe != nil {
		if len(*cmd.Recipe) == 0 {
			return models.Drink{}, fmt.Errorf("%w: recipe must not be empty", ErrInvalidDrink)
		}
		patch.Recipe = *cmd.Recipe
	}
	if patch.Title == nil && patch.Recipe == nil {
		return s.drinks.GetDrink(ctx, id)
	}
	return s.drinks.UpdateDrink(ctx, id, patch)
}

// Delete возвращает id удалённого напитка
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	if err := s.drinks.DeleteDrink(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}
