package service

import (
	"context"

	"github.com/vbncursed/vkr/coffee-shop/internal/models"
)

// DrinkRepository — порт хранилища напитков.
// Отсутствующий id — ErrNotFound, повтор title — ErrConflict.
type DrinkRepository interface {
	ListDrinks(ctx context.Context) ([]models.Drink, error)
	GetDrink(ctx context.Context, id int64) (models.Drink, error)
	InsertDrink(ctx context.Context, title string, recipe models.Recipe) (models.Drink, error)
	UpdateDrink(ctx context.Context, id int64, patch DrinkPatch) (models.Drink, error)
	DeleteDrink(ctx context.Context, id int64) error
}

// DrinkPatch — nil-поля не меняются
type DrinkPatch struct {
	Title  *string
	Recipe models.Recipe
}

// Команды use case'ов
type CreateDrinkCommand struct {
	Title  string
	Recipe models.Recipe
}

type UpdateDrinkCommand struct {
	Title  *string
	Recipe *models.Recipe
}
