package dto

import (
	"github.com/vbncursed/vkr/coffee-shop/internal/models"
	"github.com/vbncursed/vkr/coffee-shop/internal/service"
)

// ToCreateCommand — вызывать после ValidateCreate
func (r DrinkRequest) ToCreateCommand() service.CreateDrinkCommand {
	cmd := service.CreateDrinkCommand{}
	if r.Title != nil {
		cmd.Title = *r.Title
	}
	if r.Recipe != nil {
		cmd.Recipe = *r.Recipe
	}
	return cmd
}

func (r DrinkRequest) ToUpdateCommand() service.UpdateDrinkCommand {
	return service.UpdateDrinkCommand{Title: r.Title, Recipe: r.Recipe}
}

// FromDrinksShort — публичный список
func FromDrinksShort(drinks []models.Drink) DrinksShortResponse {
	out := DrinksShortResponse{Success: true, Drinks: make([]models.DrinkShort, 0, len(drinks))}
	for _, d := range drinks {
		out.Drinks = append(out.Drinks, d.Short())
	}
	return out
}

func FromDrinksLong(drinks ...models.Drink) DrinksLongResponse {
	out := DrinksLongResponse{Success: true, Drinks: make([]models.DrinkLong, 0, len(drinks))}
	for _, d := range drinks {
		out.Drinks = append(out.Drinks, d.Long())
	}
	return out
}

func DeleteResponseOK(id int64) DeleteResponse {
	return DeleteResponse{Success: true, Delete: id}
}
