package dto

import "github.com/vbncursed/vkr/coffee-shop/internal/models"

// DrinkRequest — тело POST и PATCH. recipe: массив ингредиентов или один объект.
type DrinkRequest struct {
	Title  *string        `json:"title"`
	Recipe *models.Recipe `json:"recipe" swaggertype:"array,object"`
}

type DrinksShortResponse struct {
	Success bool                `json:"success"`
	Drinks  []models.DrinkShort `json:"drinks"`
}

type DrinksLongResponse struct {
	Success bool               `json:"success"`
	Drinks  []models.DrinkLong `json:"drinks"`
}

type DeleteResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}
