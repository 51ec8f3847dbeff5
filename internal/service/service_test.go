package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/coffee-shop/internal/models"
	"github.com/vbncursed/vkr/coffee-shop/internal/service"
	"github.com/vbncursed/vkr/coffee-shop/internal/service/servicetest"
)

var water = models.Recipe{{Color: "blue", Name: "water", Parts: 1}}

func strPtr(s string) *string { return &s }

func TestService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := service.New(servicetest.NewMemRepo())

	d, err := svc.Create(ctx, service.CreateDrinkCommand{Title: "  water ", Recipe: water})
	require.NoError(t, err)
	assert.Equal(t, "water", d.Title)

	_, err = svc.Create(ctx, service.CreateDrinkCommand{Title: "matcha", Recipe: models.Recipe{{Color: "green", Name: "matcha", Parts: 2}}})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "water", list[0].Title)
	assert.Equal(t, "matcha", list[1].Title)
}

func TestService_CreateValidation(t *testing.T) {
	svc := service.New(servicetest.NewMemRepo())

	_, err := svc.Create(context.Background(), service.CreateDrinkCommand{Title: " ", Recipe: water})
	require.ErrorIs(t, err, service.ErrInvalidDrink)

	_, err = svc.Create(context.Background(), service.CreateDrinkCommand{Title: "water"})
	require.ErrorIs(t, err, service.ErrInvalidDrink)
}

func TestService_CreateDuplicate(t *testing.T) {
	svc := service.New(servicetest.NewMemRepo())
	_, err := svc.Create(context.Background(), service.CreateDrinkCommand{Title: "water", Recipe: water})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), service.CreateDrinkCommand{Title: "water", Recipe: water})
	require.ErrorIs(t, err, service.ErrConflict)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := service.New(servicetest.NewMemRepo())
	d, err := svc.Create(ctx, service.CreateDrinkCommand{Title: "water", Recipe: water})
	require.NoError(t, err)

	t.Run("title only", func(t *testing.T) {
		got, err := svc.Update(ctx, d.ID, service.UpdateDrinkCommand{Title: strPtr("sparkling water")})
		require.NoError(t, err)
		assert.Equal(t, "sparkling water", got.Title)
		assert.Equal(t, water, got.Recipe)
	})

	t.Run("recipe only", func(t *testing.T) {
		r := models.Recipe{{Color: "white", Name: "milk", Parts: 1}}
		got, err := svc.Update(ctx, d.ID, service.UpdateDrinkCommand{Recipe: &r})
		require.NoError(t, err)
		assert.Equal(t, "sparkling water", got.Title)
		assert.Equal(t, r, got.Recipe)
	})

	t.Run("empty command", func(t *testing.T) {
		got, err := svc.Update(ctx, d.ID, service.UpdateDrinkCommand{})
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := svc.Update(ctx, d.ID, service.UpdateDrinkCommand{Title: strPtr("")})
		require.ErrorIs(t, err, service.ErrInvalidDrink)
	})

	t.Run("empty recipe", func(t *testing.T) {
		r := models.Recipe{}
		_, err := svc.Update(ctx, d.ID, service.UpdateDrinkCommand{Recipe: &r})
		require.ErrorIs(t, err, service.ErrInvalidDrink)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, service.UpdateDrinkCommand{Title: strPtr("x")})
		require.ErrorIs(t, err, service.ErrNotFound)
		_, err = svc.Update(ctx, 999, service.UpdateDrinkCommand{})
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := service.New(servicetest.NewMemRepo())
	d, err := svc.Create(ctx, service.CreateDrinkCommand{Title: "water", Recipe: water})
	require.NoError(t, err)

	id, err := svc.Delete(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, id)

	_, err = svc.Delete(ctx, d.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}
