package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/coffee-shop/internal/migrations"
	"github.com/vbncursed/vkr/coffee-shop/internal/models"
	"github.com/vbncursed/vkr/coffee-shop/internal/service"
)

func TestMapWriteError(t *testing.T) {
	err := mapWriteError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "drinks_title_key"})
	assert.ErrorIs(t, err, service.ErrConflict)

	err = mapWriteError(&pgconn.PgError{Code: pgStringTruncation, Message: "value too long"})
	assert.ErrorIs(t, err, service.ErrInvalidDrink)

	other := errors.New("connection reset")
	assert.Same(t, other, mapWriteError(other))
}

func TestMigrationNames(t *testing.T) {
	files := fstest.MapFS{
		"0002_index.sql":  {Data: []byte("SELECT 1")},
		"0001_drinks.sql": {Data: []byte("SELECT 1")},
		"README.md":       {Data: []byte("docs")},
		"old/0000.sql":    {Data: []byte("SELECT 1")},
	}
	names, err := migrationNames(files)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_drinks.sql", "0002_index.sql"}, names)

	names, err = migrationNames(migrations.Files)
	require.NoError(t, err)
	assert.Contains(t, names, "0001_drinks.sql")
}

// Интеграционный тест: нужен TEST_DATABASE_URL
func TestStore_Postgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = RunMigrations(ctx, pool)
	require.NoError(t, err)
	again, err := RunMigrations(ctx, pool)
	require.NoError(t, err)
	assert.Empty(t, again)

	s := NewStore(pool)
	require.NoError(t, s.Reset(ctx))

	water := models.Recipe{{Color: "blue", Name: "water", Parts: 1}}
	d, err := s.InsertDrink(ctx, "water", water)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)
	assert.Equal(t, water, d.Recipe)

	_, err = s.InsertDrink(ctx, "water", water)
	require.ErrorIs(t, err, service.ErrConflict)

	title := "still water"
	d, err = s.UpdateDrink(ctx, d.ID, service.DrinkPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "still water", d.Title)
	assert.Equal(t, water, d.Recipe)

	milk := models.Recipe{{Color: "white", Name: "milk", Parts: 2}}
	d, err = s.UpdateDrink(ctx, d.ID, service.DrinkPatch{Recipe: milk})
	require.NoError(t, err)
	assert.Equal(t, milk, d.Recipe)

	_, err = s.UpdateDrink(ctx, 404, service.DrinkPatch{Title: &title})
	require.ErrorIs(t, err, service.ErrNotFound)

	list, err := s.ListDrinks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := s.GetDrink(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	require.NoError(t, s.DeleteDrink(ctx, d.ID))
	require.ErrorIs(t, s.DeleteDrink(ctx, d.ID), service.ErrNotFound)
	_, err = s.GetDrink(ctx, d.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}
