// Package servicetest — in-memory хранилище напитков для тестов сервиса и HTTP-слоя.
package servicetest

import (
	"context"
	"sort"
	"sync"

	"github.com/vbncursed/vkr/coffee-shop/internal/models"
	"github.com/vbncursed/vkr/coffee-shop/internal/service"
)

type MemRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Drink
}

func NewMemRepo() *MemRepo { return &MemRepo{nextID: 1, rows: map[int64]models.Drink{}} }

func (m *MemRepo) ListDrinks(context.Context) ([]models.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Drink, 0, len(m.rows))
	for _, d := range m.rows {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemRepo) GetDrink(_ context.Context, id int64) (models.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.rows[id]
	if !ok {
		return models.Drink{}, service.ErrNotFound
	}
	return d, nil
}

func (m *MemRepo) titleTaken(title string, except int64) bool {
	for id, d := range m.rows {
		if id != except && d.Title == title {
			return true
		}
	}
	return false
}

func (m *MemRepo) InsertDrink(_ context.Context, title string, recipe models.Recipe) (models.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.titleTaken(title, 0) {
		return models.Drink{}, service.ErrConflict
	}
	d := models.Drink{ID: m.nextID, Title: title, Recipe: recipe}
	m.rows[d.ID] = d
	m.nextID++
	return d, nil
}

func (m *MemRepo) UpdateDrink(_ context.Context, id int64, p service.DrinkPatch) (models.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.rows[id]
	if !ok {
		return models.Drink{}, service.ErrNotFound
	}
	if p.Title != nil {
		if m.titleTaken(*p.Title, id) {
			return models.Drink{}, service.ErrConflict
		}
		d.Title = *p.Title
	}
	if p.Recipe != nil {
		d.Recipe = p.Recipe
	}
	m.rows[id] = d
	return d, nil
}

func (m *MemRepo) DeleteDrink(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return service.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}
