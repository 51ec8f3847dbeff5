package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vbncursed/vkr/coffee-shop/internal/models"
	"github.com/vbncursed/vkr/coffee-shop/internal/service"
)

// Store — адаптер Postgres, реализующий service.DrinkRepository
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

const selectDrink = `SELECT ` + colID + `, ` + colTitle + `, ` + colRecipe + ` FROM ` + tableDrinks

func (s *Store) ListDrinks(ctx context.Context) ([]models.Drink, error) {
	rows, err := s.pool.Query(ctx, selectDrink+` ORDER BY `+colID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Drink{}
	for rows.Next() {
		d, err := scanDrink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDrink — напиток или ErrNotFound
func (s *Store) GetDrink(ctx context.Context, id int64) (models.Drink, error) {
	d, err := scanDrink(s.pool.QueryRow(ctx, selectDrink+` WHERE `+colID+`=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Drink{}, service.ErrNotFound
	}
	return d, err
}

// InsertDrink — повтор title даёт ErrConflict
func (s *Store) InsertDrink(ctx context.Context, title string, recipe models.Recipe) (models.Drink, error) {
	raw, err := json.Marshal(recipe)
	if err != nil {
		return models.Drink{}, err
	}
	cmd := `INSERT INTO ` + tableDrinks + ` (` + colTitle + `, ` + colRecipe + `) VALUES ($1, $2)
            RETURNING ` + colID + `, ` + colTitle + `, ` + colRecipe
	d, err := scanDrink(s.pool.QueryRow(ctx, cmd, title, raw))
	if err != nil {
		return models.Drink{}, mapWriteError(err)
	}
	return d, nil
}

// UpdateDrink — COALESCE оставляет непереданные поля как есть
func (s *Store) UpdateDrink(ctx context.Context, id int64, p service.DrinkPatch) (models.Drink, error) {
	var raw []byte
	if p.Recipe != nil {
		var err error
		if raw, err = json.Marshal(p.Recipe); err != nil {
			return models.Drink{}, err
		}
	}
	cmd := `UPDATE ` + tableDrinks + ` SET ` +
		colTitle + `=COALESCE($2::text, ` + colTitle + `), ` +
		colRecipe + `=COALESCE($3::jsonb, ` + colRecipe + `), ` +
		colUpdatedAt + `=now()
            WHERE ` + colID + `=$1 RETURNING ` + colID + `, ` + colTitle + `, ` + colRecipe
	d, err := scanDrink(s.pool.QueryRow(ctx, cmd, id, p.Title, raw))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Drink{}, service.ErrNotFound
		}
		return models.Drink{}, mapWriteError(err)
	}
	return d, nil
}

func (s *Store) DeleteDrink(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM `+tableDrinks+` WHERE `+colID+`=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// Reset очищает таблицу и сбрасывает счётчик id
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE `+tableDrinks+` RESTART IDENTITY`)
	return err
}

func scanDrink(row pgx.Row) (models.Drink, error) {
	var (
		d   models.Drink
		raw []byte
	)
	if err := row.Scan(&d.ID, &d.Title, &raw); err != nil {
		return models.Drink{}, err
	}
	if err := json.Unmarshal(raw, &d.Recipe); err != nil {
		return models.Drink{}, fmt.Errorf("drink %d recipe: %w", d.ID, err)
	}
	return d, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", service.ErrConflict, pgErr.ConstraintName)
		case pgStringTruncation:
			return fmt.Errorf("%w: %s", service.ErrInvalidDrink, pgErr.Message)
		}
	}
	return err
}
