package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore хранит сессии в PostgreSQL. Используется, когда бот
// работает в нескольких экземплярах и файл с сессиями не подходит.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore создает хранилище сессий и таблицу, если её еще нет.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			user_id    BIGINT PRIMARY KEY,
			identifier TEXT NOT NULL,
			token      TEXT NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Get(userID int64) (State, bool) {
	var state State
	err := p.db.QueryRow(context.Background(),
		`SELECT identifier, token FROM sessions WHERE user_id = $1`, userID).
		Scan(&state.Identifier, &state.Token)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("failed to load session for user %d: %v", userID, err)
		}
		return State{}, false
	}
	return state, true
}

func (p *PostgresStore) Set(userID int64, state State) error {
	_, err := p.db.Exec(context.Background(),
		`INSERT INTO sessions (user_id, identifier, token)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET identifier = $2, token = $3`,
		userID, state.Identifier, state.Token)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(userID int64) error {
	_, err := p.db.Exec(context.Background(),
		`DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
