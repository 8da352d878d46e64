package database

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"os"
)

func dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"), 5432, os.Getenv("DB_NAME"))
}

func ConnectDB() (*pgxpool.Pool, error) {
	// Загрузить переменные из .env
	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("Error loading .env file")
	}

	pool, err := pgxpool.New(context.Background(), dsn())
	if err != nil {
		return nil, err
	}

	return pool, nil
}
