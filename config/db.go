package config

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolhub/domain"
)

// GetDatabaseURL builds the database connection string.
func GetDatabaseURL() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))
	return dsn
}

// BootDB opens the gorm connection and runs migrations. The repositories
// query through the pgx pool from BootPool, not through gorm.
func BootDB() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return db, err
	}

	fmt.Println("DB initialized")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.School{}); err != nil {
		return fmt.Errorf("failed to migrate schools table: %w", err)
	}
	return nil
}

// BootPool opens the connection pool the repositories use.
func BootPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
