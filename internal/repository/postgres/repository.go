package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/paging"
	"github.com/BloggingApp/blog-service/internal/repository/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, cfg.DSN())
}

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}

func New(db *pgxpool.Pool, logger *zap.Logger) *store.Store {
	return store.New(
		newUserRepo(db),
		newPostRepo(db),
		newCommentRepo(db, logger),
		func(ctx context.Context) error {
			db.Close()
			return nil
		},
	)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func duplicateKey(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "users_username_key":
		return &store.DuplicateKeyError{Field: "username"}
	case "users_email_key":
		return &store.DuplicateKeyError{Field: "email"}
	default:
		return &store.DuplicateKeyError{Field: pgErr.ConstraintName}
	}
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

// orderBy renders an ORDER BY clause for alias from a whitelisted column, breaking ties
// on id in the same direction.
func orderBy(alias string, req paging.Request) string {
	column, ok := sortColumns[req.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if req.Descending() {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %[1]s.%[2]s %[3]s, %[1]s.id %[3]s", alias, column, direction)
}
