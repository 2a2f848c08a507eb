package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"github.com/Leopold1975/travel_catalog/internal/pkg/pgtools"
	"github.com/Leopold1975/travel_catalog/internal/travels/domain/models"
	"github.com/Leopold1975/travel_catalog/internal/travels/repository/userrepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (UsersPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg))
	if err != nil {
		return UsersPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		return UsersPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return UsersPostgresRepo{
		db: db,
	}, nil
}

// CreateUser persists the user together with its role attachments in
// one transaction. A failed attachment rolls the user back as well.
func (ur UsersPostgresRepo) CreateUser(ctx context.Context, //nolint:nonamedreturns
	u models.User,
) (id int64, err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create user")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("users").
		Columns("name", "email", "password_hash").
		Values(u.Name, u.Email, u.PasswordHash).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) && target.Code == "23505" {
			return 0, userrepo.ErrAlreadyExists
		}

		return 0, fmt.Errorf("scan error: %w", err)
	}

	for _, role := range u.Roles {
		if err = attachRole(ctx, tx, id, role); err != nil {
			return 0, err
		}
	}

	return id, nil
}

func attachRole(ctx context.Context, tx pgx.Tx, userID int64, role string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id").
		From("roles").
		Where(squirrel.Eq{"name": role}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	var roleID int64

	if err := tx.QueryRow(ctx, query, args...).Scan(&roleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", userrepo.ErrUnknownRole, role)
		}

		return fmt.Errorf("scan error: %w", err)
	}

	query, args, err = psql.Insert("user_role").
		Columns("user_id", "role_id").
		Values(userID, roleID).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("attach role error: %w", err)
	}

	return nil
}

func (ur UsersPostgresRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("u.id", "u.name", "u.email", "u.password_hash",
		"COALESCE(array_agg(r.name) FILTER (WHERE r.name IS NOT NULL), '{}')").
		From("users u").
		LeftJoin("user_role ur ON ur.user_id = u.id").
		LeftJoin("roles r ON r.id = ur.role_id").
		Where(squirrel.Eq{"u.email": email}).
		GroupBy("u.id").ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	var u models.User

	if err := ur.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, userrepo.ErrNotFound
		}

		return u, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		ur.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}
