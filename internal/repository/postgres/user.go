package postgres

import (
	"context"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = "u.id, u.username, u.email, u.password_hash, u.profile_picture_url, u.profile_picture_public_id, u.created_at, u.updated_at"

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) *userRepo {
	return &userRepo{
		db: db,
	}
}

func picture(url, publicID *string) *model.Image {
	if url == nil || *url == "" {
		return nil
	}

	image := &model.Image{URL: *url}
	if publicID != nil {
		image.PublicID = *publicID
	}
	return image
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user       model.User
		pictureURL *string
		pictureID  *string
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&pictureURL,
		&pictureID,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}

	user.ProfilePicture = picture(pictureURL, pictureID)
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	created, err := scanUser(r.db.QueryRow(
		ctx,
		`INSERT INTO users AS u (id, username, email, password_hash) VALUES($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
	))
	if err != nil {
		return nil, duplicateKey(err)
	}

	return created, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = $1", id))
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE lower(u.email) = lower($1)", email))
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (*model.User, error) {
	var pictureURL, pictureID *string
	if update.ProfilePicture != nil {
		pictureURL = &update.ProfilePicture.URL
		pictureID = &update.ProfilePicture.PublicID
	}

	updated, err := scanUser(r.db.QueryRow(
		ctx,
		`UPDATE users AS u SET
		username = COALESCE($2, u.username),
		email = COALESCE($3, u.email),
		password_hash = COALESCE($4, u.password_hash),
		profile_picture_url = COALESCE($5, u.profile_picture_url),
		profile_picture_public_id = COALESCE($6, u.profile_picture_public_id),
		updated_at = now()
		WHERE u.id = $1
		RETURNING `+userColumns,
		id,
		update.Username,
		update.Email,
		update.PasswordHash,
		pictureURL,
		pictureID,
	))
	if err != nil {
		return nil, duplicateKey(err)
	}

	return updated, nil
}
