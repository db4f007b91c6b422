package repository

import (
	"context"
	"errors"
	"fmt"

	"gallerypress/internal/domain/models"
	"gallerypress/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type PhotoRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewPhotoRepo(db *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindByID returns a photo by id.
func (r *PhotoRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	const op = "repository.PhotoRepo.FindByID"

	query, args, err := r.sb.Select(
		"id",
		"title",
		"slug",
		"image",
		"width",
		"height",
		"app_data",
		"created_at",
	).
		From("photos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var photo models.Photo
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&photo.ID,
		&photo.Title,
		&photo.Slug,
		&photo.Image,
		&photo.Width,
		&photo.Height,
		&photo.AppData,
		&photo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &photo, nil
}

// UpdateAppData persists a photo's extension data.
func (r *PhotoRepo) UpdateAppData(ctx context.Context, id uuid.UUID, appData models.Metadata) error {
	const op = "repository.PhotoRepo.UpdateAppData"

	query, args, err := r.sb.Update("photos").
		Set("app_data", appData).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	return nil
}
