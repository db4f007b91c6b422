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

// PublishableRepo reads publish metadata from the galleries table, the only
// publishable content type this module owns.
type PublishableRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewPublishableRepo(db *pgxpool.Pool) *PublishableRepo {
	return &PublishableRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PublishableRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Publishable, error) {
	const op = "repository.PublishableRepo.GetByID"

	query, args, err := r.sb.Select(
		"id",
		"title",
		"slug",
		"category_path",
		"photo_id",
		"published",
		"publish_from",
		"publish_to",
	).
		From("galleries").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Publishable{}, fmt.Errorf("%s: %w", op, err)
	}

	var pub models.Publishable
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&pub.ID,
		&pub.Title,
		&pub.Slug,
		&pub.CategoryPath,
		&pub.PhotoID,
		&pub.Published,
		&pub.PublishFrom,
		&pub.PublishTo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Publishable{}, fmt.Errorf("%s: %w", op, storage.ErrPublishableNotFound)
		}
		return models.Publishable{}, fmt.Errorf("%s: %w", op, err)
	}

	return pub, nil
}
