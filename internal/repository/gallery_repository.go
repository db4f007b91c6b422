package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gallerypress/internal/domain/models"
	"gallerypress/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

type GalleryRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var galleryColumns = []string{
	"id",
	"title",
	"slug",
	"category_path",
	"photo_id",
	"published",
	"publish_from",
	"publish_to",
	"content",
	"tags",
	"created_at",
	"updated_at",
}

func scanGallery(row pgx.Row) (models.Gallery, error) {
	var gallery models.Gallery
	err := row.Scan(
		&gallery.ID,
		&gallery.Title,
		&gallery.Slug,
		&gallery.CategoryPath,
		&gallery.PhotoID,
		&gallery.Published,
		&gallery.PublishFrom,
		&gallery.PublishTo,
		&gallery.Content,
		&gallery.Tags,
		&gallery.CreatedAt,
		&gallery.UpdatedAt,
	)
	return gallery, err
}

// CreateGallery creates a new gallery and returns its id.
func (r *GalleryRepo) CreateGallery(ctx context.Context, gallery models.Gallery) (uuid.UUID, error) {
	const op = "repository.GalleryRepo.CreateGallery"

	query, args, err := r.sb.Insert("galleries").
		Columns(
			"title",
			"slug",
			"category_path",
			"photo_id",
			"published",
			"publish_from",
			"publish_to",
			"content",
			"tags",
		).
		Values(
			gallery.Title,
			gallery.Slug,
			gallery.CategoryPath,
			gallery.PhotoID,
			gallery.Published,
			gallery.PublishFrom,
			gallery.PublishTo,
			gallery.Content,
			gallery.Tags,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UpdateGallery updates the gallery row.
func (r *GalleryRepo) UpdateGallery(ctx context.Context, gallery models.Gallery) error {
	const op = "repository.GalleryRepo.UpdateGallery"

	query, args, err := r.sb.Update("galleries").
		Set("title", gallery.Title).
		Set("slug", gallery.Slug).
		Set("category_path", gallery.CategoryPath).
		Set("photo_id", gallery.PhotoID).
		Set("published", gallery.Published).
		Set("publish_from", gallery.PublishFrom).
		Set("publish_to", gallery.PublishTo).
		Set("content", gallery.Content).
		Set("tags", gallery.Tags).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": gallery.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteGallery deletes a gallery and, via FK cascade, its items.
func (r *GalleryRepo) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	const op = "repository.GalleryRepo.DeleteGallery"

	query, args, err := r.sb.Delete("galleries").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetGalleryByID returns a gallery by id.
func (r *GalleryRepo) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleryByID"

	query, args, err := r.sb.Select(galleryColumns...).
		From("galleries").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	gallery, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return gallery, nil
}

// GetGalleryBySlug returns a gallery by its publishable slug.
func (r *GalleryRepo) GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleryBySlug"

	query, args, err := r.sb.Select(galleryColumns...).
		From("galleries").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	gallery, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return gallery, nil
}

// GetGalleries returns galleries with pagination, newest first.
func (r *GalleryRepo) GetGalleries(
	ctx context.Context,
	publishedOnly bool,
	page int,
	perPage int,
) ([]models.Gallery, int, error) {
	const op = "repository.GalleryRepo.GetGalleries"

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	queryBuilder := r.sb.Select(galleryColumns...).From("galleries")
	countBuilder := r.sb.Select("COUNT(*)").From("galleries")

	if publishedOnly {
		cond := squirrel.And{
			squirrel.Eq{"published": true},
			squirrel.Expr("publish_from <= NOW()"),
			squirrel.Or{
				squirrel.Eq{"publish_to": nil},
				squirrel.Expr("publish_to > NOW()"),
			},
		}
		queryBuilder = queryBuilder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := queryBuilder.
		OrderBy("created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var galleries []models.Gallery
	for rows.Next() {
		gallery, err := scanGallery(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		galleries = append(galleries, gallery)
	}

	return galleries, total, nil
}

// GetGalleriesByTags returns galleries filtered by tags. matchAll selects
// between the AND (@>) and OR (&&) array operators.
func (r *GalleryRepo) GetGalleriesByTags(
	ctx context.Context,
	tags []string,
	matchAll bool,
) ([]models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleriesByTags"

	queryBuilder := r.sb.Select(galleryColumns...).From("galleries")

	if len(tags) > 0 {
		if matchAll {
			queryBuilder = queryBuilder.Where("tags @> ?", pq.Array(tags))
		} else {
			queryBuilder = queryBuilder.Where("tags && ?", pq.Array(tags))
		}
	}

	query, args, err := queryBuilder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var galleries []models.Gallery
	for rows.Next() {
		gallery, err := scanGallery(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		galleries = append(galleries, gallery)
	}

	return galleries, nil
}

var itemColumns = []string{
	"i.id",
	"i.slug",
	"i.gallery_id",
	"i.photo_id",
	`i."order"`,
	"i.title",
	"i.text",
	"i.app_data",
	"p.id",
	"p.title",
	"p.slug",
	"p.image",
	"p.width",
	"p.height",
	"p.app_data",
	"p.created_at",
}

func scanItem(row pgx.Row) (*models.GalleryItem, error) {
	var (
		item    models.GalleryItem
		photoID *uuid.UUID
		pTitle  *string
		pSlug   *string
		pImage  *string
		pWidth  *int
		pHeight *int
		pData   models.Metadata
		pCreate *time.Time
	)

	err := row.Scan(
		&item.ID,
		&item.Slug,
		&item.GalleryID,
		&item.PhotoID,
		&item.Order,
		&item.Title,
		&item.Text,
		&item.AppData,
		&photoID,
		&pTitle,
		&pSlug,
		&pImage,
		&pWidth,
		&pHeight,
		&pData,
		&pCreate,
	)
	if err != nil {
		return nil, err
	}

	if photoID != nil {
		item.Photo = &models.Photo{
			ID:      *photoID,
			Width:   pWidth,
			Height:  pHeight,
			AppData: pData,
		}
		if pTitle != nil {
			item.Photo.Title = *pTitle
		}
		if pSlug != nil {
			item.Photo.Slug = *pSlug
		}
		if pImage != nil {
			item.Photo.Image = *pImage
		}
		if pCreate != nil {
			item.Photo.CreatedAt = *pCreate
		}
	}

	return &item, nil
}

// ListItems returns a gallery's items ordered ascending by their position,
// ties broken by id (storage order). Photos come along via a left join.
func (r *GalleryRepo) ListItems(ctx context.Context, galleryID uuid.UUID) ([]*models.GalleryItem, error) {
	const op = "repository.GalleryRepo.ListItems"

	query, args, err := r.sb.Select(itemColumns...).
		From("gallery_items i").
		LeftJoin("photos p ON p.id = i.photo_id").
		Where(squirrel.Eq{"i.gallery_id": galleryID}).
		OrderBy(`i."order" ASC`, "i.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []*models.GalleryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// GetItemByID returns a single item with its photo.
func (r *GalleryRepo) GetItemByID(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	const op = "repository.GalleryRepo.GetItemByID"

	query, args, err := r.sb.Select(itemColumns...).
		From("gallery_items i").
		LeftJoin("photos p ON p.id = i.photo_id").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// SaveItem inserts the item when it has no id yet, otherwise updates it.
// Callers are responsible for invalidating the owning gallery's collection
// after a successful save.
func (r *GalleryRepo) SaveItem(ctx context.Context, item *models.GalleryItem) (uuid.UUID, error) {
	const op = "repository.GalleryRepo.SaveItem"

	if item.ID == uuid.Nil {
		query, args, err := r.sb.Insert("gallery_items").
			Columns("slug", "gallery_id", "photo_id", `"order"`, "title", "text", "app_data").
			Values(item.Slug, item.GalleryID, item.PhotoID, item.Order, item.Title, item.Text, item.AppData).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		var id uuid.UUID
		if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
		item.ID = id
		return id, nil
	}

	query, args, err := r.sb.Update("gallery_items").
		Set("slug", item.Slug).
		Set("photo_id", item.PhotoID).
		Set(`"order"`, item.Order).
		Set("title", item.Title).
		Set("text", item.Text).
		Set("app_data", item.AppData).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	return item.ID, nil
}

// DeleteItem deletes a gallery item by id.
func (r *GalleryRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	const op = "repository.GalleryRepo.DeleteItem"

	query, args, err := r.sb.Delete("gallery_items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
