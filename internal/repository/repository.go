package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db          *pgxpool.Pool
	Gallery     GalleryRepository
	Photo       PhotoRepository
	Publishable PublishableRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:          db,
		Gallery:     NewGalleryRepo(db),
		Photo:       NewPhotoRepo(db),
		Publishable: NewPublishableRepo(db),
	}
}
