package storage

import "errors"

var (
	ErrGalleryNotFound     = errors.New("gallery not found")
	ErrItemNotFound        = errors.New("gallery item not found")
	ErrPhotoNotFound       = errors.New("photo not found")
	ErrPublishableNotFound = errors.New("publishable not found")
)

var ErrCacheMiss = errors.New("cache entry not found")
