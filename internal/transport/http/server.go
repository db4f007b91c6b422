package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gallerypress/internal/domain/models"
	"gallerypress/internal/events"
	"gallerypress/internal/lib/logger/sl"
	"gallerypress/internal/lib/templates"
	services "gallerypress/internal/services/gallery_service"
	"gallerypress/internal/storage"
	"gallerypress/internal/transport/http/dto"
	"gallerypress/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type GalleryService interface {
	Collection(ctx context.Context, gallery *models.Gallery) (*models.ItemCollection, error)
	Photo(ctx context.Context, gallery *models.Gallery) (*models.Photo, error)
	SaveGallery(ctx context.Context, gallery *models.Gallery) (uuid.UUID, error)
	DeleteGallery(ctx context.Context, id uuid.UUID) error
	SaveItem(ctx context.Context, item *models.GalleryItem) (uuid.UUID, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error)
	GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error)
	GetGalleries(ctx context.Context, publishedOnly bool, page, perPage int) ([]models.Gallery, int, error)
	GetGalleriesByTags(ctx context.Context, tags []string, matchAll bool) ([]models.Gallery, error)
}

type Navigator interface {
	Resolve(ctx context.Context, gallery *models.Gallery, itemSlug string) (*services.NavigationResult, error)
}

// Renderer renders the first available template candidate with the given
// data. The app wires an html/template implementation; tests stub it.
type Renderer interface {
	Render(c echo.Context, code int, candidates []string, data interface{}) error
}

type Routers struct {
	log       *slog.Logger
	Galleries GalleryService
	Nav       Navigator
	Renderer  Renderer
	Events    *events.Dispatcher
}

func NewRouter(log *slog.Logger, galleries GalleryService, nav Navigator, renderer Renderer, dispatcher *events.Dispatcher) *Routers {
	return &Routers{
		log:       log,
		Galleries: galleries,
		Nav:       nav,
		Renderer:  renderer,
		Events:    dispatcher,
	}
}

// GalleryDetail renders the gallery front page: the first item by order.
func (r *Routers) GalleryDetail(c echo.Context) error {
	return r.galleryPage(c, c.Param("slug"), "")
}

// GalleryItemDetail renders a single item addressed by its unique slug.
func (r *Routers) GalleryItemDetail(c echo.Context) error {
	return r.galleryPage(c, c.Param("slug"), c.Param("item_slug"))
}

func (r *Routers) galleryPage(c echo.Context, gallerySlug, itemSlug string) error {
	const op = "http.routers.galleryPage"

	log := r.log.With(
		slog.String("op", op),
		slog.String("gallery_slug", gallerySlug),
		slog.String("item_slug", itemSlug),
	)

	gallery, err := r.Galleries.GetGalleryBySlug(c.Request().Context(), gallerySlug)
	if err != nil {
		if errors.Is(err, storage.ErrGalleryNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrGalleryNotFound)
		}
		log.Error("failed to load gallery", sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	res, err := r.Nav.Resolve(c.Request().Context(), &gallery, itemSlug)
	if err != nil {
		var redirect *services.RedirectError
		if errors.As(err, &redirect) {
			code := http.StatusFound
			if redirect.Permanent {
				code = http.StatusMovedPermanently
			}
			return c.Redirect(code, redirect.URL)
		}
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		}
		log.Error("failed to resolve gallery item", sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	// fragment template for AJAX-style sub-requests; the response varies
	// on the header either way
	templateName := "item.html"
	if c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest" {
		templateName = "item-ajax.html"
	}
	c.Response().Header().Add("Vary", "X-Requested-With")

	candidates := templates.ForPublishable(templateName, &res.Gallery.Publishable)
	if err := r.Renderer.Render(c, http.StatusOK, candidates, res); err != nil {
		log.Error("failed to render gallery page", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrRenderFailed)
	}

	r.Events.ObjectRendered(events.Rendered{
		Request:  c.Request(),
		Category: res.Gallery.CategoryPath,
		Gallery:  res.Gallery,
	})

	return nil
}

// GalleryNavigation returns the navigation context as JSON.
func (r *Routers) GalleryNavigation(c echo.Context) error {
	const op = "http.routers.GalleryNavigation"

	gallery, err := r.Galleries.GetGalleryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, storage.ErrGalleryNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrGalleryNotFound)
		}
		r.log.Error("failed to load gallery", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	res, err := r.Nav.Resolve(c.Request().Context(), &gallery, c.QueryParam("item"))
	if err != nil {
		var redirect *services.RedirectError
		if errors.As(err, &redirect) {
			return c.Redirect(http.StatusMovedPermanently, redirect.URL)
		}
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		}
		r.log.Error("failed to resolve gallery item", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(mapNavigation(res)))
}

// CreateGallery creates a gallery from a JSON body.
func (r *Routers) CreateGallery(c echo.Context) error {
	const op = "http.routers.CreateGallery"

	var req dto.CreateGalleryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		r.log.Warn("invalid create gallery request", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	gallery := galleryFromRequest(uuid.Nil, req.Title, req.Slug, req.CategoryPath, req.PhotoID, req.Published, req.PublishFrom, req.PublishTo, req.Content, req.Tags)

	id, err := r.Galleries.SaveGallery(c.Request().Context(), gallery)
	if err != nil {
		r.log.Error("failed to create gallery", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]string{"id": id.String()}))
}

// UpdateGallery updates a gallery row.
func (r *Routers) UpdateGallery(c echo.Context) error {
	const op = "http.routers.UpdateGallery"

	id, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	var req dto.UpdateGalleryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	gallery := galleryFromRequest(id, req.Title, req.Slug, req.CategoryPath, req.PhotoID, req.Published, req.PublishFrom, req.PublishTo, req.Content, req.Tags)

	if _, err := r.Galleries.SaveGallery(c.Request().Context(), gallery); err != nil {
		r.log.Error("failed to update gallery", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// DeleteGallery removes a gallery.
func (r *Routers) DeleteGallery(c echo.Context) error {
	const op = "http.routers.DeleteGallery"

	id, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := r.Galleries.DeleteGallery(c.Request().Context(), id); err != nil {
		r.log.Error("failed to delete gallery", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// ListGalleries returns galleries with pagination; ?published=true filters to
// currently published ones, ?tags=a,b filters by tags (&match_all=true for
// the AND form).
func (r *Routers) ListGalleries(c echo.Context) error {
	const op = "http.routers.ListGalleries"

	if rawTags := c.QueryParam("tags"); rawTags != "" {
		matchAll, _ := strconv.ParseBool(c.QueryParam("match_all"))
		galleries, err := r.Galleries.GetGalleriesByTags(c.Request().Context(), strings.Split(rawTags, ","), matchAll)
		if err != nil {
			r.log.Error("failed to list galleries by tags", slog.String("op", op), sl.Err(err))
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, response.SuccessResponse(mapGalleryList(galleries, len(galleries), 1, len(galleries))))
	}

	publishedOnly, _ := strconv.ParseBool(c.QueryParam("published"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	galleries, total, err := r.Galleries.GetGalleries(c.Request().Context(), publishedOnly, page, perPage)
	if err != nil {
		r.log.Error("failed to list galleries", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(mapGalleryList(galleries, total, page, perPage)))
}

// GetCollection returns the ordered slug-keyed collection of a gallery.
func (r *Routers) GetCollection(c echo.Context) error {
	const op = "http.routers.GetCollection"

	id, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	gallery, err := r.Galleries.GetGalleryByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrGalleryNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrGalleryNotFound)
		}
		r.log.Error("failed to load gallery", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	collection, err := r.Galleries.Collection(c.Request().Context(), &gallery)
	if err != nil {
		r.log.Error("failed to build collection", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	resp := dto.CollectionResponse{
		GalleryID: gallery.ID,
		Count:     collection.Len(),
		Items:     make([]dto.ItemResponse, 0, collection.Len()),
	}
	for _, item := range collection.Items() {
		resp.Items = append(resp.Items, mapItem(item))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(resp))
}

// AddItem appends an item to a gallery and invalidates its collection.
func (r *Routers) AddItem(c echo.Context) error {
	const op = "http.routers.AddItem"

	galleryID, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	var req dto.SaveItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	item := itemFromRequest(uuid.Nil, galleryID, req)

	id, err := r.Galleries.SaveItem(c.Request().Context(), item)
	if err != nil {
		r.log.Error("failed to save gallery item", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]string{"id": id.String()}))
}

// UpdateItem updates an existing item and invalidates its collection.
func (r *Routers) UpdateItem(c echo.Context) error {
	const op = "http.routers.UpdateItem"

	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	galleryID, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	var req dto.SaveItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	item := itemFromRequest(id, galleryID, req)

	if _, err := r.Galleries.SaveItem(c.Request().Context(), item); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		}
		r.log.Error("failed to update gallery item", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// DeleteItem removes an item and invalidates its collection.
func (r *Routers) DeleteItem(c echo.Context) error {
	const op = "http.routers.DeleteItem"

	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := r.Galleries.DeleteItem(c.Request().Context(), id); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		}
		r.log.Error("failed to delete gallery item", slog.String("op", op), sl.Err(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func galleryFromRequest(
	id uuid.UUID,
	title, slug, categoryPath string,
	photoID *uuid.UUID,
	published bool,
	publishFrom, publishTo *time.Time,
	content string,
	tags []string,
) *models.Gallery {
	gallery := &models.Gallery{
		Publishable: models.Publishable{
			ID:           id,
			Title:        title,
			Slug:         slug,
			CategoryPath: categoryPath,
			PhotoID:      photoID,
			Published:    published,
			PublishTo:    publishTo,
		},
		Content: content,
		Tags:    tags,
	}
	if publishFrom != nil {
		gallery.PublishFrom = *publishFrom
	} else {
		gallery.PublishFrom = time.Now()
	}
	return gallery
}

func itemFromRequest(id, galleryID uuid.UUID, req dto.SaveItemRequest) *models.GalleryItem {
	return &models.GalleryItem{
		ID:        id,
		Slug:      req.Slug,
		GalleryID: galleryID,
		PhotoID:   req.PhotoID,
		Order:     req.Order,
		Title:     req.Title,
		Text:      req.Text,
		AppData:   req.AppData,
	}
}

func mapGallery(gallery models.Gallery) dto.GalleryResponse {
	return dto.GalleryResponse{
		ID:           gallery.ID,
		Title:        gallery.Title,
		Slug:         gallery.Slug,
		CategoryPath: gallery.CategoryPath,
		PhotoID:      gallery.PhotoID,
		Published:    gallery.Published,
		PublishFrom:  gallery.PublishFrom,
		PublishTo:    gallery.PublishTo,
		Content:      gallery.Content,
		Tags:         gallery.Tags,
		CreatedAt:    gallery.CreatedAt,
		UpdatedAt:    gallery.UpdatedAt,
		URL:          gallery.AbsoluteURL(),
	}
}

func mapGalleryList(galleries []models.Gallery, total, page, perPage int) dto.GalleryListResponse {
	resp := dto.GalleryListResponse{
		Galleries: make([]dto.GalleryResponse, 0, len(galleries)),
		Total:     total,
		Page:      page,
		PerPage:   perPage,
	}
	for _, gallery := range galleries {
		resp.Galleries = append(resp.Galleries, mapGallery(gallery))
	}
	return resp
}

func mapItem(item *models.GalleryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:        item.ID,
		Slug:      item.UniqueSlug(),
		GalleryID: item.GalleryID,
		PhotoID:   item.PhotoID,
		Order:     item.Order,
		Title:     item.ItemTitle(),
		Text:      item.Text,
		URL:       item.AbsoluteURL(),
	}
}

func mapNavigation(res *services.NavigationResult) dto.NavigationResponse {
	resp := dto.NavigationResponse{
		Gallery:    mapGallery(*res.Gallery),
		Item:       mapItem(res.Item),
		ItemList:   make([]dto.ItemResponse, 0, len(res.ItemList)),
		Count:      res.Count,
		Position:   res.Position,
		CountStr:   res.CountStr,
		OnItemPage: res.OnItemPage,
	}
	for _, item := range res.ItemList {
		resp.ItemList = append(resp.ItemList, mapItem(item))
	}
	if res.Next != nil {
		next := mapItem(res.Next)
		resp.Next = &next
	}
	if res.Previous != nil {
		previous := mapItem(res.Previous)
		resp.Previous = &previous
	}
	return resp
}
