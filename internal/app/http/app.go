package httpapp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gallerypress/internal/lib/templates"
	appmw "gallerypress/internal/middleware"
	httprouters "gallerypress/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
}

func New(log *slog.Logger, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	// public gallery pages
	s.e.GET("/galleries/:slug", s.routers.GalleryDetail)
	s.e.GET("/galleries/:slug/item/:item_slug", s.routers.GalleryItemDetail)

	api := s.e.Group("/api/v1")
	{
		api.GET("/galleries", s.routers.ListGalleries)
		api.POST("/galleries", s.routers.CreateGallery)
		api.PUT("/galleries/:gallery_id", s.routers.UpdateGallery)
		api.DELETE("/galleries/:gallery_id", s.routers.DeleteGallery)

		api.GET("/galleries/:slug/navigation", s.routers.GalleryNavigation)
		api.GET("/galleries/:gallery_id/items", s.routers.GetCollection)
		api.POST("/galleries/:gallery_id/items", s.routers.AddItem)
		api.PUT("/galleries/:gallery_id/items/:item_id", s.routers.UpdateItem)
		api.DELETE("/items/:item_id", s.routers.DeleteItem)
	}
}

// HTMLRenderer satisfies the transport Renderer port with html/template
// candidate resolution.
type HTMLRenderer struct {
	resolver *templates.Resolver
}

func NewHTMLRenderer(resolver *templates.Resolver) *HTMLRenderer {
	return &HTMLRenderer{resolver: resolver}
}

func (r *HTMLRenderer) Render(c echo.Context, code int, candidates []string, data interface{}) error {
	buf := new(bytes.Buffer)
	if err := r.resolver.Render(buf, candidates, data); err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}
