package templates

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"gallerypress/internal/domain/models"
)

// galleryContentType names galleries in the template hierarchy.
const galleryContentType = "galleries.gallery"

var ErrNoTemplate = errors.New("no template candidate found")

// ForPublishable returns the ordered candidate template names for rendering
// name in the context of p, most specific first: per-slug, per-content-type
// and per-category overrides fall back to the site-wide page template.
func ForPublishable(name string, p *models.Publishable) []string {
	var candidates []string

	if p.CategoryPath != "" {
		candidates = append(candidates,
			path.Join("page", "category", p.CategoryPath, "content_type", galleryContentType, p.Slug, name),
			path.Join("page", "category", p.CategoryPath, "content_type", galleryContentType, name),
			path.Join("page", "category", p.CategoryPath, name),
		)
	}

	return append(candidates,
		path.Join("page", "content_type", galleryContentType, name),
		path.Join("page", name),
	)
}

// Resolver picks the first existing candidate from a template filesystem and
// renders it with html/template.
type Resolver struct {
	fsys fs.FS
}

func NewResolver(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys}
}

// Lookup returns the first candidate present in the filesystem.
func (r *Resolver) Lookup(candidates []string) (string, error) {
	for _, name := range candidates {
		if _, err := fs.Stat(r.fsys, name); err == nil {
			return name, nil
		}
	}
	return "", ErrNoTemplate
}

// Render executes the first existing candidate against data.
func (r *Resolver) Render(w io.Writer, candidates []string, data interface{}) error {
	const op = "templates.Resolver.Render"

	name, err := r.Lookup(candidates)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmpl, err := template.ParseFS(r.fsys, name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
