package domain

import (
	"context"
	"io"

	"github.com/google/uuid"
)

type CategoryRepo interface {
	List(ctx context.Context) ([]Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type ProductRepo interface {
	// List returns every row matching the filter, ordered by title.
	List(ctx context.Context, f ProductFilter) ([]Product, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*Product, error)
	// FindByIDs resolves ids in a single membership query. Unknown ids are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID, publishedOnly bool) ([]Product, error)
	Related(ctx context.Context, categoryID, exclude uuid.UUID, limit int) ([]Product, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID, publishedOnly bool) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type NewsRepo interface {
	List(ctx context.Context, f NewsFilter) ([]NewsPost, int64, error)
	FindBySlug(ctx context.Context, slug string) (*NewsPost, error)
	FindByID(ctx context.Context, id int64) (*NewsPost, error)
	Related(ctx context.Context, exclude int64, tags []string, limit int) ([]NewsPost, error)
	Latest(ctx context.Context, limit int) ([]NewsPost, error)
	Save(ctx context.Context, p *NewsPost) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type DownloadRepo interface {
	List(ctx context.Context, f DownloadFilter) ([]Download, error)
	FindBySlug(ctx context.Context, slug string) (*Download, error)
	FindByID(ctx context.Context, id int64) (*Download, error)
	Save(ctx context.Context, d *Download) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)

	ListCategories(ctx context.Context) ([]DownloadCategory, error)
	SaveCategory(ctx context.Context, c *DownloadCategory) error
	DeleteCategory(ctx context.Context, id int64) error
}

type LeadRepo interface {
	Save(ctx context.Context, l *Lead) error
	List(ctx context.Context) ([]Lead, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// FileStorage uploads an object and returns the stable public URL it will be
// addressed by from images[]/cover_url/file_url.
type FileStorage interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader) (string, error)
}
