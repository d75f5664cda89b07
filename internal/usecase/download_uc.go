package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

type DownloadUC struct {
	Downloads domain.DownloadRepo
}

func (uc *DownloadUC) List(ctx context.Context, f domain.DownloadFilter) ([]domain.Download, error) {
	list, err := uc.Downloads.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Download{}
	}
	return list, nil
}

func (uc *DownloadUC) Get(ctx context.Context, slug string) (*domain.Download, error) {
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Downloads.FindBySlug(ctx, slug)
}

func (uc *DownloadUC) Save(ctx context.Context, d *domain.Download) error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("title required")
	}
	if strings.TrimSpace(d.FileURL) == "" {
		return errors.New("file_url required")
	}
	if d.Slug == "" {
		d.Slug = Slugify(d.Title)
	}
	if d.PublishedAt.IsZero() {
		d.PublishedAt = time.Now()
	}
	return uc.Downloads.Save(ctx, d)
}

func (uc *DownloadUC) Delete(ctx context.Context, id int64) error {
	return uc.Downloads.Delete(ctx, id)
}

func (uc *DownloadUC) Categories(ctx context.Context) ([]domain.DownloadCategory, error) {
	list, err := uc.Downloads.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.DownloadCategory{}
	}
	return list, nil
}

func (uc *DownloadUC) SaveCategory(ctx context.Context, c *domain.DownloadCategory) error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title required")
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Title)
	}
	return uc.Downloads.SaveCategory(ctx, c)
}

func (uc *DownloadUC) DeleteCategory(ctx context.Context, id int64) error {
	return uc.Downloads.DeleteCategory(ctx, id)
}
