package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

const (
	// NewsPageSize is the public news grid size.
	NewsPageSize = 12
	// AdminNewsPageSize is the back-office listing size, drafts included.
	AdminNewsPageSize = 20
)

type NewsUC struct {
	News domain.NewsRepo
}

type NewsPage struct {
	Items    []domain.NewsPost `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Pages    int               `json:"pages"`
}

func (uc *NewsUC) List(ctx context.Context, f domain.NewsFilter) (*NewsPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		if f.PublishedOnly {
			f.PageSize = NewsPageSize
		} else {
			f.PageSize = AdminNewsPageSize
		}
	}
	items, total, err := uc.News.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.NewsPost{}
	}
	return &NewsPage{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
		Pages:    int((total + int64(f.PageSize) - 1) / int64(f.PageSize)),
	}, nil
}

func (uc *NewsUC) Get(ctx context.Context, slug string) (*domain.NewsPost, error) {
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return uc.News.FindBySlug(ctx, slug)
}

func (uc *NewsUC) GetByID(ctx context.Context, id int64) (*domain.NewsPost, error) {
	return uc.News.FindByID(ctx, id)
}

// Related prefers posts sharing a tag with p, newest first.
func (uc *NewsUC) Related(ctx context.Context, p *domain.NewsPost, limit int) ([]domain.NewsPost, error) {
	return uc.News.Related(ctx, p.ID, p.Tags, limit)
}

func (uc *NewsUC) Latest(ctx context.Context, limit int) ([]domain.NewsPost, error) {
	if limit < 1 {
		limit = 3
	}
	return uc.News.Latest(ctx, limit)
}

func (uc *NewsUC) Save(ctx context.Context, p *domain.NewsPost) error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title required")
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now()
	}
	return uc.News.Save(ctx, p)
}

func (uc *NewsUC) Delete(ctx context.Context, id int64) error {
	return uc.News.Delete(ctx, id)
}
