package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

type NewsRepo struct{ db *gorm.DB }

func NewNewsRepo(db *gorm.DB) *NewsRepo { return &NewsRepo{db: db} }

func (r *NewsRepo) List(ctx context.Context, f domain.NewsFilter) ([]domain.NewsPost, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.NewsPost{})
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR excerpt ILIKE ? OR tags @> ?", like, like, pq.Array([]string{f.Query}))
	}
	if f.Tag != "" {
		q = q.Where("tags @> ?", pq.Array([]string{f.Tag}))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page < 1 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.PageSize
	var list []domain.NewsPost
	if err := q.Order("published_at desc").Offset(offset).Limit(f.PageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *NewsRepo) FindBySlug(ctx context.Context, slug string) (*domain.NewsPost, error) {
	var p domain.NewsPost
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *NewsRepo) FindByID(ctx context.Context, id int64) (*domain.NewsPost, error) {
	var p domain.NewsPost
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *NewsRepo) Related(ctx context.Context, exclude int64, tags []string, limit int) ([]domain.NewsPost, error) {
	q := r.db.WithContext(ctx).
		Where("is_published = ? AND id <> ?", true, exclude).
		Order("published_at desc").Limit(limit)
	if len(tags) > 0 {
		q = q.Where("tags && ?", pq.Array(tags))
	}
	var list []domain.NewsPost
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *NewsRepo) Latest(ctx context.Context, limit int) ([]domain.NewsPost, error) {
	var list []domain.NewsPost
	if err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("published_at desc").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *NewsRepo) Save(ctx context.Context, p *domain.NewsPost) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *NewsRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.NewsPost{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NewsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.NewsPost{}).Count(&n).Error
	return n, err
}
