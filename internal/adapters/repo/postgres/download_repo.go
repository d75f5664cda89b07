package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

type DownloadRepo struct{ db *gorm.DB }

func NewDownloadRepo(db *gorm.DB) *DownloadRepo { return &DownloadRepo{db: db} }

func (r *DownloadRepo) List(ctx context.Context, f domain.DownloadFilter) ([]domain.Download, error) {
	q := r.db.WithContext(ctx).Model(&domain.Download{}).Preload("Category")
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	var list []domain.Download
	if err := q.Order("published_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *DownloadRepo) FindBySlug(ctx context.Context, slug string) (*domain.Download, error) {
	var d domain.Download
	err := r.db.WithContext(ctx).Preload("Category").
		Where("slug = ? AND is_published = ?", slug, true).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DownloadRepo) FindByID(ctx context.Context, id int64) (*domain.Download, error) {
	var d domain.Download
	if err := r.db.WithContext(ctx).Preload("Category").First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DownloadRepo) Save(ctx context.Context, d *domain.Download) error {
	return r.db.WithContext(ctx).Omit("Category").Save(d).Error
}

func (r *DownloadRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Download{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DownloadRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Download{}).Count(&n).Error
	return n, err
}

func (r *DownloadRepo) ListCategories(ctx context.Context) ([]domain.DownloadCategory, error) {
	var list []domain.DownloadCategory
	if err := r.db.WithContext(ctx).Order("title asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *DownloadRepo) SaveCategory(ctx context.Context, c *domain.DownloadCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *DownloadRepo) DeleteCategory(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Download{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.DownloadCategory{}, "id = ?", id).Error
	})
}
