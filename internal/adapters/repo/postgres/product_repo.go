package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	var list []domain.Product
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if err := q.Order("title asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Product, error) {
	var p domain.Product
	q := r.db.WithContext(ctx)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if err := q.First(&p, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID, publishedOnly bool) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var list []domain.Product
	q := r.db.WithContext(ctx).Where("id IN ?", ids)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if err := q.Order("title asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) Related(ctx context.Context, categoryID, exclude uuid.UUID, limit int) ([]domain.Product, error) {
	var list []domain.Product
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND is_published = ?", categoryID, exclude, true).
		Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID, publishedOnly bool) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", categoryID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, err
}
