package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

type LeadRepo struct{ db *gorm.DB }

func NewLeadRepo(db *gorm.DB) *LeadRepo { return &LeadRepo{db: db} }

func (r *LeadRepo) Save(ctx context.Context, l *domain.Lead) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LeadRepo) List(ctx context.Context) ([]domain.Lead, error) {
	var list []domain.Lead
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *LeadRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Lead{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LeadRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).Count(&n).Error
	return n, err
}
