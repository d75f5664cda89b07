package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

type stubCategoryRepo struct {
	categories []domain.Category
	err        error
	saved      []domain.Category
	deleted    []uuid.UUID
}

func (r *stubCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	return r.categories, r.err
}

func (r *stubCategoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.categories {
		if r.categories[i].Slug == slug {
			c := r.categories[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	for i := range r.categories {
		if r.categories[i].ID == id {
			c := r.categories[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubCategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	r.saved = append(r.saved, *c)
	return r.err
}

func (r *stubCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return r.err
}

func (r *stubCategoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.categories)), r.err
}

type stubProductRepo struct {
	products []domain.Product
	err      error

	listCalls      int
	findByIDsCalls int
	saved          []domain.Product
}

func (r *stubProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.Product{}
	for _, p := range r.products {
		if f.PublishedOnly && !p.Published {
			continue
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductRepo) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.products {
		p := r.products[i]
		if p.Slug != slug {
			continue
		}
		if publishedOnly && !p.Published {
			continue
		}
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID, publishedOnly bool) ([]domain.Product, error) {
	r.findByIDsCalls++
	if r.err != nil {
		return nil, r.err
	}
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []domain.Product{}
	for _, p := range r.products {
		if _, ok := want[p.ID]; !ok {
			continue
		}
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductRepo) Related(ctx context.Context, categoryID, exclude uuid.UUID, limit int) ([]domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.Product{}
	for _, p := range r.products {
		if p.ID == exclude || !p.Published {
			continue
		}
		if p.CategoryID == nil || *p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubProductRepo) Save(ctx context.Context, p *domain.Product) error {
	r.saved = append(r.saved, *p)
	return r.err
}

func (r *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.err
}

func (r *stubProductRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID, publishedOnly bool) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, p := range r.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID && (!publishedOnly || p.Published) {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.products)), r.err
}

type stubNewsRepo struct {
	posts    []domain.NewsPost
	err      error
	lastList domain.NewsFilter
	saved    []domain.NewsPost
}

func (r *stubNewsRepo) List(ctx context.Context, f domain.NewsFilter) ([]domain.NewsPost, int64, error) {
	r.lastList = f
	if r.err != nil {
		return nil, 0, r.err
	}
	return r.posts, int64(len(r.posts)), nil
}

func (r *stubNewsRepo) FindBySlug(ctx context.Context, slug string) (*domain.NewsPost, error) {
	for i := range r.posts {
		if r.posts[i].Slug == slug {
			p := r.posts[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubNewsRepo) FindByID(ctx context.Context, id int64) (*domain.NewsPost, error) {
	for i := range r.posts {
		if r.posts[i].ID == id {
			p := r.posts[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubNewsRepo) Related(ctx context.Context, exclude int64, tags []string, limit int) ([]domain.NewsPost, error) {
	return nil, r.err
}

func (r *stubNewsRepo) Latest(ctx context.Context, limit int) ([]domain.NewsPost, error) {
	if limit > len(r.posts) {
		limit = len(r.posts)
	}
	return r.posts[:limit], r.err
}

func (r *stubNewsRepo) Save(ctx context.Context, p *domain.NewsPost) error {
	r.saved = append(r.saved, *p)
	return r.err
}

func (r *stubNewsRepo) Delete(ctx context.Context, id int64) error { return r.err }

func (r *stubNewsRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.posts)), r.err
}
