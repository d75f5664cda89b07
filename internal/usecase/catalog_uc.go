package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stgcorp/stalex-shop/internal/cache"
	"github.com/stgcorp/stalex-shop/internal/domain"
)

// CatalogPageSize is the product grid size on category pages.
const CatalogPageSize = 9

const categoriesCacheKey = "catalog:categories"

type CatalogUC struct {
	Categories domain.CategoryRepo
	Products   domain.ProductRepo
	Cache      cache.Cache
	CacheTTL   time.Duration
}

// ProductPage is one slice of the filter/sort/paginate pipeline plus the
// pre-pagination total.
type ProductPage struct {
	Items    []domain.Product `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Pages    int              `json:"pages"`
}

// ListProducts runs the public pipeline: resolve the category slug (empty
// slug means all products), filter published products by title substring,
// sort with Russian collation and slice out the requested page.
//
// An unknown slug returns domain.ErrNotFound before any product query is
// issued; a known category with no products returns an empty page.
func (uc *CatalogUC) ListProducts(ctx context.Context, categorySlug, query string, page int) (*domain.Category, *ProductPage, error) {
	f := domain.ProductFilter{PublishedOnly: true}
	var cat *domain.Category
	if categorySlug != "" {
		c, err := uc.Categories.FindBySlug(ctx, categorySlug)
		if err != nil {
			return nil, nil, err
		}
		cat = c
		f.CategoryID = &c.ID
	}
	list, err := uc.Products.List(ctx, f)
	if err != nil {
		return cat, nil, err
	}
	return cat, paginateProducts(filterByTitle(list, query), page, CatalogPageSize), nil
}

// ListAllProducts is the admin listing: drafts included, larger pages.
func (uc *CatalogUC) ListAllProducts(ctx context.Context, query string, page, pageSize int) (*ProductPage, error) {
	list, err := uc.Products.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}
	return paginateProducts(filterByTitle(list, query), page, pageSize), nil
}

func (uc *CatalogUC) GetProduct(ctx context.Context, slug string, publishedOnly bool) (*domain.Product, error) {
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Products.FindBySlug(ctx, slug, publishedOnly)
}

// RelatedProducts returns up to limit published products sharing p's
// category. An uncategorized product has no related products.
func (uc *CatalogUC) RelatedProducts(ctx context.Context, p *domain.Product, limit int) ([]domain.Product, error) {
	if p.CategoryID == nil {
		return []domain.Product{}, nil
	}
	return uc.Products.Related(ctx, *p.CategoryID, p.ID, limit)
}

// CategoriesWithCounts lists categories with their published-product counts.
// Counts are fetched concurrently, one query per category; a failed count
// degrades to zero. The combined result is cached.
func (uc *CatalogUC) CategoriesWithCounts(ctx context.Context) ([]domain.Category, error) {
	if uc.Cache != nil {
		if b, ok, err := uc.Cache.Get(ctx, categoriesCacheKey); err == nil && ok {
			var cached []domain.Category
			if json.Unmarshal(b, &cached) == nil {
				return cached, nil
			}
		}
	}

	cats, err := uc.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	for i := range cats {
		g.Go(func() error {
			n, err := uc.Products.CountByCategory(gctx, cats[i].ID, true)
			if err != nil {
				log.Warn().Err(err).Str("category", cats[i].Slug).Msg("count products")
				return nil
			}
			cats[i].ProductCount = n
			return nil
		})
	}
	_ = g.Wait()

	if uc.Cache != nil {
		if b, err := json.Marshal(cats); err == nil {
			_ = uc.Cache.Set(ctx, categoriesCacheKey, b, uc.CacheTTL)
		}
	}
	return cats, nil
}

func (uc *CatalogUC) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Categories.FindBySlug(ctx, slug)
}

func (uc *CatalogUC) SaveCategory(ctx context.Context, c *domain.Category) error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title required")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Title)
	}
	if err := uc.Categories.Save(ctx, c); err != nil {
		return err
	}
	uc.invalidateCategories(ctx)
	return nil
}

func (uc *CatalogUC) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := uc.Categories.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateCategories(ctx)
	return nil
}

func (uc *CatalogUC) SaveProduct(ctx context.Context, p *domain.Product) error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title required")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Images == nil {
		p.Images = domain.ImageList{}
	}
	if p.Specs == nil {
		p.Specs = domain.SpecMap{}
	}
	if err := uc.Products.Save(ctx, p); err != nil {
		return err
	}
	uc.invalidateCategories(ctx)
	return nil
}

func (uc *CatalogUC) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := uc.Products.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateCategories(ctx)
	return nil
}

func (uc *CatalogUC) invalidateCategories(ctx context.Context) {
	if uc.Cache != nil {
		_ = uc.Cache.Delete(ctx, categoriesCacheKey)
	}
}

func filterByTitle(list []domain.Product, query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]domain.Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

func sortByTitle(list []domain.Product) {
	col := collate.New(language.Russian, collate.IgnoreCase)
	sort.SliceStable(list, func(i, j int) bool {
		return col.CompareString(list[i].Title, list[j].Title) < 0
	})
}

func paginateProducts(list []domain.Product, page, pageSize int) *ProductPage {
	sortByTitle(list)
	total := len(list)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = CatalogPageSize
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]domain.Product, end-start)
	copy(items, list[start:end])
	return &ProductPage{
		Items:    items,
		Total:    int64(total),
		Page:     page,
		PageSize: pageSize,
		Pages:    (total + pageSize - 1) / pageSize,
	}
}
