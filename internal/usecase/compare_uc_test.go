package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

func specProduct(title string, entries ...domain.SpecEntry) domain.Product {
	return domain.Product{
		ID:        uuid.New(),
		Title:     title,
		Published: true,
		Specs:     domain.SpecMap(entries),
	}
}

func entry(k, v string) domain.SpecEntry {
	return domain.SpecEntry{Key: k, Value: domain.StringValue(v)}
}

func idsOf(products []domain.Product) []uuid.UUID {
	out := make([]uuid.UUID, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestCompareBuildMatrix(t *testing.T) {
	a := specProduct("А", entry("Усилие", "40 т"), entry("Длина", "2500 мм"))
	b := specProduct("Б", entry("Усилие", "63 т"), entry("Мощность", "5.5 кВт"))
	repo := &stubProductRepo{products: []domain.Product{a, b}}
	uc := &CompareUC{Products: repo}

	table := uc.Build(context.Background(), idsOf(repo.products))
	require.Len(t, table.Products, 2)
	require.Len(t, table.Rows, 3)

	// union of keys in first-encounter order
	assert.Equal(t, "Усилие", table.Rows[0].Key)
	assert.Equal(t, "Длина", table.Rows[1].Key)
	assert.Equal(t, "Мощность", table.Rows[2].Key)

	assert.Equal(t, []string{"40 т", "63 т"}, table.Rows[0].Values)
	assert.Equal(t, []string{"2500 мм", Placeholder}, table.Rows[1].Values)
	assert.Equal(t, []string{Placeholder, "5.5 кВт"}, table.Rows[2].Values)
}

func TestCompareBuildCapsAtFour(t *testing.T) {
	repo := &stubProductRepo{}
	for i := 0; i < 6; i++ {
		repo.products = append(repo.products, specProduct("p", entry("К", "v")))
	}
	uc := &CompareUC{Products: repo}

	table := uc.Build(context.Background(), idsOf(repo.products))
	assert.Len(t, table.Products, 4)
	for _, row := range table.Rows {
		assert.Len(t, row.Values, 4)
	}
}

func TestCompareBuildDropsUnresolvedIDs(t *testing.T) {
	known := specProduct("известный", entry("К", "v"))
	repo := &stubProductRepo{products: []domain.Product{known}}
	uc := &CompareUC{Products: repo}

	table := uc.Build(context.Background(), []uuid.UUID{uuid.New(), known.ID, uuid.New()})
	require.Len(t, table.Products, 1)
	assert.Equal(t, known.ID, table.Products[0].ID)
}

func TestCompareBuildExcludesUnpublished(t *testing.T) {
	draft := specProduct("черновик", entry("К", "v"))
	draft.Published = false
	repo := &stubProductRepo{products: []domain.Product{draft}}
	uc := &CompareUC{Products: repo}

	table := uc.Build(context.Background(), []uuid.UUID{draft.ID})
	assert.Empty(t, table.Products)
	assert.Empty(t, table.Rows)
}

func TestCompareBuildEmptySelection(t *testing.T) {
	repo := &stubProductRepo{}
	uc := &CompareUC{Products: repo}

	table := uc.Build(context.Background(), nil)
	require.NotNil(t, table)
	assert.NotNil(t, table.Products)
	assert.NotNil(t, table.Rows)
	assert.Zero(t, repo.findByIDsCalls, "empty selection must not hit the store")
}

func TestCompareBuildStoreErrorDegradesToEmpty(t *testing.T) {
	repo := &stubProductRepo{err: errors.New("connection refused")}
	uc := &CompareUC{Products: repo}

	table := uc.Build(context.Background(), []uuid.UUID{uuid.New()})
	require.NotNil(t, table)
	assert.Empty(t, table.Products)
	assert.Empty(t, table.Rows)
}

func TestCompareBuildNoSpecs(t *testing.T) {
	p := specProduct("без характеристик")
	repo := &stubProductRepo{products: []domain.Product{p}}
	uc := &CompareUC{Products: repo}

	table := uc.Build(context.Background(), []uuid.UUID{p.ID})
	require.Len(t, table.Products, 1)
	assert.Empty(t, table.Rows)
}
