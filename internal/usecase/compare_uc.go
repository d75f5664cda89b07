package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stgcorp/stalex-shop/internal/compare"
	"github.com/stgcorp/stalex-shop/internal/domain"
)

// Placeholder fills cells for attributes a product does not define, so the
// comparison matrix is always rectangular.
const Placeholder = "—"

type CompareUC struct {
	Products domain.ProductRepo
}

// CompareRow is one attribute across every compared product; Values is
// index-aligned with CompareTable.Products.
type CompareRow struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

type CompareTable struct {
	Products []domain.Product `json:"products"`
	Rows     []CompareRow     `json:"rows"`
}

// Build resolves the selection against the store and derives the comparison
// matrix. Ids that do not resolve to a published product are silently
// dropped; the resolved list is truncated to the display cap in store order.
// A store failure degrades to an empty table rather than an error.
func (uc *CompareUC) Build(ctx context.Context, ids []uuid.UUID) *CompareTable {
	empty := &CompareTable{Products: []domain.Product{}, Rows: []CompareRow{}}
	if len(ids) == 0 {
		return empty
	}
	resolved, err := uc.Products.FindByIDs(ctx, ids, true)
	if err != nil {
		log.Warn().Err(err).Int("ids", len(ids)).Msg("compare: resolve selection")
		return empty
	}
	if len(resolved) == 0 {
		return empty
	}
	if len(resolved) > compare.MaxCompared {
		resolved = resolved[:compare.MaxCompared]
	}

	// attribute-key universe: union in first-encounter order
	seen := map[string]struct{}{}
	keys := []string{}
	for _, p := range resolved {
		for _, k := range p.Specs.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}

	rows := make([]CompareRow, 0, len(keys))
	for _, k := range keys {
		row := CompareRow{Key: k, Values: make([]string, len(resolved))}
		for i, p := range resolved {
			if v, ok := p.Specs.Get(k); ok {
				row.Values[i] = v.String()
			} else {
				row.Values[i] = Placeholder
			}
		}
		rows = append(rows, row)
	}
	return &CompareTable{Products: resolved, Rows: rows}
}
