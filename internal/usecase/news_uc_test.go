package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

func TestNewsListDefaults(t *testing.T) {
	cases := []struct {
		name         string
		filter       domain.NewsFilter
		wantPageSize int
		wantPage     int
	}{
		{"public default", domain.NewsFilter{PublishedOnly: true}, NewsPageSize, 1},
		{"admin default", domain.NewsFilter{}, AdminNewsPageSize, 1},
		{"explicit page size kept", domain.NewsFilter{PageSize: 5, Page: 2}, 5, 2},
		{"negative page clamped", domain.NewsFilter{Page: -3, PublishedOnly: true}, NewsPageSize, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubNewsRepo{}
			uc := &NewsUC{News: repo}

			page, err := uc.List(context.Background(), tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPageSize, repo.lastList.PageSize)
			assert.Equal(t, tc.wantPage, repo.lastList.Page)
			assert.Equal(t, tc.wantPage, page.Page)
			assert.NotNil(t, page.Items)
		})
	}
}

func TestNewsSaveDefaults(t *testing.T) {
	repo := &stubNewsRepo{}
	uc := &NewsUC{News: repo}

	p := &domain.NewsPost{Title: "Новый листогиб в каталоге"}
	require.NoError(t, uc.Save(context.Background(), p))
	assert.Equal(t, "novyy-listogib-v-kataloge", p.Slug)
	assert.NotNil(t, p.Tags)
	assert.False(t, p.PublishedAt.IsZero())
	require.Len(t, repo.saved, 1)
}

func TestNewsSaveKeepsExplicitSlug(t *testing.T) {
	repo := &stubNewsRepo{}
	uc := &NewsUC{News: repo}

	p := &domain.NewsPost{Title: "Заголовок", Slug: "custom-slug"}
	require.NoError(t, uc.Save(context.Background(), p))
	assert.Equal(t, "custom-slug", p.Slug)
}

func TestNewsSaveRequiresTitle(t *testing.T) {
	uc := &NewsUC{News: &stubNewsRepo{}}
	require.Error(t, uc.Save(context.Background(), &domain.NewsPost{Title: " "}))
}

func TestNewsGetEmptySlug(t *testing.T) {
	uc := &NewsUC{News: &stubNewsRepo{}}
	_, err := uc.Get(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Листогибочный пресс", "listogibochnyy-press"},
		{"Пресс ПГ-10", "press-pg-10"},
		{"  Hydraulic Press 40T  ", "hydraulic-press-40t"},
		{"Щит & Меч", "schit-mech"},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
