package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stgcorp/stalex-shop/internal/domain"
	"github.com/stgcorp/stalex-shop/internal/usecase"
)

type fakeProductRepo struct {
	products []domain.Product
}

func (r *fakeProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
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

func (r *fakeProductRepo) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Product, error) {
	for i := range r.products {
		if r.products[i].Slug == slug && (!publishedOnly || r.products[i].Published) {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID, publishedOnly bool) ([]domain.Product, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []domain.Product{}
	for _, p := range r.products {
		if _, ok := want[p.ID]; ok && (!publishedOnly || p.Published) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Related(ctx context.Context, categoryID, exclude uuid.UUID, limit int) ([]domain.Product, error) {
	return []domain.Product{}, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, p *domain.Product) error { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error    { return nil }

func (r *fakeProductRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID, publishedOnly bool) (int64, error) {
	return 0, nil
}

func (r *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

type fakeCategoryRepo struct {
	categories []domain.Category
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	for i := range r.categories {
		if r.categories[i].Slug == slug {
			c := r.categories[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeCategoryRepo) Save(ctx context.Context, c *domain.Category) error { return nil }
func (r *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }

func (r *fakeCategoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

type fakeLeadRepo struct {
	leads []domain.Lead
}

func (r *fakeLeadRepo) Save(ctx context.Context, l *domain.Lead) error {
	l.ID = int64(len(r.leads) + 1)
	r.leads = append(r.leads, *l)
	return nil
}

func (r *fakeLeadRepo) List(ctx context.Context) ([]domain.Lead, error) { return r.leads, nil }
func (r *fakeLeadRepo) Delete(ctx context.Context, id int64) error      { return nil }
func (r *fakeLeadRepo) Count(ctx context.Context) (int64, error)        { return int64(len(r.leads)), nil }

type testEnv struct {
	handler  http.Handler
	products *fakeProductRepo
	leads    *fakeLeadRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("ADMIN_ALLOWED_EMAILS", "admin@stalex-shop.uz")
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))

	catID := uuid.New()
	products := &fakeProductRepo{products: []domain.Product{
		{
			ID: uuid.New(), Slug: "press-pg-40", Title: "Пресс ПГ-40",
			CategoryID: &catID, Published: true,
			Specs: domain.SpecMap{{Key: "Усилие", Value: domain.StringValue("40 т")}},
		},
		{
			ID: uuid.New(), Slug: "press-pg-63", Title: "Пресс ПГ-63",
			CategoryID: &catID, Published: true,
			Specs: domain.SpecMap{{Key: "Мощность", Value: domain.StringValue("5.5 кВт")}},
		},
	}}
	categories := &fakeCategoryRepo{categories: []domain.Category{
		{ID: catID, Slug: "press-brakes", Title: "Прессы"},
	}}
	leads := &fakeLeadRepo{}

	catalog := &usecase.CatalogUC{Categories: categories, Products: products}
	h := New(
		catalog,
		&usecase.CompareUC{Products: products},
		&usecase.NewsUC{},
		&usecase.DownloadUC{},
		&usecase.LeadUC{Leads: leads},
		nil,
	)
	return &testEnv{handler: h, products: products, leads: leads}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestCatalogUnknownCategoryIs404(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/catalog/no-such", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestCatalogListsCategoryProducts(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/catalog/press-brakes", nil))
	require.Equal(t, 200, rec.Code)

	var body struct {
		Items []domain.Product `json:"items"`
		Total int64            `json:"total"`
	}
	decodeBody(t, rec, &body)
	assert.Len(t, body.Items, 2)
	assert.EqualValues(t, 2, body.Total)
}

func TestCompareCookieRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	id := env.products.products[0].ID

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/compare/"+id.String(), nil))
	require.Equal(t, 200, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = env.do(req)
	require.Equal(t, 200, rec.Code)

	var table struct {
		Products []domain.Product `json:"products"`
		Rows     []struct {
			Key    string   `json:"key"`
			Values []string `json:"values"`
		} `json:"rows"`
	}
	decodeBody(t, rec, &table)
	require.Len(t, table.Products, 1)
	assert.Equal(t, id, table.Products[0].ID)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Усилие", table.Rows[0].Key)
}

func TestCompareTamperedCookieIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	id := env.products.products[0].ID

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/compare/"+id.String(), nil))
	require.NotEmpty(t, rec.Result().Cookies())
	c := rec.Result().Cookies()[0]
	c.Value = "x" + c.Value

	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	req.AddCookie(c)
	rec = env.do(req)
	require.Equal(t, 200, rec.Code)

	var table struct {
		Products []domain.Product `json:"products"`
	}
	decodeBody(t, rec, &table)
	assert.Empty(t, table.Products)
}

func TestCompareInvalidID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/compare/not-a-uuid", nil))
	assert.Equal(t, 400, rec.Code)
}

func TestLeadCreate(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantCode   int
		wantFields []string
	}{
		{
			"valid",
			`{"name":"Иван","phone":"+998 90 123-45-67","email":"ivan@example.com","model":"ПГ-40"}`,
			201, nil,
		},
		{
			"bad phone",
			`{"name":"Иван","phone":"abc","email":"ivan@example.com"}`,
			400, []string{"phone"},
		},
		{
			"missing everything",
			`{}`,
			400, []string{"name", "phone", "email"},
		},
		{
			"broken json",
			`{"name":`,
			400, nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(tc.body))
			rec := env.do(req)
			require.Equal(t, tc.wantCode, rec.Code)

			if tc.wantFields != nil {
				var body struct {
					Fields []string `json:"fields"`
				}
				decodeBody(t, rec, &body)
				for _, f := range tc.wantFields {
					assert.Contains(t, body.Fields, f)
				}
			}
			if tc.wantCode == 201 {
				assert.Len(t, env.leads.leads, 1)
			}
		})
	}
}

func TestAdminRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/admin/products", nil))
	assert.Equal(t, 401, rec.Code)
}

func TestAdminLoginAndList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"admin@stalex-shop.uz","password":"s3cret"}`)))
	require.Equal(t, 200, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &login)
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = env.do(req)
	require.Equal(t, 200, rec.Code)

	var body struct {
		Items []domain.Product `json:"items"`
	}
	decodeBody(t, rec, &body)
	assert.Len(t, body.Items, 2)
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"admin@stalex-shop.uz","password":"wrong"}`)))
	assert.Equal(t, 401, rec.Code)
}

func TestAdminLoginRejectsUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"intruder@example.com","password":"s3cret"}`)))
	assert.Equal(t, 401, rec.Code)
}
