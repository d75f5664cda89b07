package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stgcorp/stalex-shop/internal/domain"
	"github.com/stgcorp/stalex-shop/internal/usecase"
	"github.com/stgcorp/stalex-shop/internal/validation"
)

type Server struct {
	mux       *http.ServeMux
	catalog   *usecase.CatalogUC
	comparer  *usecase.CompareUC
	news      *usecase.NewsUC
	downloads *usecase.DownloadUC
	leads     *usecase.LeadUC
	storage   domain.FileStorage
	validate  *validation.Validator

	secret       []byte
	adminAllowed map[string]struct{}
	adminHash    string
}

func New(
	catalog *usecase.CatalogUC,
	comparer *usecase.CompareUC,
	news *usecase.NewsUC,
	downloads *usecase.DownloadUC,
	leads *usecase.LeadUC,
	storage domain.FileStorage,
) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		catalog:   catalog,
		comparer:  comparer,
		news:      news,
		downloads: downloads,
		leads:     leads,
		storage:   storage,
		validate:  validation.New(),
	}

	sec := os.Getenv("SECRET_KEY")
	if sec == "" {
		sec = "dev-insecure"
	}
	s.secret = []byte(sec)

	allowed := map[string]struct{}{}
	for _, e := range strings.Split(os.Getenv("ADMIN_ALLOWED_EMAILS"), ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}
	s.adminAllowed = allowed
	s.adminHash = os.Getenv("ADMIN_PASSWORD_HASH")

	s.routes()
	return Chain(s.mux,
		RateLimit(120),
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads"))))

	s.mux.HandleFunc("GET /api/categories", s.handleCategories)
	s.mux.HandleFunc("GET /api/categories/{slug}", s.handleCategory)
	s.mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /api/catalog/{slug}", s.handleCatalog)
	s.mux.HandleFunc("GET /api/products/{slug}", s.handleProduct)

	s.mux.HandleFunc("GET /api/compare", s.handleCompare)
	s.mux.HandleFunc("POST /api/compare/{id}", s.handleCompareAdd)
	s.mux.HandleFunc("DELETE /api/compare/{id}", s.handleCompareRemove)
	s.mux.HandleFunc("DELETE /api/compare", s.handleCompareClear)

	s.mux.HandleFunc("GET /api/news", s.handleNews)
	s.mux.HandleFunc("GET /api/news/latest", s.handleNewsLatest)
	s.mux.HandleFunc("GET /api/news/{slug}", s.handleNewsPost)

	s.mux.HandleFunc("GET /api/downloads", s.handleDownloads)
	s.mux.HandleFunc("GET /api/downloads/{slug}", s.handleDownload)
	s.mux.HandleFunc("GET /api/download-categories", s.handleDownloadCategories)

	s.mux.HandleFunc("POST /api/leads", s.handleLeadCreate)

	s.mux.HandleFunc("POST /api/admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("GET /api/admin/dashboard", s.handleAdminDashboard)

	s.mux.HandleFunc("GET /api/admin/products", s.handleAdminProducts)
	s.mux.HandleFunc("POST /api/admin/products", s.handleAdminProducts)
	s.mux.HandleFunc("GET /api/admin/products/{slug}", s.handleAdminProduct)
	s.mux.HandleFunc("PUT /api/admin/products/{slug}", s.handleAdminProduct)
	s.mux.HandleFunc("DELETE /api/admin/products/{slug}", s.handleAdminProduct)

	s.mux.HandleFunc("GET /api/admin/categories", s.handleAdminCategories)
	s.mux.HandleFunc("POST /api/admin/categories", s.handleAdminCategories)
	s.mux.HandleFunc("PUT /api/admin/categories/{id}", s.handleAdminCategory)
	s.mux.HandleFunc("DELETE /api/admin/categories/{id}", s.handleAdminCategory)

	s.mux.HandleFunc("GET /api/admin/news", s.handleAdminNews)
	s.mux.HandleFunc("POST /api/admin/news", s.handleAdminNews)
	s.mux.HandleFunc("GET /api/admin/news/{id}", s.handleAdminNewsPost)
	s.mux.HandleFunc("PUT /api/admin/news/{id}", s.handleAdminNewsPost)
	s.mux.HandleFunc("DELETE /api/admin/news/{id}", s.handleAdminNewsPost)

	s.mux.HandleFunc("GET /api/admin/downloads", s.handleAdminDownloads)
	s.mux.HandleFunc("POST /api/admin/downloads", s.handleAdminDownloads)
	s.mux.HandleFunc("PUT /api/admin/downloads/{id}", s.handleAdminDownload)
	s.mux.HandleFunc("DELETE /api/admin/downloads/{id}", s.handleAdminDownload)

	s.mux.HandleFunc("POST /api/admin/download-categories", s.handleAdminDownloadCategories)
	s.mux.HandleFunc("PUT /api/admin/download-categories/{id}", s.handleAdminDownloadCategory)
	s.mux.HandleFunc("DELETE /api/admin/download-categories/{id}", s.handleAdminDownloadCategory)

	s.mux.HandleFunc("GET /api/admin/leads", s.handleAdminLeads)
	s.mux.HandleFunc("GET /api/admin/leads/export", s.handleAdminLeadsExport)
	s.mux.HandleFunc("DELETE /api/admin/leads/{id}", s.handleAdminLead)

	s.mux.HandleFunc("POST /api/admin/upload", s.handleAdminUpload)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.CategoriesWithCounts(r.Context())
	if err != nil {
		// browse reads prefer availability: degrade to an empty listing
		log.Error().Err(err).Msg("list categories")
		writeJSON(w, 200, map[string]any{"items": []domain.Category{}})
		return
	}
	writeJSON(w, 200, map[string]any{"items": cats})
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.GetCategory(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, 404, "category not found")
			return
		}
		writeError(w, 500, "store unavailable")
		return
	}
	writeJSON(w, 200, c)
}

// handleCatalog serves both /api/catalog and /api/catalog/{slug}. The
// category slug distinguishes "unknown category" (404, no product query)
// from "known category, no products" (200 with an empty page).
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	query := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	cat, pageData, err := s.catalog.ListProducts(r.Context(), slug, query, page)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, 404, "category not found")
			return
		}
		log.Error().Err(err).Str("category", slug).Msg("list products")
		writeJSON(w, 200, map[string]any{
			"items": []domain.Product{}, "total": 0, "page": 1, "pages": 0,
		})
		return
	}
	resp := map[string]any{
		"items":     pageData.Items,
		"total":     pageData.Total,
		"page":      pageData.Page,
		"page_size": pageData.PageSize,
		"pages":     pageData.Pages,
	}
	if cat != nil {
		resp["category"] = cat
	}
	writeJSON(w, 200, resp)
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	p, err := s.catalog.GetProduct(r.Context(), slug, true)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, 404, "product not found")
			return
		}
		writeError(w, 500, "store unavailable")
		return
	}
	related, err := s.catalog.RelatedProducts(r.Context(), p, 4)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("related products")
		related = []domain.Product{}
	}
	writeJSON(w, 200, map[string]any{"product": p, "related": related})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	page, _ := strconv.Atoi(qv.Get("page"))
	f := domain.NewsFilter{
		Query:         qv.Get("q"),
		Tag:           qv.Get("tag"),
		Page:          page,
		PublishedOnly: true,
	}
	res, err := s.news.List(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("list news")
		writeJSON(w, 200, map[string]any{"items": []domain.NewsPost{}, "total": 0, "page": 1, "pages": 0})
		return
	}
	writeJSON(w, 200, res)
}

func (s *Server) handleNewsLatest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.news.Latest(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("latest news")
		list = []domain.NewsPost{}
	}
	writeJSON(w, 200, map[string]any{"items": list})
}

func (s *Server) handleNewsPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	p, err := s.news.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, 404, "post not found")
			return
		}
		writeError(w, 500, "store unavailable")
		return
	}
	related, err := s.news.Related(r.Context(), p, 4)
	if err != nil {
		related = []domain.NewsPost{}
	}
	writeJSON(w, 200, map[string]any{"post": p, "related": related})
}

func (s *Server) handleDownloads(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	f := domain.DownloadFilter{Query: qv.Get("q"), PublishedOnly: true}
	if raw := qv.Get("category"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.CategoryID = &id
		}
	}
	list, err := s.downloads.List(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("list downloads")
		list = []domain.Download{}
	}
	writeJSON(w, 200, map[string]any{"items": list})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	d, err := s.downloads.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, 404, "download not found")
			return
		}
		writeError(w, 500, "store unavailable")
		return
	}
	writeJSON(w, 200, d)
}

func (s *Server) handleDownloadCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.downloads.Categories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list download categories")
		list = []domain.DownloadCategory{}
	}
	writeJSON(w, 200, map[string]any{"items": list})
}

func (s *Server) handleLeadCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name" validate:"required"`
		Phone   string `json:"phone" validate:"required,phone"`
		Email   string `json:"email" validate:"required,email"`
		Model   string `json:"model"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, 400, map[string]any{
			"error":  "validation failed",
			"fields": s.validate.Fields(err),
		})
		return
	}
	lead := &domain.Lead{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Model:   req.Model,
		Message: req.Message,
	}
	if err := s.leads.Create(r.Context(), lead); err != nil {
		log.Error().Err(err).Msg("create lead")
		writeError(w, 500, "could not save request")
		return
	}
	writeJSON(w, 201, lead)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
