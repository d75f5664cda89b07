package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

const adminTokenTTL = 12 * time.Hour

type adminClaims struct {
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
}

func (s *Server) makeAdminToken(email string) string {
	b, _ := json.Marshal(adminClaims{Email: email, Exp: time.Now().Add(adminTokenTTL).Unix()})
	h := hmac.New(sha256.New, s.secret)
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return sig + "." + base64.RawURLEncoding.EncodeToString(b)
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	parts := strings.SplitN(tok, ".", 2)
	if len(parts) != 2 {
		return "", errors.New("malformed token")
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", errors.New("malformed token")
	}
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", errors.New("bad signature")
	}
	var c adminClaims
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", err
	}
	if c.Email == "" || time.Now().Unix() > c.Exp {
		return "", errors.New("expired")
	}
	if _, ok := s.adminAllowed[c.Email]; !ok {
		return "", errors.New("not allowed")
	}
	return c.Email, nil
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		if _, err := s.verifyAdminToken(strings.TrimSpace(auth[7:])); err == nil {
			return true
		}
	}
	writeError(w, 401, "unauthorized")
	return false
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, ok := s.adminAllowed[email]; !ok || s.adminHash == "" {
		writeError(w, 401, "unauthorized")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(req.Password)) != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	writeJSON(w, 200, map[string]any{"token": s.makeAdminToken(email)})
}

// handleAdminDashboard returns the entity counters for the back-office start
// page; the five counts are independent reads joined before responding.
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var products, categories, news, downloads, leads int64
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { products, err = s.catalog.Products.Count(ctx); return })
	g.Go(func() (err error) { categories, err = s.catalog.Categories.Count(ctx); return })
	g.Go(func() (err error) { news, err = s.news.News.Count(ctx); return })
	g.Go(func() (err error) { downloads, err = s.downloads.Downloads.Count(ctx); return })
	g.Go(func() (err error) { leads, err = s.leads.Leads.Count(ctx); return })
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("dashboard counts")
		writeError(w, 500, "store unavailable")
		return
	}
	writeJSON(w, 200, map[string]any{
		"products":   products,
		"categories": categories,
		"news":       news,
		"downloads":  downloads,
		"leads":      leads,
	})
}

// --- products ---

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method == http.MethodGet {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		res, err := s.catalog.ListAllProducts(r.Context(), r.URL.Query().Get("q"), page, 20)
		if err != nil {
			writeError(w, 500, "store unavailable")
			return
		}
		writeJSON(w, 200, res)
		return
	}

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	p.ID = uuid.Nil
	if err := s.catalog.SaveProduct(r.Context(), &p); err != nil {
		writeError(w, 500, "save failed")
		return
	}
	writeJSON(w, 201, p)
}

func (s *Server) handleAdminProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	slug := r.PathValue("slug")
	p, err := s.catalog.GetProduct(r.Context(), slug, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, 404, "product not found")
			return
		}
		writeError(w, 500, "store unavailable")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, p)
	case http.MethodPut:
		id, created := p.ID, p.CreatedAt
		if err := json.NewDecoder(r.Body).Decode(p); err != nil {
			writeError(w, 400, "invalid json")
			return
		}
		p.ID, p.CreatedAt = id, created
		if err := s.catalog.SaveProduct(r.Context(), p); err != nil {
			writeError(w, 500, "save failed")
			return
		}
		writeJSON(w, 200, p)
	case http.MethodDelete:
		if err := s.catalog.DeleteProduct(r.Context(), p.ID); err != nil {
			writeError(w, 500, "delete failed")
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok"})
	}
}

// --- categories ---

func (s *Server) handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method == http.MethodGet {
		cats, err := s.catalog.CategoriesWithCounts(r.Context())
		if err != nil {
			writeError(w, 500, "store unavailable")
			return
		}
		writeJSON(w, 200, map[string]any{"items": cats})
		return
	}

	var c domain.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	c.ID = uuid.Nil
	if err := s.catalog.SaveCategory(r.Context(), &c); err != nil {
		writeError(w, 500, "save failed")
		return
	}
	writeJSON(w, 201, c)
}

func (s *Server) handleAdminCategory(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		c, err := s.catalog.Categories.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, 404, "category not found")
				return
			}
			writeError(w, 500, "store unavailable")
			return
		}
		created := c.CreatedAt
		if err := json.NewDecoder(r.Body).Decode(c); err != nil {
			writeError(w, 400, "invalid json")
			return
		}
		c.ID, c.CreatedAt = id, created
		if err := s.catalog.SaveCategory(r.Context(), c); err != nil {
			writeError(w, 500, "save failed")
			return
		}
		writeJSON(w, 200, c)
	case http.MethodDelete:
		if err := s.catalog.DeleteCategory(r.Context(), id); err != nil {
			writeError(w, 500, "delete failed")
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok"})
	}
}

// --- news ---

func (s *Server) handleAdminNews(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method == http.MethodGet {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		res, err := s.news.List(r.Context(), domain.NewsFilter{
			Query: r.URL.Query().Get("q"),
			Tag:   r.URL.Query().Get("tag"),
			Page:  page,
		})
		if err != nil {
			writeError(w, 500, "store unavailable")
			return
		}
		writeJSON(w, 200, res)
		return
	}

	var p domain.NewsPost
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	p.ID = 0
	if email, err := s.adminEmail(r); err == nil {
		p.AuthorEmail = email
	}
	if err := s.news.Save(r.Context(), &p); err != nil {
		writeError(w, 500, "save failed")
		return
	}
	writeJSON(w, 201, p)
}

func (s *Server) handleAdminNewsPost(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.news.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, 404, "post not found")
				return
			}
			writeError(w, 500, "store unavailable")
			return
		}
		writeJSON(w, 200, p)
	case http.MethodPut:
		p, err := s.news.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, 404, "post not found")
				return
			}
			writeError(w, 500, "store unavailable")
			return
		}
		created := p.CreatedAt
		if err := json.NewDecoder(r.Body).Decode(p); err != nil {
			writeError(w, 400, "invalid json")
			return
		}
		p.ID, p.CreatedAt = id, created
		if err := s.news.Save(r.Context(), p); err != nil {
			writeError(w, 500, "save failed")
			return
		}
		writeJSON(w, 200, p)
	case http.MethodDelete:
		if err := s.news.Delete(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, 404, "post not found")
				return
			}
			writeError(w, 500, "delete failed")
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok"})
	}
}

// --- downloads ---

func (s *Server) handleAdminDownloads(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method == http.MethodGet {
		list, err := s.downloads.List(r.Context(), domain.DownloadFilter{
			Query: r.URL.Query().Get("q"),
		})
		if err != nil {
			writeError(w, 500, "store unavailable")
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
		return
	}

	var d domain.Download
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	d.ID = 0
	if err := s.downloads.Save(r.Context(), &d); err != nil {
		writeError(w, 500, "save failed")
		return
	}
	writeJSON(w, 201, d)
}

func (s *Server) handleAdminDownload(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		d, err := s.downloads.Downloads.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, 404, "download not found")
				return
			}
			writeError(w, 500, "store unavailable")
			return
		}
		created := d.CreatedAt
		if err := json.NewDecoder(r.Body).Decode(d); err != nil {
			writeError(w, 400, "invalid json")
			return
		}
		d.ID, d.CreatedAt, d.Category = id, created, nil
		if err := s.downloads.Save(r.Context(), d); err != nil {
			writeError(w, 500, "save failed")
			return
		}
		writeJSON(w, 200, d)
	case http.MethodDelete:
		if err := s.downloads.Delete(r.Context(), id); err != nil {
			writeError(w, 500, "delete failed")
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok"})
	}
}

func (s *Server) handleAdminDownloadCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var c domain.DownloadCategory
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	c.ID = 0
	if err := s.downloads.SaveCategory(r.Context(), &c); err != nil {
		writeError(w, 500, "save failed")
		return
	}
	writeJSON(w, 201, c)
}

func (s *Server) handleAdminDownloadCategory(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var c domain.DownloadCategory
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, 400, "invalid json")
			return
		}
		c.ID = id
		if err := s.downloads.SaveCategory(r.Context(), &c); err != nil {
			writeError(w, 500, "save failed")
			return
		}
		writeJSON(w, 200, c)
	case http.MethodDelete:
		if err := s.downloads.DeleteCategory(r.Context(), id); err != nil {
			writeError(w, 500, "delete failed")
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok"})
	}
}

// --- leads ---

func (s *Server) handleAdminLeads(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	list, err := s.leads.List(r.Context())
	if err != nil {
		writeError(w, 500, "store unavailable")
		return
	}
	writeJSON(w, 200, map[string]any{"items": list})
}

func (s *Server) handleAdminLead(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}
	if err := s.leads.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, 404, "lead not found")
			return
		}
		writeError(w, 500, "delete failed")
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) handleAdminLeadsExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	list, err := s.leads.List(r.Context())
	if err != nil {
		writeError(w, 500, "store unavailable")
		return
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"ID", "Имя", "Телефон", "Email", "Модель", "Сообщение", "Дата"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, l := range list {
		values := []any{l.ID, l.Name, l.Phone, l.Email, l.Model, l.Message, l.CreatedAt.Format("2006-01-02 15:04")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=leads-%s.xlsx", time.Now().Format("2006-01-02")))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("leads export")
	}
}

// --- upload ---

var uploadBuckets = map[string]struct{}{
	"products":   {},
	"categories": {},
	"news":       {},
	"downloads":  {},
}

func (s *Server) handleAdminUpload(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		writeError(w, 400, "invalid multipart body")
		return
	}
	bucket := r.FormValue("bucket")
	if _, ok := uploadBuckets[bucket]; !ok {
		writeError(w, 400, "unknown bucket")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, 400, "file required")
		return
	}
	defer file.Close()

	name := uuid.New().String() + strings.ToLower(filepath.Ext(hdr.Filename))
	url, err := s.storage.Upload(r.Context(), bucket, name, file)
	if err != nil {
		log.Error().Err(err).Str("bucket", bucket).Msg("upload")
		writeError(w, 502, "upload failed")
		return
	}
	writeJSON(w, 200, map[string]any{"url": url})
}

func (s *Server) adminEmail(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return s.verifyAdminToken(strings.TrimSpace(auth[7:]))
	}
	return "", errors.New("no token")
}
