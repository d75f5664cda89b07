package app

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stgcorp/stalex-shop/internal/adapters/httpserver"
	"github.com/stgcorp/stalex-shop/internal/adapters/mailer"
	"github.com/stgcorp/stalex-shop/internal/adapters/repo/postgres"
	cldstorage "github.com/stgcorp/stalex-shop/internal/adapters/storage/cloudinary"
	"github.com/stgcorp/stalex-shop/internal/adapters/storage/localfs"
	"github.com/stgcorp/stalex-shop/internal/cache"
	"github.com/stgcorp/stalex-shop/internal/domain"
	"github.com/stgcorp/stalex-shop/internal/usecase"
)

type App struct {
	DB         *gorm.DB
	CatalogUC  *usecase.CatalogUC
	CompareUC  *usecase.CompareUC
	NewsUC     *usecase.NewsUC
	DownloadUC *usecase.DownloadUC
	LeadUC     *usecase.LeadUC
	Storage    domain.FileStorage
}

func NewApp(db *gorm.DB) (*App, error) {
	catRepo := postgres.NewCategoryRepo(db)
	prodRepo := postgres.NewProductRepo(db)
	newsRepo := postgres.NewNewsRepo(db)
	dlRepo := postgres.NewDownloadRepo(db)
	leadRepo := postgres.NewLeadRepo(db)

	var c cache.Cache = cache.NewNoop()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := cache.NewRedis(addr, os.Getenv("REDIS_PASSWORD"), 0)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, caching disabled")
		} else {
			c = rdb
		}
	}

	var storage domain.FileStorage
	if url := os.Getenv("CLOUDINARY_URL"); url != "" {
		cld, err := cldstorage.New(url)
		if err != nil {
			return nil, err
		}
		storage = cld
	} else {
		dir := os.Getenv("STORAGE_DIR")
		if dir == "" {
			dir = "uploads"
		}
		_ = os.MkdirAll(dir, 0o755)
		baseURL := os.Getenv("BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:8080"
		}
		storage = localfs.New(dir, baseURL)
	}

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	notifier := mailer.New(
		os.Getenv("SMTP_HOST"),
		smtpPort,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("LEADS_EMAIL"),
	)

	app := &App{DB: db, Storage: storage}
	app.CatalogUC = &usecase.CatalogUC{
		Categories: catRepo,
		Products:   prodRepo,
		Cache:      c,
		CacheTTL:   5 * time.Minute,
	}
	app.CompareUC = &usecase.CompareUC{Products: prodRepo}
	app.NewsUC = &usecase.NewsUC{News: newsRepo}
	app.DownloadUC = &usecase.DownloadUC{Downloads: dlRepo}
	app.LeadUC = &usecase.LeadUC{Leads: leadRepo, Notifier: notifier}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CatalogUC, a.CompareUC, a.NewsUC, a.DownloadUC, a.LeadUC, a.Storage)
}

func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(
		&domain.Category{}, &domain.Product{},
		&domain.NewsPost{}, &domain.DownloadCategory{}, &domain.Download{},
		&domain.Lead{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_news_posts_tags_gin ON news_posts USING gin (tags)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_downloads_tags_gin ON downloads USING gin (tags)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_specs_gin ON products USING gin (specs)").Error

	return nil
}
