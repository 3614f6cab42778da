package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leanttro/leanttrotech/apperrors"
	"github.com/leanttro/leanttrotech/clients"
	"github.com/leanttro/leanttrotech/logger"
	"github.com/leanttro/leanttrotech/models"
	"go.uber.org/zap"
)

// Catalog is the read side used by the public pages.
type Catalog interface {
	Store(ctx context.Context) models.StoreView
	Categories(ctx context.Context) []models.CategoryView
	Products(ctx context.Context, categoryID string) []models.ProductCard
	RecentPosts(ctx context.Context) []models.PostCard
	ProductBySlug(ctx context.Context, slug string) clients.Result[models.ProductDetail]
	PostBySlug(ctx context.Context, slug string, store models.StoreView) clients.Result[models.PostDetail]
}

type StorefrontController struct {
	catalog  Catalog
	basePath string
}

func NewStorefrontController(catalog Catalog, basePath string) *StorefrontController {
	return &StorefrontController{catalog: catalog, basePath: basePath}
}

func (s *StorefrontController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Index renders the catalog, optionally narrowed by ?categoria=<id>.
func (s *StorefrontController) Index(c *gin.Context) {
	ctx := c.Request.Context()
	category := c.Query("categoria")

	c.HTML(http.StatusOK, "index.html", gin.H{
		"base_path":       s.basePath,
		"loja":            s.catalog.Store(ctx),
		"categorias":      s.catalog.Categories(ctx),
		"categoria_ativa": category,
		"produtos":        s.catalog.Products(ctx, category),
		"posts":           s.catalog.RecentPosts(ctx),
	})
}

// Product renders one published product.
func (s *StorefrontController) Product(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	res := s.catalog.ProductBySlug(ctx, slug)
	switch res.Status {
	case clients.StatusEmpty:
		_ = c.Error(apperrors.ErrNotFound)
		c.String(http.StatusNotFound, "Produto não encontrado")
		return
	case clients.StatusFailed:
		_ = c.Error(apperrors.Wrap(apperrors.ErrInternalServer, res.Err))
		logger.FromContext(c).Error("Failed to load product", zap.String("slug", slug), zap.Error(res.Err))
		c.String(http.StatusInternalServerError, "Erro ao carregar produto")
		return
	}

	c.HTML(http.StatusOK, "produto.html", gin.H{
		"base_path": s.basePath,
		"loja":      s.catalog.Store(ctx),
		"produto":   res.Data,
	})
}

// Case renders one published post.
func (s *StorefrontController) Case(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")
	store := s.catalog.Store(ctx)

	res := s.catalog.PostBySlug(ctx, slug, store)
	switch res.Status {
	case clients.StatusEmpty:
		_ = c.Error(apperrors.ErrNotFound)
		c.String(http.StatusNotFound, "Case não encontrado")
		return
	case clients.StatusFailed:
		_ = c.Error(apperrors.Wrap(apperrors.ErrInternalServer, res.Err))
		logger.FromContext(c).Error("Failed to load case", zap.String("slug", slug), zap.Error(res.Err))
		c.String(http.StatusInternalServerError, "Erro ao carregar case")
		return
	}

	c.HTML(http.StatusOK, "case.html", gin.H{
		"base_path": s.basePath,
		"loja":      store,
		"case":      res.Data,
	})
}
