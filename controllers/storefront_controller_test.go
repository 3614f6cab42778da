package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanttro/leanttrotech/apperrors"
	"github.com/leanttro/leanttrotech/clients"
	"github.com/leanttro/leanttrotech/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	product clients.Result[models.ProductDetail]
	post    clients.Result[models.PostDetail]
}

func (s stubCatalog) Store(context.Context) models.StoreView { return models.DefaultStoreView() }
func (s stubCatalog) Categories(context.Context) []models.CategoryView {
	return nil
}
func (s stubCatalog) Products(context.Context, string) []models.ProductCard { return nil }
func (s stubCatalog) RecentPosts(context.Context) []models.PostCard       { return nil }
func (s stubCatalog) ProductBySlug(context.Context, string) clients.Result[models.ProductDetail] {
	return s.product
}
func (s stubCatalog) PostBySlug(context.Context, string, models.StoreView) clients.Result[models.PostDetail] {
	return s.post
}

func TestDetailPagesRecordErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		catalog stubCatalog
		path    string
		status  int
		want    error
	}{
		{"product missing", stubCatalog{product: clients.Empty[models.ProductDetail]()}, "/produto/x", http.StatusNotFound, apperrors.ErrNotFound},
		{"product failed", stubCatalog{product: clients.Failed[models.ProductDetail](apperrors.ErrUpstream)}, "/produto/x", http.StatusInternalServerError, apperrors.ErrInternalServer},
		{"case missing", stubCatalog{post: clients.Empty[models.PostDetail]()}, "/case/x", http.StatusNotFound, apperrors.ErrNotFound},
		{"case failed", stubCatalog{post: clients.Failed[models.PostDetail](apperrors.ErrUpstream)}, "/case/x", http.StatusInternalServerError, apperrors.ErrInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewStorefrontController(tt.catalog, "")

			var recorded []error
			r := gin.New()
			r.Use(func(c *gin.Context) {
				c.Next()
				for _, e := range c.Errors {
					recorded = append(recorded, e.Err)
				}
			})
			r.GET("/produto/:slug", ctrl.Product)
			r.GET("/case/:slug", ctrl.Case)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			require.Len(t, recorded, 1)
			assert.ErrorIs(t, recorded[0], tt.want)
		})
	}
}
