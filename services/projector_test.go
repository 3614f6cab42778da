package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/leanttro/leanttrotech/clients"
	"github.com/leanttro/leanttrotech/clients/cmstest"
	"github.com/leanttro/leanttrotech/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "https://placehold.co/600x600?text=Produto"

func newFixture(t *testing.T) (*cmstest.Server, *clients.CMSClient) {
	t.Helper()
	srv := cmstest.NewServer()
	t.Cleanup(srv.Close)
	return srv, clients.NewCMSClient(srv.URL, "", 0)
}

func seedCatalog(srv *cmstest.Server) {
	srv.Seed(CollectionStores, map[string]any{
		"id":                   7.0,
		"nome":                 "Leanttro Tech",
		"cor_primaria":         "#111111",
		"whatsapp_comercial":   "5511999999999",
		"logo":                 map[string]any{"id": "logo-file"},
		"bannerprincipal1":     "banner-1",
		"linkbannerprincipal1": "/promo",
		"bannerprincipal2":     nil,
		"senha_admin":          "segredo",
	})
	srv.Seed(CollectionCategories,
		map[string]any{"id": 1.0, "nome": "Notebooks", "loja_id": "7", "status": "published", "sort": 2.0},
		map[string]any{"id": 2.0, "nome": "Mouses", "loja_id": "7", "status": "published", "sort": 1.0},
		map[string]any{"id": 3.0, "nome": "Rascunho", "loja_id": "7", "status": "draft", "sort": 0.0},
	)
	srv.Seed(CollectionProducts,
		map[string]any{
			"id": 10.0, "nome": "Notebook X", "slug": "notebook-x", "preco": "4999.90",
			"imagem_destaque": "img-dest", "imagem1": "img-1", "imagem2": "img-2",
			"variantes":    []any{map[string]any{"nome": "Prata", "foto": "foto-prata"}, map[string]any{}},
			"categoria_id": 1.0, "loja_id": "7", "status": "published",
		},
		map[string]any{
			"id": 11.0, "nome": "Mouse Y", "slug": "mouse-y", "preco": nil,
			"imagem1": map[string]any{"id": "img-m"}, "categoria_id": 2.0,
			"origem": "Importado", "status_urgencia": "Últimas unidades",
			"loja_id": "7", "status": "published",
		},
		map[string]any{"id": 12.0, "nome": "Sem foto", "slug": "sem-foto", "loja_id": "7", "status": "published"},
		map[string]any{"id": 13.0, "nome": "Draft", "slug": "draft", "loja_id": "7", "status": "draft"},
		map[string]any{"id": 14.0, "nome": "Outra loja", "slug": "outra", "loja_id": "8", "status": "published"},
	)
	srv.Relate(CollectionProducts, "categoria_id", CollectionCategories)
}

func TestStoreProjection(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)

	store := NewProjector(cms, "7", placeholder).Store(context.Background())

	assert.Equal(t, "Leanttro Tech", store.Name)
	assert.Equal(t, "#111111", store.PrimaryColor)
	assert.Equal(t, srv.URL+"/assets/logo-file", store.Logo)
	assert.Equal(t, srv.URL+"/assets/banner-1", store.Banner1)
	assert.Equal(t, "/promo", store.Link1)
	assert.Empty(t, store.Banner2)
	assert.Equal(t, "#", store.Link2)
}

func TestStoreDefaults(t *testing.T) {
	t.Run("store id unset", func(t *testing.T) {
		srv, cms := newFixture(t)
		store := NewProjector(cms, "", placeholder).Store(context.Background())
		assert.Equal(t, models.DefaultStoreView(), store)
		assert.Empty(t, srv.Requests())
	})

	t.Run("lookup fails", func(t *testing.T) {
		srv, cms := newFixture(t)
		seedCatalog(srv)
		srv.FailWith(CollectionStores, http.StatusInternalServerError)
		store := NewProjector(cms, "7", placeholder).Store(context.Background())
		assert.Equal(t, "Tech Store", store.Name)
		assert.Equal(t, "#7c3aed", store.PrimaryColor)
		assert.Empty(t, store.WhatsApp)
	})
}

func TestCategoriesArePublishedAndSorted(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)

	cats := NewProjector(cms, "7", placeholder).Categories(context.Background())

	require.Len(t, cats, 2)
	assert.Equal(t, "Mouses", cats[0].Name)
	assert.Equal(t, "Notebooks", cats[1].Name)
}

func TestProductsProjection(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)

	products := NewProjector(cms, "7", placeholder).Products(context.Background(), "")

	require.Len(t, products, 3)
	byID := map[string]models.ProductCard{}
	for _, p := range products {
		byID[p.ID] = p
	}

	nb := byID["10"]
	assert.Equal(t, srv.URL+"/assets/img-dest", nb.Image)
	require.NotNil(t, nb.Price)
	assert.InDelta(t, 4999.90, *nb.Price, 0.001)
	assert.Equal(t, "1", nb.CategoryID)
	assert.Equal(t, "Estoque", nb.Origin)
	assert.Equal(t, "Normal", nb.Urgency)
	require.Len(t, nb.Variants, 2)
	assert.Equal(t, models.VariantView{Name: "Prata", Photo: srv.URL + "/assets/foto-prata"}, nb.Variants[0])
	assert.Equal(t, models.VariantView{Name: "Padrão", Photo: nb.Image}, nb.Variants[1])

	mouse := byID["11"]
	assert.Equal(t, srv.URL+"/assets/img-m", mouse.Image)
	assert.Nil(t, mouse.Price)
	assert.Equal(t, "Importado", mouse.Origin)
	assert.Equal(t, "Últimas unidades", mouse.Urgency)

	assert.Equal(t, placeholder, byID["12"].Image)
	assert.Empty(t, byID["12"].Variants)
}

func TestProductsCategoryFilter(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)

	products := NewProjector(cms, "7", placeholder).Products(context.Background(), "2")

	require.Len(t, products, 1)
	assert.Equal(t, "Mouse Y", products[0].Name)

	last := srv.Requests()[len(srv.Requests())-1]
	assert.Equal(t, "2", last.Query.Get("filter[categoria_id][_eq]"))
	assert.Equal(t, "published", last.Query.Get("filter[status][_eq]"))
	assert.Equal(t, "7", last.Query.Get("filter[loja_id][_eq]"))
}

func TestProductsFailureDegradesToEmpty(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	srv.FailWith(CollectionProducts, http.StatusServiceUnavailable)

	products := NewProjector(cms, "7", placeholder).Products(context.Background(), "")

	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductBySlug(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	p := NewProjector(cms, "7", placeholder)

	t.Run("found", func(t *testing.T) {
		res := p.ProductBySlug(context.Background(), "notebook-x")
		require.True(t, res.OK())
		assert.Equal(t, "Notebooks", res.Data.CategoryName)
		assert.Len(t, res.Data.Gallery, 3)
	})

	t.Run("category defaults", func(t *testing.T) {
		res := p.ProductBySlug(context.Background(), "sem-foto")
		require.True(t, res.OK())
		assert.Equal(t, "Software", res.Data.CategoryName)
		assert.Equal(t, []string{placeholder}, res.Data.Gallery)
	})

	t.Run("draft is not found", func(t *testing.T) {
		assert.True(t, p.ProductBySlug(context.Background(), "draft").Empty())
	})

	t.Run("unknown slug", func(t *testing.T) {
		assert.True(t, p.ProductBySlug(context.Background(), "nope").Empty())
	})

	t.Run("failure", func(t *testing.T) {
		srv.FailWith(CollectionProducts, http.StatusInternalServerError)
		defer srv.FailWith(CollectionProducts, 0)
		assert.True(t, p.ProductBySlug(context.Background(), "notebook-x").Failed())
	})
}

func TestRecentPostsAndCase(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	for i, date := range []string{"2024-01-01T10:00:00Z", "2024-06-01T10:00:00Z", "2024-03-01T10:00:00Z", "2024-02-01", "2024-05-01T10:00:00.000Z", "2024-04-01T10:00:00"} {
		srv.Seed(CollectionPosts, map[string]any{
			"titulo": "Post", "slug": Slugify("post " + string(rune('a'+i))), "resumo": "r",
			"conteudo": "<p>c</p>", "capa": "capa", "date_created": date,
			"status": "published", "loja_id": "7",
		})
	}
	p := NewProjector(cms, "7", placeholder)

	posts := p.RecentPosts(context.Background())
	require.Len(t, posts, 5)
	assert.Equal(t, "01/06/2024", posts[0].Date)
	assert.Equal(t, srv.URL+"/assets/capa", posts[0].Cover)

	store := p.Store(context.Background())
	res := p.PostBySlug(context.Background(), "post-a", store)
	require.True(t, res.OK())
	assert.Equal(t, "Equipe Leanttro Tech", res.Data.Author)
	assert.Equal(t, "01/01/2024", res.Data.Date)
	assert.Equal(t, "<p>c</p>", res.Data.Content)

	assert.True(t, p.PostBySlug(context.Background(), "missing", store).Empty())
}

func TestAdminPanelIncludesDrafts(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)

	panel := NewProjector(cms, "7", placeholder).AdminPanel(context.Background())

	assert.Equal(t, "Leanttro Tech", panel.Store.Name)
	assert.Len(t, panel.Categories, 3)
	assert.Len(t, panel.Products, 4)
	assert.Empty(t, panel.Posts)
}

func TestAdminPassword(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)

	res := NewProjector(cms, "7", placeholder).AdminPassword(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, "segredo", res.Data)

	assert.True(t, NewProjector(cms, "", placeholder).AdminPassword(context.Background()).Empty())
}
