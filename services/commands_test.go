package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/leanttro/leanttrotech/apperrors"
	"github.com/leanttro/leanttrotech/clients"
	"github.com/leanttro/leanttrotech/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestSaveStoreUploadsThenPatches(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	cmd := NewCommands(cms, "7")

	res := cmd.SaveStore(context.Background(), models.StoreForm{Name: "Nova", PrimaryColor: "#000000"}, Files{
		"logo": {Filename: "logo.png", ContentType: "image/png", Data: []byte("png")},
	})

	require.True(t, res.OK())
	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/files", reqs[0].Path)
	assert.Equal(t, http.MethodPatch, reqs[1].Method)
	assert.Equal(t, "/items/lojas/7", reqs[1].Path)

	body := decodeBody(t, reqs[1].Body)
	assert.Equal(t, srv.Files()[0].ID, body["logo"])
	assert.Equal(t, "Nova", body["nome"])
	assert.NotContains(t, body, "senha_admin")
	assert.NotContains(t, body, "bannerprincipal1")
}

func TestSaveStoreWithoutStoreID(t *testing.T) {
	srv, cms := newFixture(t)

	res := NewCommands(cms, "").SaveStore(context.Background(), models.StoreForm{Name: "x"}, nil)

	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, apperrors.ErrStoreNotDefined)
	assert.Empty(t, srv.Requests())
}

func TestSaveStoreUploadFailureSkipsPatch(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	srv.FailWith("files", http.StatusInternalServerError)

	res := NewCommands(cms, "7").SaveStore(context.Background(), models.StoreForm{Name: "Nova"}, Files{
		"logo": {Filename: "logo.png", Data: []byte("png")},
	})

	assert.True(t, res.Failed())
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/files", reqs[0].Path)
}

func TestSaveCategoryCreateOrUpdate(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	cmd := NewCommands(cms, "7")

	created := cmd.SaveCategory(context.Background(), models.CategoryForm{Name: "Monitores", Sort: "4"})
	require.True(t, created.OK())
	rec, ok := srv.Record(CollectionCategories, created.Data)
	require.True(t, ok)
	assert.Equal(t, "7", rec["loja_id"])
	assert.Equal(t, "published", rec["status"])
	assert.Equal(t, 4.0, rec["sort"])

	updated := cmd.SaveCategory(context.Background(), models.CategoryForm{ID: "1", Name: "Laptops", Status: "draft"})
	require.True(t, updated.OK())
	rec, _ = srv.Record(CollectionCategories, "1")
	assert.Equal(t, "Laptops", rec["nome"])
	assert.Equal(t, "draft", rec["status"])
}

func TestSaveProduct(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	cmd := NewCommands(cms, "7")

	res := cmd.SaveProduct(context.Background(), models.ProductForm{
		Name:       "Teclado Mecânico RGB!",
		Price:      "349,90",
		CategoryID: "1",
		Variants:   `[{"nome":"ABNT2"}]`,
	}, Files{
		"imagem1":         {Filename: "b.jpg", Data: []byte("b")},
		"imagem_destaque": {Filename: "a.jpg", Data: []byte("a")},
		"imagem2":         {Filename: "empty.jpg"},
	})

	require.True(t, res.OK())
	files := srv.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "a.jpg", files[0].Filename)
	assert.Equal(t, "b.jpg", files[1].Filename)

	rec, ok := srv.Record(CollectionProducts, res.Data)
	require.True(t, ok)
	assert.Equal(t, "teclado-mecânico-rgb", rec["slug"])
	assert.Equal(t, "349.90", rec["preco"])
	assert.Equal(t, files[0].ID, rec["imagem_destaque"])
	assert.Equal(t, files[1].ID, rec["imagem1"])
	assert.NotContains(t, rec, "imagem2")
	assert.Equal(t, "Estoque", rec["origem"])
	assert.Equal(t, "Normal", rec["status_urgencia"])
	assert.Equal(t, []any{map[string]any{"nome": "ABNT2"}}, rec["variantes"])
}

func TestSaveProductUpdateKeepsBlankFields(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	cmd := NewCommands(cms, "7")

	res := cmd.SaveProduct(context.Background(), models.ProductForm{
		ID:   "10",
		Name: "Notebook X2",
	}, Files{
		"imagem1": {Filename: "novo.jpg", Data: []byte("n")},
	})

	require.True(t, res.OK())
	assert.Equal(t, "10", res.Data)

	var writes []string
	for _, r := range srv.Requests() {
		writes = append(writes, r.Method+" "+r.Path)
	}
	assert.Equal(t, []string{"POST /files", "PATCH /items/produtos/10"}, writes)

	reqs := srv.Requests()
	body := decodeBody(t, reqs[len(reqs)-1].Body)
	assert.Equal(t, srv.Files()[0].ID, body["imagem1"])
	assert.Equal(t, "notebook-x2", body["slug"])
	for _, field := range []string{"descricao", "preco", "origem", "status_urgencia", "status", "variantes", "imagem_destaque"} {
		assert.NotContains(t, body, field)
	}

	rec, ok := srv.Record(CollectionProducts, "10")
	require.True(t, ok)
	assert.Equal(t, "4999.90", rec["preco"])
	assert.Equal(t, "img-dest", rec["imagem_destaque"])
	assert.Equal(t, "published", rec["status"])
}

func TestSaveProductRejectsBadVariants(t *testing.T) {
	srv, cms := newFixture(t)

	res := NewCommands(cms, "7").SaveProduct(context.Background(), models.ProductForm{Name: "X", Variants: "{oops"}, nil)

	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, apperrors.ErrBadRequest)
	assert.Empty(t, srv.Requests())
}

func TestSavePostIDHeuristic(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		method string
	}{
		{"no id creates", "", http.MethodPost},
		{"short id creates", "12345", http.MethodPost},
		{"five accented characters create", "ãéíõú", http.MethodPost},
		{"long id updates", "a1b2c3d4-0000-4000-8000-000000000000", http.MethodPatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, cms := newFixture(t)
			srv.Seed(CollectionPosts, map[string]any{"id": "a1b2c3d4-0000-4000-8000-000000000000", "titulo": "Old"})

			NewCommands(cms, "7").SavePost(context.Background(), models.PostForm{ID: tt.id, Title: "Case Novo"}, nil)

			reqs := srv.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.method, reqs[0].Method)
			body := decodeBody(t, reqs[0].Body)
			assert.Equal(t, "case-novo", body["slug"])
			assert.Equal(t, "7", body["loja_id"])
		})
	}
}

func TestSavePostUpdateKeepsBlankFields(t *testing.T) {
	srv, cms := newFixture(t)
	id := "a1b2c3d4-0000-4000-8000-000000000000"
	srv.Seed(CollectionPosts, map[string]any{"id": id, "titulo": "Old", "resumo": "Resumo", "conteudo": "<p>x</p>"})

	res := NewCommands(cms, "7").SavePost(context.Background(), models.PostForm{ID: id, Title: "New"}, nil)

	require.True(t, res.OK())
	rec, ok := srv.Record(CollectionPosts, id)
	require.True(t, ok)
	assert.Equal(t, "New", rec["titulo"])
	assert.Equal(t, "Resumo", rec["resumo"])
	assert.Equal(t, "<p>x</p>", rec["conteudo"])
}

func TestDelete(t *testing.T) {
	srv, cms := newFixture(t)
	seedCatalog(srv)
	cmd := NewCommands(cms, "7")

	assert.True(t, cmd.Delete(context.Background(), "produto", "10").OK())
	_, ok := srv.Record(CollectionProducts, "10")
	assert.False(t, ok)

	before := len(srv.Requests())
	assert.True(t, cmd.Delete(context.Background(), "loja", "7").Empty())
	assert.Len(t, srv.Requests(), before)
}

func TestWriteFailureIsSurfaced(t *testing.T) {
	srv, cms := newFixture(t)
	srv.FailWith(CollectionCategories, http.StatusForbidden)

	res := NewCommands(cms, "7").SaveCategory(context.Background(), models.CategoryForm{Name: "X"})

	assert.True(t, res.Failed())
	assert.Equal(t, http.StatusBadGateway, apperrors.StatusCode(res.Err))
}

var _ CMS = (*clients.CMSClient)(nil)
