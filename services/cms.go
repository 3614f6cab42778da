package services

import (
	"context"

	"github.com/leanttro/leanttrotech/clients"
)

// CMS is the subset of the Directus client the services depend on.
type CMS interface {
	BaseURL() string
	Items(ctx context.Context, collection string, q clients.Query) clients.Result[[]byte]
	Item(ctx context.Context, collection, id string, q clients.Query) clients.Result[[]byte]
	Create(ctx context.Context, collection string, payload map[string]any) clients.Result[string]
	Update(ctx context.Context, collection, id string, payload map[string]any) clients.Result[string]
	Delete(ctx context.Context, collection, id string) clients.Result[string]
	Upload(ctx context.Context, f clients.File) clients.Result[string]
}

// Collection names in the CMS.
const (
	CollectionStores     = "lojas"
	CollectionCategories = "categorias"
	CollectionProducts   = "produtos"
	CollectionPosts      = "posts"
)
