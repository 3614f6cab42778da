package services

import (
	"context"

	"github.com/leanttro/leanttrotech/clients"
	"github.com/leanttro/leanttrotech/models"
)

const recentPostsLimit = 5

// Projector reads store content from the CMS and reshapes it for templates.
// Listing failures degrade to empty slices and the store to its defaults;
// detail lookups return a Result so callers can tell 404 from 500.
type Projector struct {
	cms         CMS
	images      ImageResolver
	storeID     string
	placeholder string
}

func NewProjector(cms CMS, storeID, placeholder string) *Projector {
	return &Projector{
		cms:         cms,
		images:      NewImageResolver(cms.BaseURL()),
		storeID:     storeID,
		placeholder: placeholder,
	}
}

func (p *Projector) scoped() clients.Query {
	return clients.NewQuery().Eq("loja_id", p.storeID)
}

func (p *Projector) published() clients.Query {
	return p.scoped().Eq("status", models.StatusPublished)
}

func (p *Projector) loadStore(ctx context.Context) clients.Result[models.Store] {
	if p.storeID == "" {
		return clients.Empty[models.Store]()
	}
	return clients.DecodeOne[models.Store](
		p.cms.Item(ctx, CollectionStores, p.storeID, clients.NewQuery().Fields("*.*")),
	)
}

// Store returns the store header, or the defaults when it cannot be loaded.
func (p *Projector) Store(ctx context.Context) models.StoreView {
	res := p.loadStore(ctx)
	if !res.OK() {
		return models.DefaultStoreView()
	}
	return p.storeView(res.Data)
}

func (p *Projector) storeView(s models.Store) models.StoreView {
	return models.StoreView{
		ID:           string(s.ID),
		Name:         orDefault(s.Name, models.DefaultStoreName),
		Logo:         p.images.Resolve(s.Logo),
		PrimaryColor: orDefault(s.PrimaryColor, models.DefaultPrimaryColor),
		WhatsApp:     s.WhatsApp,
		Banner1:      p.images.Resolve(s.Banner1),
		Link1:        orDefault(s.Banner1Link, models.DefaultBannerLink),
		Banner2:      p.images.Resolve(s.Banner2),
		Link2:        orDefault(s.Banner2Link, models.DefaultBannerLink),
	}
}

// AdminPassword returns the stored admin password of the configured store.
func (p *Projector) AdminPassword(ctx context.Context) clients.Result[string] {
	res := p.loadStore(ctx)
	if !res.OK() {
		return clients.Result[string]{Status: res.Status, Err: res.Err}
	}
	return clients.OK(res.Data.AdminPassword)
}

// Categories lists the published categories in their configured order.
func (p *Projector) Categories(ctx context.Context) []models.CategoryView {
	return p.categories(ctx, p.published().Sort("sort"))
}

func (p *Projector) categories(ctx context.Context, q clients.Query) []models.CategoryView {
	if p.storeID == "" {
		return []models.CategoryView{}
	}
	res := clients.DecodeList[models.Category](p.cms.Items(ctx, CollectionCategories, q))
	out := make([]models.CategoryView, 0, len(res.Data))
	for _, c := range res.OrElse(nil) {
		out = append(out, models.CategoryView{
			ID:     string(c.ID),
			Name:   c.Name,
			Status: c.Status,
			Sort:   c.Sort,
		})
	}
	return out
}

// Products lists published products, optionally narrowed to one category.
func (p *Projector) Products(ctx context.Context, categoryID string) []models.ProductCard {
	q := p.published().Fields("*.*")
	if categoryID != "" {
		q = q.Eq("categoria_id", categoryID)
	}
	return p.products(ctx, q)
}

func (p *Projector) products(ctx context.Context, q clients.Query) []models.ProductCard {
	if p.storeID == "" {
		return []models.ProductCard{}
	}
	res := clients.DecodeList[models.Product](p.cms.Items(ctx, CollectionProducts, q))
	out := make([]models.ProductCard, 0, len(res.Data))
	for _, prod := range res.OrElse(nil) {
		out = append(out, p.productCard(prod))
	}
	return out
}

func (p *Projector) productCard(prod models.Product) models.ProductCard {
	image := p.images.FirstOf(p.placeholder, prod.Featured, prod.Image1)

	variants := make([]models.VariantView, 0, len(prod.Variants))
	for _, v := range prod.Variants {
		variants = append(variants, models.VariantView{
			Name:  orDefault(v.Name, models.DefaultVariantName),
			Photo: p.images.FirstOf(image, v.Photo),
		})
	}

	return models.ProductCard{
		ID:         string(prod.ID),
		Name:       prod.Name,
		Slug:       prod.Slug,
		Price:      prod.Price.Ptr(),
		Image:      image,
		Origin:     orDefault(prod.Origin, models.DefaultOrigin),
		Urgency:    orDefault(prod.Urgency, models.DefaultUrgency),
		Variants:   variants,
		CategoryID: prod.Category.ID,
		Status:     prod.Status,
	}
}

// ProductBySlug loads one published product with its category expanded.
func (p *Projector) ProductBySlug(ctx context.Context, slug string) clients.Result[models.ProductDetail] {
	if p.storeID == "" || slug == "" {
		return clients.Empty[models.ProductDetail]()
	}
	q := p.published().Eq("slug", slug).Fields("*.*").Limit(1)
	res := clients.First(clients.DecodeList[models.Product](p.cms.Items(ctx, CollectionProducts, q)))
	if !res.OK() {
		return clients.Result[models.ProductDetail]{Status: res.Status, Err: res.Err}
	}

	prod := res.Data
	card := p.productCard(prod)
	gallery := make([]string, 0, 3)
	for _, ref := range []models.ImageRef{prod.Featured, prod.Image1, prod.Image2} {
		if u := p.images.Resolve(ref); u != "" {
			gallery = append(gallery, u)
		}
	}
	if len(gallery) == 0 {
		gallery = append(gallery, card.Image)
	}

	return clients.OK(models.ProductDetail{
		ProductCard:  card,
		Description:  prod.Description,
		CategoryName: orDefault(prod.Category.Name, models.DefaultCategoryName),
		Gallery:      gallery,
	})
}

// RecentPosts lists the newest published posts.
func (p *Projector) RecentPosts(ctx context.Context) []models.PostCard {
	return p.posts(ctx, p.published().Sort("-date_created").Limit(recentPostsLimit))
}

func (p *Projector) posts(ctx context.Context, q clients.Query) []models.PostCard {
	if p.storeID == "" {
		return []models.PostCard{}
	}
	res := clients.DecodeList[models.Post](p.cms.Items(ctx, CollectionPosts, q))
	out := make([]models.PostCard, 0, len(res.Data))
	for _, post := range res.OrElse(nil) {
		out = append(out, p.postCard(post))
	}
	return out
}

func (p *Projector) postCard(post models.Post) models.PostCard {
	return models.PostCard{
		ID:      string(post.ID),
		Title:   post.Title,
		Summary: post.Summary,
		Cover:   p.images.Resolve(post.Cover),
		Slug:    post.Slug,
		Date:    FormatDate(post.DateCreated),
		Status:  post.Status,
	}
}

// PostBySlug loads one published case. The author line names the store.
func (p *Projector) PostBySlug(ctx context.Context, slug string, store models.StoreView) clients.Result[models.PostDetail] {
	if p.storeID == "" || slug == "" {
		return clients.Empty[models.PostDetail]()
	}
	q := p.published().Eq("slug", slug).Fields("*.*").Limit(1)
	res := clients.First(clients.DecodeList[models.Post](p.cms.Items(ctx, CollectionPosts, q)))
	if !res.OK() {
		return clients.Result[models.PostDetail]{Status: res.Status, Err: res.Err}
	}
	return clients.OK(models.PostDetail{
		PostCard: p.postCard(res.Data),
		Content:  res.Data.Content,
		Author:   "Equipe " + store.Name,
	})
}

// AdminPanel lists everything of the configured store in every status.
func (p *Projector) AdminPanel(ctx context.Context) models.AdminPanel {
	return models.AdminPanel{
		Store:      p.Store(ctx),
		Categories: p.categories(ctx, p.scoped().Sort("sort")),
		Products:   p.products(ctx, p.scoped().Fields("*.*").Sort("-id")),
		Posts:      p.posts(ctx, p.scoped().Sort("-date_created")),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
