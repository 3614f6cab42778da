package models

// StoreView is the store header every page renders.
type StoreView struct {
	ID           string `json:"id"`
	Name         string `json:"nome"`
	Logo         string `json:"logo"`
	PrimaryColor string `json:"cor_primaria"`
	WhatsApp     string `json:"whatsapp"`
	Banner1      string `json:"banner1"`
	Link1        string `json:"link1"`
	Banner2      string `json:"banner2"`
	Link2        string `json:"link2"`
}

// Store defaults when no store is configured or the lookup fails.
const (
	DefaultStoreName    = "Tech Store"
	DefaultPrimaryColor = "#7c3aed"
	DefaultBannerLink   = "#"
	DefaultVariantName  = "Padrão"
	DefaultCategoryName = "Software"
	DefaultOrigin       = "Estoque"
	DefaultUrgency      = "Normal"
)

// DefaultStoreView is rendered when the store cannot be loaded.
func DefaultStoreView() StoreView {
	return StoreView{
		Name:         DefaultStoreName,
		PrimaryColor: DefaultPrimaryColor,
		WhatsApp:     "",
	}
}

type CategoryView struct {
	ID     string `json:"id"`
	Name   string `json:"nome"`
	Status string `json:"status"`
	Sort   int    `json:"sort"`
}

type VariantView struct {
	Name  string `json:"nome"`
	Photo string `json:"foto"`
}

// ProductCard is a product as listed on the catalog.
type ProductCard struct {
	ID         string        `json:"id"`
	Name       string        `json:"nome"`
	Slug       string        `json:"slug"`
	Price      *float64      `json:"preco"`
	Image      string        `json:"imagem"`
	Origin     string        `json:"origem"`
	Urgency    string        `json:"urgencia"`
	Variants   []VariantView `json:"variantes"`
	CategoryID string        `json:"categoria_id"`
	Status     string        `json:"status"`
}

// ProductDetail adds what the product page needs on top of the card.
type ProductDetail struct {
	ProductCard
	Description  string   `json:"descricao"`
	CategoryName string   `json:"categoria"`
	Gallery      []string `json:"galeria"`
}

// PostCard is a case as listed on the catalog.
type PostCard struct {
	ID      string `json:"id"`
	Title   string `json:"titulo"`
	Summary string `json:"resumo"`
	Cover   string `json:"capa"`
	Slug    string `json:"slug"`
	Date    string `json:"data"`
	Status  string `json:"status"`
}

// PostDetail is a full case page.
type PostDetail struct {
	PostCard
	Content string `json:"conteudo"`
	Author  string `json:"autor"`
}

// AdminPanel is everything the admin panel lists for the configured store.
type AdminPanel struct {
	Store      StoreView
	Categories []CategoryView
	Products   []ProductCard
	Posts      []PostCard
}
