package models

// Store is a row of the lojas collection.
type Store struct {
	ID            ID       `json:"id"`
	Name          string   `json:"nome"`
	PrimaryColor  string   `json:"cor_primaria"`
	WhatsApp      string   `json:"whatsapp_comercial"`
	Logo          ImageRef `json:"logo"`
	Banner1       ImageRef `json:"bannerprincipal1"`
	Banner1Link   string   `json:"linkbannerprincipal1"`
	Banner2       ImageRef `json:"bannerprincipal2"`
	Banner2Link   string   `json:"linkbannerprincipal2"`
	AdminPassword string   `json:"senha_admin"`
}

// Category is a row of the categorias collection.
type Category struct {
	ID      ID     `json:"id"`
	Name    string `json:"nome"`
	StoreID ID     `json:"loja_id"`
	Status  string `json:"status"`
	Sort    int    `json:"sort"`
}

// Variant is one element of produtos.variantes.
type Variant struct {
	Name  string   `json:"nome"`
	Photo ImageRef `json:"foto"`
}

// Product is a row of the produtos collection.
type Product struct {
	ID          ID          `json:"id"`
	Name        string      `json:"nome"`
	Slug        string      `json:"slug"`
	Description string      `json:"descricao"`
	Price       Price       `json:"preco"`
	Featured    ImageRef    `json:"imagem_destaque"`
	Image1      ImageRef    `json:"imagem1"`
	Image2      ImageRef    `json:"imagem2"`
	Variants    Variants    `json:"variantes"`
	Origin      string      `json:"origem"`
	Urgency     string      `json:"status_urgencia"`
	Category    CategoryRef `json:"categoria_id"`
	Status      string      `json:"status"`
}

// Post is a row of the posts collection ("cases" on the storefront).
type Post struct {
	ID          ID       `json:"id"`
	Title       string   `json:"titulo"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"resumo"`
	Content     string   `json:"conteudo"`
	Cover       ImageRef `json:"capa"`
	DateCreated string   `json:"date_created"`
	Status      string   `json:"status"`
}

// StatusPublished marks records visible on the public pages.
const StatusPublished = "published"
