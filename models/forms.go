package models

// LoginForm is the admin login prompt.
type LoginForm struct {
	Password string `form:"senha" binding:"required"`
}

// StoreForm edits the configured store. An empty password keeps the current one.
type StoreForm struct {
	Name          string `form:"nome"`
	PrimaryColor  string `form:"cor_primaria"`
	WhatsApp      string `form:"whatsapp_comercial"`
	Banner1Link   string `form:"linkbannerprincipal1"`
	Banner2Link   string `form:"linkbannerprincipal2"`
	AdminPassword string `form:"senha_admin"`
}

type CategoryForm struct {
	ID     string `form:"id"`
	Name   string `form:"nome"`
	Status string `form:"status"`
	Sort   string `form:"sort"`
}

type ProductForm struct {
	ID          string `form:"id"`
	Name        string `form:"nome"`
	Description string `form:"descricao"`
	Price       string `form:"preco"`
	CategoryID  string `form:"categoria_id"`
	Origin      string `form:"origem"`
	Urgency     string `form:"status_urgencia"`
	Status      string `form:"status"`
	Variants    string `form:"variantes"`
}

type PostForm struct {
	ID      string `form:"id"`
	Title   string `form:"titulo"`
	Summary string `form:"resumo"`
	Content string `form:"conteudo"`
	Status  string `form:"status"`
}

// File fields accepted by each admin form, in upload order.
var (
	StoreFileFields   = []string{"logo", "bannerprincipal1", "bannerprincipal2"}
	ProductFileFields = []string{"imagem_destaque", "imagem1", "imagem2"}
	PostFileFields    = []string{"capa"}
)
