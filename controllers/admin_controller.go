package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leanttro/leanttrotech/apperrors"
	"github.com/leanttro/leanttrotech/auth"
	"github.com/leanttro/leanttrotech/clients"
	"github.com/leanttro/leanttrotech/logger"
	"github.com/leanttro/leanttrotech/metrics"
	"github.com/leanttro/leanttrotech/models"
	"github.com/leanttro/leanttrotech/services"
	"github.com/leanttro/leanttrotech/session"
	"go.uber.org/zap"
)

// AdminCatalog is the read side used by the admin pages.
type AdminCatalog interface {
	AdminPanel(ctx context.Context) models.AdminPanel
	AdminPassword(ctx context.Context) clients.Result[string]
}

// AdminCommands is the write side used by the admin forms.
type AdminCommands interface {
	SaveStore(ctx context.Context, form models.StoreForm, files services.Files) clients.Result[string]
	SaveCategory(ctx context.Context, form models.CategoryForm) clients.Result[string]
	SaveProduct(ctx context.Context, form models.ProductForm, files services.Files) clients.Result[string]
	SavePost(ctx context.Context, form models.PostForm, files services.Files) clients.Result[string]
	Delete(ctx context.Context, kind, id string) clients.Result[string]
}

// SessionSaver persists the session a handler returns.
type SessionSaver interface {
	Save(c *gin.Context, s session.Session) error
	Rotate(c *gin.Context, s session.Session) session.Session
}

// AdminAction handles a form post. It receives the caller's session and
// returns the session to persist together with the redirect target.
type AdminAction func(c *gin.Context, s session.Session) (session.Session, string)

type AdminController struct {
	catalog   AdminCatalog
	commands  AdminCommands
	verifier  auth.Verifier
	sessions  SessionSaver
	basePath  string
	maxUpload int64
}

func NewAdminController(catalog AdminCatalog, commands AdminCommands, verifier auth.Verifier, sessions SessionSaver, basePath string, maxUpload int64) *AdminController {
	return &AdminController{
		catalog:   catalog,
		commands:  commands,
		verifier:  verifier,
		sessions:  sessions,
		basePath:  basePath,
		maxUpload: maxUpload,
	}
}

func (a *AdminController) PanelPath() string { return a.basePath + "/admin" }
func (a *AdminController) LoginPath() string { return a.basePath + "/admin/login" }

// Handle adapts an AdminAction: the returned session is saved before the
// 303 redirect is written.
func (a *AdminController) Handle(action AdminAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, target := action(c, session.Current(c))
		if err := a.sessions.Save(c, s); err != nil {
			logger.FromContext(c).Error("Failed to save session", zap.Error(err))
		}
		c.Redirect(http.StatusSeeOther, target)
	}
}

// render drains the notice queue into the page.
func (a *AdminController) render(c *gin.Context, status int, name string, data gin.H) {
	notices, s := session.Current(c).TakeNotices()
	if len(notices) > 0 {
		if err := a.sessions.Save(c, s); err != nil {
			logger.FromContext(c).Error("Failed to save session", zap.Error(err))
		}
	}
	data["avisos"] = notices
	data["base_path"] = a.basePath
	c.HTML(status, name, data)
}

func (a *AdminController) LoginPage(c *gin.Context) {
	if session.Current(c).Authenticated {
		c.Redirect(http.StatusSeeOther, a.PanelPath())
		return
	}
	a.render(c, http.StatusOK, "login.html", gin.H{})
}

func (a *AdminController) Login(c *gin.Context, s session.Session) (session.Session, string) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		metrics.AdminLoginsTotal.WithLabelValues("failure").Inc()
		return s.WithNotice(session.NoticeError, "Informe a senha."), a.LoginPath()
	}

	stored := a.catalog.AdminPassword(c.Request.Context())
	if !stored.OK() {
		metrics.AdminLoginsTotal.WithLabelValues("error").Inc()
		logger.FromContext(c).Warn("Admin password unavailable", zap.String("status", stored.Status.String()), zap.Error(stored.Err))
		return s.WithNotice(session.NoticeError, "Não foi possível verificar a senha agora."), a.LoginPath()
	}

	if !a.verifier.Verify(stored.Data, form.Password) {
		metrics.AdminLoginsTotal.WithLabelValues("failure").Inc()
		_ = c.Error(apperrors.ErrInvalidCredentials)
		logger.FromContext(c).Info("Admin login rejected", zap.String("client_ip", c.ClientIP()))
		return s.WithNotice(session.NoticeError, "Senha incorreta."), a.LoginPath()
	}

	metrics.AdminLoginsTotal.WithLabelValues("success").Inc()
	logger.FromContext(c).Info("Admin login", zap.String("client_ip", c.ClientIP()))
	s = a.sessions.Rotate(c, s)
	s.Authenticated = true
	return s, a.PanelPath()
}

func (a *AdminController) Logout(c *gin.Context, s session.Session) (session.Session, string) {
	s.Authenticated = false
	return s.WithNotice(session.NoticeSuccess, "Você saiu do painel."), a.LoginPath()
}

func (a *AdminController) Panel(c *gin.Context) {
	panel := a.catalog.AdminPanel(c.Request.Context())
	a.render(c, http.StatusOK, "admin.html", gin.H{
		"loja":       panel.Store,
		"categorias": panel.Categories,
		"produtos":   panel.Products,
		"posts":      panel.Posts,
	})
}

func (a *AdminController) SaveStore(c *gin.Context, s session.Session) (session.Session, string) {
	var form models.StoreForm
	if err := c.ShouldBind(&form); err != nil {
		return a.rejected(c, s, "loja", err), a.PanelPath() + "#loja"
	}
	files, err := a.readFiles(c, models.StoreFileFields)
	if err != nil {
		return a.outcome(c, s, "loja", clients.Failed[string](err)), a.PanelPath() + "#loja"
	}
	res := a.commands.SaveStore(c.Request.Context(), form, files)
	return a.outcome(c, s, "loja", res), a.PanelPath() + "#loja"
}

func (a *AdminController) SaveCategory(c *gin.Context, s session.Session) (session.Session, string) {
	var form models.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		return a.rejected(c, s, "categoria", err), a.PanelPath() + "#categorias"
	}
	res := a.commands.SaveCategory(c.Request.Context(), form)
	return a.outcome(c, s, "categoria", res), a.PanelPath() + "#categorias"
}

func (a *AdminController) SaveProduct(c *gin.Context, s session.Session) (session.Session, string) {
	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		return a.rejected(c, s, "produto", err), a.PanelPath() + "#produtos"
	}
	files, err := a.readFiles(c, models.ProductFileFields)
	if err != nil {
		return a.outcome(c, s, "produto", clients.Failed[string](err)), a.PanelPath() + "#produtos"
	}
	res := a.commands.SaveProduct(c.Request.Context(), form, files)
	return a.outcome(c, s, "produto", res), a.PanelPath() + "#produtos"
}

func (a *AdminController) SavePost(c *gin.Context, s session.Session) (session.Session, string) {
	var form models.PostForm
	if err := c.ShouldBind(&form); err != nil {
		return a.rejected(c, s, "post", err), a.PanelPath() + "#posts"
	}
	files, err := a.readFiles(c, models.PostFileFields)
	if err != nil {
		return a.outcome(c, s, "post", clients.Failed[string](err)), a.PanelPath() + "#posts"
	}
	res := a.commands.SavePost(c.Request.Context(), form, files)
	return a.outcome(c, s, "post", res), a.PanelPath() + "#posts"
}

func (a *AdminController) Delete(c *gin.Context, s session.Session) (session.Session, string) {
	kind := c.Param("tipo")
	res := a.commands.Delete(c.Request.Context(), kind, c.Param("id"))
	target := a.PanelPath()
	if anchor, ok := deleteAnchors[kind]; ok {
		target += anchor
	}

	switch res.Status {
	case clients.StatusOK:
		metrics.AdminWritesTotal.WithLabelValues("excluir_"+kind, "ok").Inc()
		return s.WithNotice(session.NoticeSuccess, "Item excluído!"), target
	case clients.StatusEmpty:
		return s, target
	default:
		metrics.AdminWritesTotal.WithLabelValues("excluir_"+kind, "failed").Inc()
		return s.WithNotice(session.NoticeError, "Não foi possível excluir o item."), target
	}
}

var deleteAnchors = map[string]string{
	"categoria": "#categorias",
	"produto":   "#produtos",
	"post":      "#posts",
}

var savedNotices = map[string]string{
	"loja":      "Configurações da loja salvas!",
	"categoria": "Categoria salva!",
	"produto":   "Produto salvo!",
	"post":      "Post salvo!",
}

// outcome turns a write result into the notice shown on the panel.
func (a *AdminController) outcome(c *gin.Context, s session.Session, kind string, res clients.Result[string]) session.Session {
	if res.OK() {
		metrics.AdminWritesTotal.WithLabelValues(kind, "ok").Inc()
		return s.WithNotice(session.NoticeSuccess, savedNotices[kind])
	}

	metrics.AdminWritesTotal.WithLabelValues(kind, "failed").Inc()
	logger.FromContext(c).Warn("Admin write failed", zap.String("kind", kind), zap.Error(res.Err))

	switch {
	case errors.Is(res.Err, apperrors.ErrStoreNotDefined):
		return s.WithNotice(session.NoticeError, "Nenhuma loja configurada (LOJA_ID).")
	case errors.Is(res.Err, apperrors.ErrBadRequest):
		return s.WithNotice(session.NoticeError, "Dados inválidos: "+res.Err.Error())
	default:
		return s.WithNotice(session.NoticeError, fmt.Sprintf("Erro ao salvar %s. Nada foi alterado no CMS.", kind))
	}
}

// rejected reports a form that could not be parsed. Nothing reaches the CMS.
func (a *AdminController) rejected(c *gin.Context, s session.Session, kind string, err error) session.Session {
	return a.outcome(c, s, kind, clients.Failed[string](apperrors.Wrap(apperrors.ErrBadRequest, err)))
}

// readFiles reads the non-empty uploads among fields into memory.
func (a *AdminController) readFiles(c *gin.Context, fields []string) (services.Files, error) {
	files := services.Files{}
	for _, field := range fields {
		fh, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				continue
			}
			return nil, apperrors.Wrap(apperrors.ErrBadRequest, fmt.Errorf("%s: %w", field, err))
		}
		if fh.Size == 0 {
			continue
		}
		if fh.Size > a.maxUpload {
			return nil, apperrors.Wrap(apperrors.ErrBadRequest, fmt.Errorf("%s excede %d bytes", field, a.maxUpload))
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", field, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", field, err)
		}

		files[field] = clients.File{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
	}
	return files, nil
}
