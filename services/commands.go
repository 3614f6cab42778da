package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/leanttro/leanttrotech/apperrors"
	"github.com/leanttro/leanttrotech/clients"
	"github.com/leanttro/leanttrotech/models"
	"go.uber.org/zap"
)

// minPostIDLength is the shortest submitted post id treated as an existing post.
const minPostIDLength = 6

// Files maps a form field name to the file submitted under it.
type Files map[string]clients.File

// deleteCollections maps the admin delete type tag to its collection.
var deleteCollections = map[string]string{
	"categoria": CollectionCategories,
	"produto":   CollectionProducts,
	"post":      CollectionPosts,
}

// Commands applies admin edits to the CMS. Every method uploads attached
// files first and then issues exactly one create, update or delete. The
// returned Result carries the id of the affected record.
type Commands struct {
	cms     CMS
	storeID string
}

func NewCommands(cms CMS, storeID string) *Commands {
	return &Commands{cms: cms, storeID: storeID}
}

// SaveStore updates the configured store. The store is never created here.
func (s *Commands) SaveStore(ctx context.Context, form models.StoreForm, files Files) clients.Result[string] {
	if s.storeID == "" {
		return clients.Failed[string](apperrors.ErrStoreNotDefined)
	}

	payload := map[string]any{
		"nome":                 form.Name,
		"cor_primaria":         form.PrimaryColor,
		"whatsapp_comercial":   form.WhatsApp,
		"linkbannerprincipal1": form.Banner1Link,
		"linkbannerprincipal2": form.Banner2Link,
	}
	if form.AdminPassword != "" {
		payload["senha_admin"] = form.AdminPassword
	}
	if err := s.attach(ctx, payload, files, models.StoreFileFields); err != nil {
		return clients.Failed[string](err)
	}

	return s.cms.Update(ctx, CollectionStores, s.storeID, payload)
}

// SaveCategory creates the category when no id was submitted.
func (s *Commands) SaveCategory(ctx context.Context, form models.CategoryForm) clients.Result[string] {
	id := strings.TrimSpace(form.ID)
	update := id != ""

	payload := map[string]any{"loja_id": s.storeID}
	putText(payload, "nome", form.Name, update)
	putDefault(payload, "status", form.Status, models.StatusPublished, update)
	if n, err := strconv.Atoi(strings.TrimSpace(form.Sort)); err == nil {
		payload["sort"] = n
	}
	return s.upsert(ctx, CollectionCategories, update, id, payload)
}

// SaveProduct creates the product when no id was submitted. On update, blank
// fields are left out so the stored values survive.
func (s *Commands) SaveProduct(ctx context.Context, form models.ProductForm, files Files) clients.Result[string] {
	id := strings.TrimSpace(form.ID)
	update := id != ""

	payload := map[string]any{"loja_id": s.storeID}
	if form.Name != "" || !update {
		payload["nome"] = form.Name
		payload["slug"] = Slugify(form.Name)
	}
	putText(payload, "descricao", form.Description, update)
	if price := parsePrice(form.Price); price != nil || !update {
		payload["preco"] = price
	}
	putDefault(payload, "origem", form.Origin, models.DefaultOrigin, update)
	putDefault(payload, "status_urgencia", form.Urgency, models.DefaultUrgency, update)
	putDefault(payload, "status", form.Status, models.StatusPublished, update)
	if form.CategoryID != "" {
		payload["categoria_id"] = form.CategoryID
	}

	variants, err := parseVariants(form.Variants)
	if err != nil {
		return clients.Failed[string](apperrors.Wrap(apperrors.ErrBadRequest, err))
	}
	if variants != nil {
		payload["variantes"] = variants
	}

	if err := s.attach(ctx, payload, files, models.ProductFileFields); err != nil {
		return clients.Failed[string](err)
	}
	return s.upsert(ctx, CollectionProducts, update, id, payload)
}

// SavePost creates the post unless the submitted id is long enough to be a
// real post id.
func (s *Commands) SavePost(ctx context.Context, form models.PostForm, files Files) clients.Result[string] {
	id := strings.TrimSpace(form.ID)
	update := utf8.RuneCountInString(id) >= minPostIDLength

	payload := map[string]any{"loja_id": s.storeID}
	if form.Title != "" || !update {
		payload["titulo"] = form.Title
		payload["slug"] = Slugify(form.Title)
	}
	putText(payload, "resumo", form.Summary, update)
	putText(payload, "conteudo", form.Content, update)
	putDefault(payload, "status", form.Status, models.StatusPublished, update)

	if err := s.attach(ctx, payload, files, models.PostFileFields); err != nil {
		return clients.Failed[string](err)
	}
	return s.upsert(ctx, CollectionPosts, update, id, payload)
}

// Delete removes the record of the given type. An unknown type is Empty and
// nothing is sent to the CMS.
func (s *Commands) Delete(ctx context.Context, kind, id string) clients.Result[string] {
	collection, ok := deleteCollections[kind]
	if !ok || id == "" {
		zap.L().Warn("Ignoring delete of unknown type", zap.String("type", kind), zap.String("id", id))
		return clients.Empty[string]()
	}
	return s.cms.Delete(ctx, collection, id)
}

func (s *Commands) upsert(ctx context.Context, collection string, update bool, id string, payload map[string]any) clients.Result[string] {
	if update {
		return s.cms.Update(ctx, collection, id, payload)
	}
	return s.cms.Create(ctx, collection, payload)
}

// attach uploads each present file and stores the new file id under its field.
func (s *Commands) attach(ctx context.Context, payload map[string]any, files Files, fields []string) error {
	for _, field := range fields {
		f, ok := files[field]
		if !ok || len(f.Data) == 0 {
			continue
		}
		res := s.cms.Upload(ctx, f)
		if !res.OK() {
			return fmt.Errorf("upload %s: %w", field, res.Err)
		}
		payload[field] = res.Data
	}
	return nil
}

// putText sets key to value, except that a blank value never overwrites a
// stored one on update.
func putText(payload map[string]any, key, value string, update bool) {
	if value == "" && update {
		return
	}
	payload[key] = value
}

// putDefault is putText with def used for blank values on create.
func putDefault(payload map[string]any, key, value, def string, update bool) {
	if value == "" {
		if update {
			return
		}
		value = def
	}
	payload[key] = value
}

func parsePrice(raw string) any {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return nil
	}
	return raw
}

func parseVariants(raw string) ([]map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("variantes: %w", err)
	}
	return out, nil
}
