package models

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ID is a Directus primary key. Collections use integer or uuid keys; both
// decode to their string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*id = ID(scalarString(v))
	return nil
}

// ImageRef is a file reference as Directus returns it: a bare file id, an
// expanded file object with an "id" key, an absolute URL, or null.
type ImageRef string

func (r *ImageRef) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if obj, ok := v.(map[string]any); ok {
		*r = ImageRef(scalarString(obj["id"]))
		return nil
	}
	*r = ImageRef(scalarString(v))
	return nil
}

// CategoryRef is the categoria_id relation: a raw id, or the expanded
// category object when the request asked for fields=*.*.
type CategoryRef struct {
	ID   string
	Name string
}

func (r *CategoryRef) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if obj, ok := v.(map[string]any); ok {
		r.ID = scalarString(obj["id"])
		r.Name, _ = obj["nome"].(string)
		return nil
	}
	r.ID = scalarString(v)
	r.Name = ""
	return nil
}

// Price is an optional decimal. Directus sends decimals as strings; numbers,
// null and "" are accepted too. Unparseable values decode as unset.
type Price struct {
	Amount float64
	Set    bool
}

func (p *Price) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Price{}
	switch t := v.(type) {
	case float64:
		*p = Price{Amount: t, Set: true}
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*p = Price{Amount: f, Set: true}
		}
	}
	return nil
}

// Ptr returns the amount, or nil when no price is set.
func (p Price) Ptr() *float64 {
	if !p.Set {
		return nil
	}
	v := p.Amount
	return &v
}

// Variants is the JSON list stored in produtos.variantes. Anything that is
// not a list decodes as empty; non-object elements are skipped.
type Variants []Variant

func (vs *Variants) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		*vs = nil
		return nil
	}
	out := make(Variants, 0, len(items))
	for _, item := range items {
		var v Variant
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*vs = out
	return nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
