package controllers

import "html/template"

// TemplateFuncs are the helpers the HTML templates call.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
		// Case bodies are authored as HTML in the CMS.
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}
