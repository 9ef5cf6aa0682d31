package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data renderers can use to customise
// their output without touching the form itself.
type RenderOptions struct {
	// Theme carries resolved theme tokens and CSS variables for renderers
	// that emit themed chrome.
	Theme *theme.RendererConfig
	// Method overrides the HTTP method declared by the view. Renderers are
	// responsible for translating unsupported verbs (PATCH/PUT/DELETE) into
	// browser-friendly POST submissions when needed.
	Method string
	// Messages maps violation tags to human readable templates. Missing tags
	// fall back to DefaultMessages, then to the raw tag.
	Messages map[string]string
	// ShowUntouched forces validation feedback on fields the user has not
	// visited yet. The default is to hold feedback until a field is touched.
	ShowUntouched bool
}
