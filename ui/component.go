package ui

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ComponentType is the closed set of renderable component kinds. The
// frontend owns one renderer per type; anything outside the set is a
// synthesis failure, not a new feature.
type ComponentType string

const (
	TypeHero        ComponentType = "hero"
	TypeCard        ComponentType = "card"
	TypeGallery     ComponentType = "gallery"
	TypeList        ComponentType = "list"
	TypeStats       ComponentType = "stats"
	TypeTestimonial ComponentType = "testimonial"
)

const (
	maxTitleLen   = 60
	maxContentLen = 200
)

// Component is one typed unit of the generated interface.
type Component struct {
	Type  ComponentType  `json:"type"`
	Props map[string]any `json:"props"`
}

// Description is the ordered component list returned to the frontend.
type Description struct {
	Components []Component `json:"components"`
	Error      string      `json:"error,omitempty"`
}

// ImageItem is one entry of a gallery's images list.
type ImageItem struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// ParseDescription decodes generated output into a Description and checks
// every component against its type's required shape. It fails closed: any
// malformed component rejects the whole payload so the caller can fall back.
func ParseDescription(raw string) (*Description, error) {
	raw = stripCodeFence(raw)

	var desc Description
	if err := json.Unmarshal([]byte(raw), &desc); err != nil {
		return nil, fmt.Errorf("ui description is not valid JSON: %w", err)
	}

	if len(desc.Components) == 0 {
		return nil, fmt.Errorf("ui description has no components")
	}

	for i, c := range desc.Components {
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("component %d (%s): %w", i, c.Type, err)
		}
	}

	return &desc, nil
}

func (c Component) validate() error {
	switch c.Type {
	case TypeHero:
		return requireStrings(c.Props, "title")
	case TypeCard:
		return requireStrings(c.Props, "title", "content")
	case TypeGallery:
		if err := requireStrings(c.Props, "title"); err != nil {
			return err
		}
		return requireImageList(c.Props, "images")
	case TypeList:
		if err := requireStrings(c.Props, "title"); err != nil {
			return err
		}
		return requireItemList(c.Props, "items", "text")
	case TypeStats:
		if err := requireStrings(c.Props, "title"); err != nil {
			return err
		}
		return requireItemList(c.Props, "data", "value", "label")
	case TypeTestimonial:
		return requireStrings(c.Props, "quote", "author")
	default:
		return fmt.Errorf("unknown component type %q", c.Type)
	}
}

func requireStrings(props map[string]any, keys ...string) error {
	for _, key := range keys {
		v, ok := props[key]
		if !ok {
			return fmt.Errorf("missing required property %q", key)
		}
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return fmt.Errorf("property %q must be a non-empty string", key)
		}
	}
	return nil
}

func requireImageList(props map[string]any, key string) error {
	items, err := listProp(props, key)
	if err != nil {
		return err
	}
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("%s[%d] must be an object", key, i)
		}
		if err := requireStrings(entry, "url"); err != nil {
			return fmt.Errorf("%s[%d]: %w", key, i, err)
		}
	}
	return nil
}

func requireItemList(props map[string]any, key string, fields ...string) error {
	items, err := listProp(props, key)
	if err != nil {
		return err
	}
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("%s[%d] must be an object", key, i)
		}
		if err := requireStrings(entry, fields...); err != nil {
			return fmt.Errorf("%s[%d]: %w", key, i, err)
		}
	}
	return nil
}

func listProp(props map[string]any, key string) ([]any, error) {
	v, ok := props[key]
	if !ok {
		return nil, fmt.Errorf("missing required property %q", key)
	}
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("property %q must be a non-empty list", key)
	}
	return items, nil
}

// Truncate enforces the length bounds the prompt merely asks for: titles at
// 60 runes, card content at 200. Prompt instructions are advisory; this pass
// is the guarantee.
func (d *Description) Truncate() {
	for _, c := range d.Components {
		truncateProp(c.Props, "title", maxTitleLen)
		if c.Type == TypeCard {
			truncateProp(c.Props, "content", maxContentLen)
		}
	}
}

func truncateProp(props map[string]any, key string, limit int) {
	s, ok := props[key].(string)
	if !ok {
		return
	}
	runes := []rune(s)
	if len(runes) > limit {
		props[key] = string(runes[:limit-1]) + "…"
	}
}

// ResolveImages replaces image property values that match a generated-image
// key with the actual payload. Unmatched values pass through untouched; they
// are assumed to be literal URLs from search results.
func (d *Description) ResolveImages(generated map[string]string) {
	if len(generated) == 0 {
		return
	}

	resolve := func(v string) string {
		if payload, ok := generated[v]; ok {
			return payload
		}
		return v
	}

	for _, c := range d.Components {
		for _, key := range []string{"image", "avatar"} {
			if s, ok := c.Props[key].(string); ok {
				c.Props[key] = resolve(s)
			}
		}

		images, ok := c.Props["images"].([]any)
		if !ok {
			continue
		}
		for _, item := range images {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := entry["url"].(string); ok {
				entry["url"] = resolve(s)
			}
		}
	}
}

// FallbackDescription builds the single-card description used whenever
// synthesis cannot produce a valid component list. The contract is that a
// caller always receives at least one renderable component.
func FallbackDescription(title, content, badge string) *Description {
	return &Description{
		Components: []Component{
			{
				Type: TypeCard,
				Props: map[string]any{
					"title":   title,
					"content": content,
					"badge":   badge,
				},
			},
		},
	}
}

// ErrorDescription is the outermost-boundary fallback: a renderable card
// carrying the failure text for diagnosis.
func ErrorDescription(err error) *Description {
	desc := FallbackDescription(
		"Error",
		fmt.Sprintf("An error occurred while processing your request: %v", err),
		"Error",
	)
	desc.Error = err.Error()
	return desc
}

// stripCodeFence removes a single markdown code fence wrapping, if present.
// Models are told to emit bare JSON but routinely fence it anyway.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
