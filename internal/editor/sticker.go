package editor

import (
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/pkg/overlay"
)

// CatalogEntry is a sticker that can be placed on an image.
type CatalogEntry struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
	Label string `json:"label"`
}

var catalog = []CatalogEntry{
	{Name: "cat", Glyph: "🐱", Label: "Cat"},
	{Name: "fish", Glyph: "🐟", Label: "Fish"},
	{Name: "heart", Glyph: "❤️", Label: "Heart"},
	{Name: "paw", Glyph: "🐾", Label: "Paw"},
	{Name: "yarn", Glyph: "🧶", Label: "Yarn"},
	{Name: "crown", Glyph: "👑", Label: "Crown"},
}

// Catalog returns the available stickers.
func Catalog() []CatalogEntry {
	return slices.Clone(catalog)
}

func lookupSticker(name string) (CatalogEntry, bool) {
	i := slices.IndexFunc(catalog, func(e CatalogEntry) bool { return e.Name == name })
	if i < 0 {
		return CatalogEntry{}, false
	}
	return catalog[i], true
}

// Sticker is a placed catalog sticker. Position is a percentage of the image box.
type Sticker struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Glyph    string           `json:"glyph"`
	Position overlay.Position `json:"position"`
}

// Move describes a sticker drag. Either Position is set directly, or Pointer
// and Box locate the drop in client coordinates.
type Move struct {
	Position *overlay.Position `json:"position,omitempty"`
	Pointer  *overlay.Point    `json:"pointer,omitempty"`
	Box      *overlay.Rect     `json:"box,omitempty"`
}

func (m Move) resolve() (overlay.Position, error) {
	switch {
	case m.Position != nil:
		return m.Position.Normalize(), nil
	case m.Pointer != nil && m.Box != nil:
		return overlay.Place(*m.Pointer, *m.Box)
	default:
		return overlay.Position{}, ErrInvalidMove
	}
}
