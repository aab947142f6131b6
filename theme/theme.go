// Package theme holds the compiled-in style themes consumed by the
// document exporter. Themes are read-only lookup values; the registry
// is never mutated after process start.
package theme

// HeadingStyle is the typographic rule set for heading paragraphs.
type HeadingStyle struct {
	FontSize     float64 // points
	Bold         bool
	Color        string // #rrggbb
	Uppercase    bool
	MarginBottom float64 // points
}

// ParagraphStyle is the typographic rule set for body paragraphs.
type ParagraphStyle struct {
	FontSize     float64 // points
	LineHeight   float64
	Color        string // #rrggbb
	MarginBottom float64 // points
}

// PageMargins are expressed in twentieths of a point (twips), the
// target format's absolute unit, and pass through unconverted.
type PageMargins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Theme is a named bundle of typographic and layout constants.
type Theme struct {
	ID             string
	Name           string
	Description    string
	FontFamily     string
	PrimaryColor   string
	SecondaryColor string
	Heading        HeadingStyle
	Paragraph      ParagraphStyle
	Margins        PageMargins
}

// DefaultID is the theme used when a requested id is unknown.
const DefaultID = "modern"

var registry = map[string]Theme{
	"modern": {
		ID:             "modern",
		Name:           "Executivo Moderno",
		Description:    "Limpo, direto e profissional com fontes sans-serif.",
		FontFamily:     "Inter, sans-serif",
		PrimaryColor:   "#000000",
		SecondaryColor: "#3b82f6",
		Heading: HeadingStyle{
			FontSize:     24,
			Bold:         true,
			Color:        "#000000",
			MarginBottom: 12,
		},
		Paragraph: ParagraphStyle{
			FontSize:     11,
			LineHeight:   1.5,
			Color:        "#374151",
			MarginBottom: 8,
		},
		Margins: PageMargins{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440},
	},
	"corporate": {
		ID:             "corporate",
		Name:           "Corporativo Clássico",
		Description:    "Elegância tradicional com tons de azul e fontes serifadas.",
		FontFamily:     "Times New Roman, serif",
		PrimaryColor:   "#1e3a8a",
		SecondaryColor: "#1e40af",
		Heading: HeadingStyle{
			FontSize:     22,
			Bold:         true,
			Color:        "#1e3a8a",
			Uppercase:    true,
			MarginBottom: 15,
		},
		Paragraph: ParagraphStyle{
			FontSize:     12,
			LineHeight:   1.2,
			Color:        "#1f2937",
			MarginBottom: 10,
		},
		Margins: PageMargins{Top: 1800, Right: 1800, Bottom: 1800, Left: 1800},
	},
	"creative": {
		ID:             "creative",
		Name:           "Criativo e Vibrante",
		Description:    "Design dinâmico para apresentações de alto impacto.",
		FontFamily:     "Outfit, sans-serif",
		PrimaryColor:   "#7c3aed",
		SecondaryColor: "#db2777",
		Heading: HeadingStyle{
			FontSize:     28,
			Bold:         true,
			Color:        "#7c3aed",
			MarginBottom: 20,
		},
		Paragraph: ParagraphStyle{
			FontSize:     11,
			LineHeight:   1.6,
			Color:        "#4b5563",
			MarginBottom: 12,
		},
		Margins: PageMargins{Top: 1000, Right: 1000, Bottom: 1500, Left: 1000},
	},
}

// Get returns the theme for id, falling back to the modern theme for
// unknown ids.
func Get(id string) Theme {
	if t, ok := registry[id]; ok {
		return t
	}
	return registry[DefaultID]
}

// All returns every registered theme.
func All() []Theme {
	out := make([]Theme, 0, len(registry))
	for _, id := range []string{"modern", "corporate", "creative"} {
		out = append(out, registry[id])
	}
	return out
}
