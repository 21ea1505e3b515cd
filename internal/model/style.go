package model

// CountryStyle is the color/marker pair used to draw one country.
type CountryStyle struct {
	Country string
	Color   string
	Marker  string
}

// Palette is the ordered country -> style mapping. Only countries present in
// the palette are aggregated and drawn.
type Palette struct {
	order  []string
	styles map[string]CountryStyle
}

// NewPalette builds a palette preserving the given order. A later style for
// the same country replaces the earlier one in place.
func NewPalette(styles ...CountryStyle) *Palette {
	p := &Palette{styles: make(map[string]CountryStyle, len(styles))}
	for _, s := range styles {
		if _, ok := p.styles[s.Country]; !ok {
			p.order = append(p.order, s.Country)
		}
		p.styles[s.Country] = s
	}
	return p
}

// Lookup returns the style for a country.
func (p *Palette) Lookup(country string) (CountryStyle, bool) {
	s, ok := p.styles[country]
	return s, ok
}

// Countries returns the palette countries in configuration order.
func (p *Palette) Countries() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of countries in the palette.
func (p *Palette) Len() int { return len(p.order) }
