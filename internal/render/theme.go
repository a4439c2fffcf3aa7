package render

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
)

type rgb struct {
	R, G, B int
}

func (c rgb) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c rgb) color() *props.Color {
	return &props.Color{Red: c.R, Green: c.G, Blue: c.B}
}

type palette struct {
	// header fills table headings and title banners.
	header rgb
	// accent colours section titles.
	accent rgb
	// onHeader is the text colour used over header.
	onHeader rgb
}

var palettes = map[document.Theme]palette{
	document.ThemeBlueWave: {header: rgb{15, 118, 110}, accent: rgb{15, 118, 110}, onHeader: rgb{255, 255, 255}},
	document.ThemeClassic:  {header: rgb{55, 65, 81}, accent: rgb{31, 41, 55}, onHeader: rgb{255, 255, 255}},
	document.ThemeMinimal:  {header: rgb{243, 244, 246}, accent: rgb{107, 114, 128}, onHeader: rgb{17, 24, 39}},
}

func paletteFor(t document.Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}

	return palettes[document.ThemeBlueWave]
}
