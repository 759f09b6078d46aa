package scene

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Drawing palette. Selection and hover tints follow the usual schematic
// viewer conventions: yellow for a selected signal path, orange for the
// resize affordance.
var (
	colorOutline     = colornames.Black
	colorOutlineLock = colornames.Gray
	colorFill        = color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf0, A: 0xff}
	colorName        = colornames.Darkslategray
	colorPortLabel   = colornames.Dimgray
	colorValueLabel  = colornames.Darkgreen
	colorWire        = colornames.Black
	colorSelected    = colornames.Orange
	colorGridDot     = color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
	colorConstant    = colornames.Saddlebrown
)
