package component

import "image/color"

// Color is the flat fill used by the top-down renderer.
type Color struct {
	Color color.Color
}

var ColorComponent = NewComponent[Color]()
