package molecule

import "strings"

// rasmolColors is the RasMol CPK palette keyed by upper-case element symbol.
var rasmolColors = map[string]string{
	"H":  "#ffffff",
	"HE": "#ffc0cb",
	"LI": "#b22222",
	"B":  "#00ff00",
	"C":  "#c8c8c8",
	"N":  "#8f8fff",
	"O":  "#f00000",
	"F":  "#daa520",
	"NA": "#0000ff",
	"MG": "#228b22",
	"AL": "#808090",
	"SI": "#daa520",
	"P":  "#ffa500",
	"S":  "#ffc832",
	"CL": "#00ff00",
	"CA": "#808090",
	"TI": "#808090",
	"CR": "#808090",
	"MN": "#808090",
	"FE": "#ffa500",
	"NI": "#a52a2a",
	"CU": "#a52a2a",
	"ZN": "#a52a2a",
	"BR": "#a52a2a",
	"AG": "#808090",
	"I":  "#a020f0",
	"BA": "#ffa500",
	"AU": "#daa520",
}

// DefaultElementColor is used for elements missing from the palette.
const DefaultElementColor = "#ff1493"

// ElementColor returns the RasMol colour of an element symbol.
//
// Parameters:
//   - element: the element symbol, any case
//
// Returns:
//   - string: the "#rrggbb" colour
func ElementColor(element string) string {
	if c, ok := rasmolColors[strings.ToUpper(strings.TrimSpace(element))]; ok {
		return c
	}
	return DefaultElementColor
}
