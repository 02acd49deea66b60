package board

// Swatch is a named column background offered to users.
type Swatch struct {
	Name  string `json:"name"  yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Palette is the fixed set of column backgrounds, in the order new columns cycle through them.
var Palette = []Swatch{ //nolint:gochecknoglobals // fixed palette
	{Name: "neutralDark", Color: "#3c3836"},
	{Name: "neutralMid", Color: "#504945"},
	{Name: "neutralWarm", Color: "#665c54"},
	{Name: "softBlue", Color: "#076678"},
	{Name: "goldenYellow", Color: "#b57614"},
	{Name: "deepAqua", Color: "#427b58"},
	{Name: "warmPurple", Color: "#b16286"},
	{Name: "forestGreen", Color: "#79740e"},
}

// NextColor returns the palette color for the next column added to the board.
func (b *Board) NextColor() string {
	return Palette[len(b.Columns)%len(Palette)].Color
}

// ResolveColor maps a swatch name to its hex value. Anything else is returned unchanged.
func ResolveColor(nameOrHex string) string {
	for _, s := range Palette {
		if s.Name == nameOrHex {
			return s.Color
		}
	}
	return nameOrHex
}
