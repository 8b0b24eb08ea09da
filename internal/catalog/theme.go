package catalog

import "strconv"

// Icon identifies the pictogram shown for a system
type Icon int

const (
	IconCircuit Icon = iota
	IconLayers
	IconWifi
	IconThermometer
	IconWind
	IconRadio
	IconCPU
	IconVolume
	IconShield
)

var iconNames = [...]string{
	IconCircuit:     "circuit",
	IconLayers:      "layers",
	IconWifi:        "wifi",
	IconThermometer: "thermometer",
	IconWind:        "wind",
	IconRadio:       "radio",
	IconCPU:         "cpu",
	IconVolume:      "volume",
	IconShield:      "shield",
}

// String returns the configuration token of the icon
func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return "Icon(" + strconv.Itoa(int(i)) + ")"
	}
	return iconNames[i]
}

// MarshalText renders the icon as its token
func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Color identifies a brand accent palette
type Color int

const (
	ColorPrimary Color = iota
	ColorKidde
	ColorAirSense
	ColorEMS
	ColorEdwards
)

var colorNames = [...]string{
	ColorPrimary:  "primary",
	ColorKidde:    "brand-kidde",
	ColorAirSense: "brand-airsense",
	ColorEMS:      "brand-ems",
	ColorEdwards:  "brand-edwards",
}

// String returns the configuration token of the color
func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "Color(" + strconv.Itoa(int(c)) + ")"
	}
	return colorNames[c]
}

// MarshalText renders the color as its token
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseError is returned when a theme token is not part of the vocabulary
type ParseError struct {
	Type  string
	Value string
}

func (e *ParseError) Error() string {
	return "catalog: invalid " + e.Type + " token " + strconv.Quote(e.Value)
}

// ParseIcon maps a configuration token to an Icon
func ParseIcon(token string) (Icon, error) {
	for i, name := range iconNames {
		if name == token {
			return Icon(i), nil
		}
	}
	return IconCircuit, &ParseError{Type: "Icon", Value: token}
}

// IconFor is ParseIcon with IconCircuit as the fallback
func IconFor(token string) Icon {
	icon, _ := ParseIcon(token)
	return icon
}

// ParseColor maps a configuration token to a Color
func ParseColor(token string) (Color, error) {
	for i, name := range colorNames {
		if name == token {
			return Color(i), nil
		}
	}
	return ColorPrimary, &ParseError{Type: "Color", Value: token}
}

// ColorFor is ParseColor with ColorPrimary as the fallback
func ColorFor(token string) Color {
	color, _ := ParseColor(token)
	return color
}
