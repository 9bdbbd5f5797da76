package point

// Colour is an RGB colour with components in [0, 1]. This mirrors the
// teacher's willow.Color shape (R,G,B,A in [0,1]) minus the alpha channel,
// which the analysis core's range/ion colours never carry.
type Colour struct {
	R, G, B float32
}

// White is the default "no colour assigned" value.
var White = Colour{1, 1, 1}

// InRange01 reports whether every channel lies in the closed [0,1] interval,
// the bound the Cameca .env reader enforces on parsed colour triples.
func (c Colour) InRange01() bool {
	return inRange01(c.R) && inRange01(c.G) && inRange01(c.B)
}

func inRange01(v float32) bool {
	return v >= 0 && v <= 1
}
