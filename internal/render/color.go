package render

import (
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"strings"
)

// ColorRule picks what string a call is colored by, mirroring the
// teacher's per-goroutine/per-function/per-module coloring rules.
type ColorRule int

const (
	// ColorByFunction colors each distinct function name on its own.
	ColorByFunction ColorRule = iota
	// ColorByModule strips the function's last dotted segment (its
	// name within the module) and colors by what remains.
	ColorByModule
)

// ColorRuleNames maps the config/URL-param spelling of a rule to its
// ColorRule value, the way the teacher's render.ColorRuleNames does.
var ColorRuleNames = map[string]ColorRule{
	"function": ColorByFunction,
	"module":   ColorByModule,
}

// Colors assigns a stable, visually distinct color to each distinct
// string it is asked about (typically a function name), by hashing the
// string into one of a fixed palette of NColors colors.
type Colors struct {
	NColors int
	Rule    ColorRule

	palette []string
	hash    hash.Hash64
}

func (c *Colors) init() {
	c.palette = generatePalette(c.NColors, 0.6, 0.7)
	c.hash = fnv.New64()
}

// ForName returns the color assigned to name directly, ignoring Rule.
func (c *Colors) ForName(name string) string {
	if c.palette == nil {
		c.init()
	}
	c.hash.Reset()
	_, _ = c.hash.Write([]byte(name))
	return c.palette[c.hash.Sum64()%uint64(len(c.palette))]
}

// ForCall returns the color assigned to a call's function name under
// Rule.
func (c *Colors) ForCall(funcName string) string {
	switch c.Rule {
	case ColorByModule:
		return c.ForName(moduleOf(funcName))
	default:
		return c.ForName(funcName)
	}
}

// moduleOf strips the last "."-separated segment of a dotted function
// name, e.g. "encoding/json.Marshal" -> "encoding/json".
func moduleOf(funcName string) string {
	idx := strings.LastIndex(funcName, ".")
	if idx < 0 {
		return funcName
	}
	return funcName[:idx]
}

func generatePalette(n int, s, v float64) []string {
	if n <= 0 {
		n = 1
	}
	colors := make([]string, n)
	for i := range colors {
		h := float64(i) / float64(n)
		colors[i] = hexColor(hsv2rgb(h, s, v))
	}
	return colors
}

// hsv2rgb converts a color from HSV (0<=h,s,v<=1) to 0-255 RGB.
func hsv2rgb(h, s, v float64) [3]int {
	hh := int(360 * h / 60)
	c := v * s
	x := c * (1 - math.Abs(float64((hh%2)-1)))
	m := v - c
	table := [][3]float64{
		{c, x, 0}, {x, c, 0}, {0, c, x},
		{0, x, c}, {x, 0, c}, {c, 0, x},
	}
	rgb := table[hh%6]
	return [3]int{
		int(255 * (m + rgb[0])),
		int(255 * (m + rgb[1])),
		int(255 * (m + rgb[2])),
	}
}

func hexColor(rgb [3]int) string {
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}
