package raster

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// PatternMapper compiles a filename template such as
//
//	"USGS_1_{latHem:ns}{latDegCeil:02}{lonHem:ew}{lonDegFloor:03}.tif"
//
// into a render function, per spec.md §4.B. Supported fields:
//
//	latHem:ns / lonHem:ew   - hemisphere letter
//	latDegCeil / latDegFloor - integer degree magnitude, ceil or floor
//	lonDegCeil / lonDegFloor
//
// each optionally suffixed with ":NN" to zero-pad to NN digits.
//
// Boundary values on an integer degree apply a "ceil+1 when exactly
// integer" policy: a latitude of exactly 38.0 maps to tile-degree 39 for
// a *Ceil field, consistent with how 1-arcsecond USGS tiles are named
// (the tile covers [38,39) but is named by its northern edge, 39).
type PatternMapper struct {
	template string
	fields   []templateField
	// resolved caches an unresolved wildcard lookup against a directory
	// listing, keyed by the rendered candidate name.
	resolved map[string]bool
	listDir  func() ([]string, error)
}

type templateField struct {
	raw      string // "{...}" including braces, used for one-shot replace
	kind     string // latHem, lonHem, latDegCeil, latDegFloor, lonDegCeil, lonDegFloor
	padWidth int
}

var fieldRe = regexp.MustCompile(`\{([a-zA-Z]+)(?::([a-z]+|\d+))?(?::(\d+))?\}`)

// NewPatternMapper compiles template. listDir, if non-nil, is used to
// resolve wildcard fields against an on-disk directory listing (cached
// after first lookup).
func NewPatternMapper(template string, listDir func() ([]string, error)) (*PatternMapper, error) {
	matches := fieldRe.FindAllStringSubmatch(template, -1)
	fields := make([]templateField, 0, len(matches))
	for _, m := range matches {
		kind := m[1]
		pad := 0
		// second capture group may be the hemisphere spec (ns/ew) or a
		// pad-width digit string; third capture group is pad-width when
		// the second was the hemisphere spec.
		if m[2] != "" {
			if n, err := fmt.Sscanf(m[2], "%d", &pad); err == nil && n == 1 {
				// numeric: already consumed as pad width
			} else {
				kind = kind + ":" + m[2]
			}
		}
		if m[3] != "" {
			fmt.Sscanf(m[3], "%d", &pad)
		}
		fields = append(fields, templateField{raw: m[0], kind: kind, padWidth: pad})
	}
	return &PatternMapper{template: template, fields: fields, resolved: make(map[string]bool), listDir: listDir}, nil
}

// BaseFilename renders the template for (lat, lon).
func (p *PatternMapper) BaseFilename(latDeg, lonDeg float64) (string, bool) {
	out := p.template
	for _, f := range p.fields {
		val := renderField(f, latDeg, lonDeg)
		out = strings.Replace(out, f.raw, val, 1)
	}
	if p.listDir == nil {
		return out, true
	}
	if ok, cached := p.resolved[out]; cached {
		return out, ok
	}
	names, err := p.listDir()
	if err != nil {
		return out, false
	}
	found := false
	for _, n := range names {
		if n == out {
			found = true
			break
		}
	}
	p.resolved[out] = found
	return out, found
}

func renderField(f templateField, latDeg, lonDeg float64) string {
	switch f.kind {
	case "latHem:ns":
		if latDeg < 0 {
			return "s"
		}
		return "n"
	case "lonHem:ew":
		if lonDeg < 0 {
			return "w"
		}
		return "e"
	case "latDegCeil":
		return padInt(ceilBoundaryPlusOne(latDeg), f.padWidth)
	case "latDegFloor":
		return padInt(int(math.Floor(math.Abs(latDeg))), f.padWidth)
	case "lonDegCeil":
		return padInt(ceilBoundaryPlusOne(lonDeg), f.padWidth)
	case "lonDegFloor":
		return padInt(int(math.Floor(math.Abs(lonDeg))), f.padWidth)
	default:
		return f.raw
	}
}

// ceilBoundaryPlusOne implements the "ceil+1 when exactly integer" rule:
// an exact integer degree is bumped to the next tile boundary, matching
// the USGS convention of naming a [n-1,n) tile by its northern/eastern
// edge n.
func ceilBoundaryPlusOne(v float64) int {
	a := math.Abs(v)
	f := math.Floor(a)
	if a == f {
		return int(f) + 1
	}
	return int(math.Ceil(a))
}

func padInt(v, width int) string {
	s := fmt.Sprintf("%d", v)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
