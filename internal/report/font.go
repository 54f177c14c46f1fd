// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"
	"unicode"
)

// ErrUnsupportedText is returned when report text has a character the PDF
// font cannot draw.
var ErrUnsupportedText = errors.New("report font has no glyph for text")

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	dejaVuRegular []byte

	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	dejaVuBold []byte
)

// pdfFace is one registered font style with its character coverage.
type pdfFace struct {
	ttf    []byte
	covers func(rune) bool
}

var (
	defaultFacesOnce sync.Once
	defaultFaces     [2]pdfFace
	defaultFacesErr  error
)

// bundledFaces returns the embedded regular and bold DejaVu faces.
func bundledFaces() ([2]pdfFace, error) {
	defaultFacesOnce.Do(func() {
		for i, ttf := range [][]byte{dejaVuRegular, dejaVuBold} {
			covers, err := cmapCoverage(ttf)
			if err != nil {
				defaultFacesErr = fmt.Errorf("parsing bundled font: %w", err)
				return
			}
			defaultFaces[i] = pdfFace{ttf: ttf, covers: covers}
		}
	})
	return defaultFaces, defaultFacesErr
}

// LoadFont reads a TrueType font for PDF output and checks that its
// character map can be read.
func LoadFont(path string) ([]byte, error) {
	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report font: %w", err)
	}
	if _, err := cmapCoverage(ttf); err != nil {
		return nil, fmt.Errorf("parsing report font %s: %w", path, err)
	}
	return ttf, nil
}

// checkCoverage returns ErrUnsupportedText for the first rune in text that
// face cannot draw. The PDF text path is 16-bit, so runes past the BMP are
// never drawable.
func checkCoverage(face pdfFace, text string) error {
	for _, r := range text {
		if unicode.IsControl(r) {
			continue
		}
		if r > 0xFFFF || !face.covers(r) {
			return fmt.Errorf("%w: %q in %q; set report.font to a TTF that covers it or choose markdown, json, or yaml",
				ErrUnsupportedText, r, text)
		}
	}
	return nil
}

var errBadFont = errors.New("no usable unicode cmap")

// cmapCoverage reads the Unicode cmap of a TrueType font and returns a
// predicate reporting whether a rune maps to a real glyph. Format 12
// subtables are preferred over format 4.
func cmapCoverage(ttf []byte) (func(rune) bool, error) {
	cmap, ok := findTable(ttf, "cmap")
	if !ok || len(cmap) < 4 {
		return nil, errBadFont
	}
	be := binary.BigEndian
	n := int(be.Uint16(cmap[2:]))

	var fmt4, fmt12 []byte
	for i := 0; i < n; i++ {
		rec := 4 + 8*i
		if rec+8 > len(cmap) {
			return nil, errBadFont
		}
		platform, encoding := be.Uint16(cmap[rec:]), be.Uint16(cmap[rec+2:])
		off := int(be.Uint32(cmap[rec+4:]))
		if off+2 > len(cmap) {
			continue
		}
		unicodeTable := platform == 0 || (platform == 3 && (encoding == 1 || encoding == 10))
		if !unicodeTable {
			continue
		}
		switch be.Uint16(cmap[off:]) {
		case 4:
			if fmt4 == nil {
				fmt4 = cmap[off:]
			}
		case 12:
			if fmt12 == nil {
				fmt12 = cmap[off:]
			}
		}
	}

	switch {
	case fmt12 != nil:
		return format12(fmt12)
	case fmt4 != nil:
		return format4(fmt4)
	default:
		return nil, errBadFont
	}
}

func findTable(ttf []byte, tag string) ([]byte, bool) {
	if len(ttf) < 12 {
		return nil, false
	}
	be := binary.BigEndian
	n := int(be.Uint16(ttf[4:]))
	for i := 0; i < n; i++ {
		rec := 12 + 16*i
		if rec+16 > len(ttf) {
			return nil, false
		}
		if string(ttf[rec:rec+4]) != tag {
			continue
		}
		off, length := int(be.Uint32(ttf[rec+8:])), int(be.Uint32(ttf[rec+12:]))
		if off+length > len(ttf) {
			return nil, false
		}
		return ttf[off : off+length], true
	}
	return nil, false
}

type charRange struct{ lo, hi rune }

func format12(t []byte) (func(rune) bool, error) {
	be := binary.BigEndian
	if len(t) < 16 {
		return nil, errBadFont
	}
	n := int(be.Uint32(t[12:]))
	if 16+12*n > len(t) {
		return nil, errBadFont
	}
	ranges := make([]charRange, 0, n)
	for i := 0; i < n; i++ {
		g := t[16+12*i:]
		lo, hi, glyph := be.Uint32(g), be.Uint32(g[4:]), be.Uint32(g[8:])
		if glyph == 0 {
			// The first code of the group maps to .notdef.
			lo++
		}
		if lo <= hi {
			ranges = append(ranges, charRange{rune(lo), rune(hi)})
		}
	}
	return func(r rune) bool {
		for _, cr := range ranges {
			if r >= cr.lo && r <= cr.hi {
				return true
			}
		}
		return false
	}, nil
}

func format4(t []byte) (func(rune) bool, error) {
	be := binary.BigEndian
	if len(t) < 14 {
		return nil, errBadFont
	}
	segs := int(be.Uint16(t[6:])) / 2
	endAt := 14
	startAt := endAt + 2*segs + 2
	deltaAt := startAt + 2*segs
	rangeAt := deltaAt + 2*segs
	if rangeAt+2*segs > len(t) {
		return nil, errBadFont
	}

	glyph := func(r rune) uint16 {
		c := uint16(r)
		for i := 0; i < segs; i++ {
			end := be.Uint16(t[endAt+2*i:])
			if c > end {
				continue
			}
			start := be.Uint16(t[startAt+2*i:])
			if c < start {
				return 0
			}
			delta := be.Uint16(t[deltaAt+2*i:])
			ro := int(be.Uint16(t[rangeAt+2*i:]))
			if ro == 0 {
				return c + delta
			}
			addr := rangeAt + 2*i + ro + 2*int(c-start)
			if addr+2 > len(t) {
				return 0
			}
			g := be.Uint16(t[addr:])
			if g == 0 {
				return 0
			}
			return g + delta
		}
		return 0
	}
	return func(r rune) bool {
		return r >= 0 && r <= 0xFFFF && glyph(r) != 0
	}, nil
}
