package tui

import (
	"strings"
	"sync"
)

// Glyph sets for the small affordances (checkboxes, cursor, dropdown arrow).
// ASCII exists for fonts that render the Unicode ones poorly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference takes "unicode" or "ascii"; anything else is ignored.
func applyGlyphPreference(v string) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func glyphChecked(on bool) string {
	if glyphs() == glyphSetASCII {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	if on {
		return "☑"
	}
	return "☐"
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

func glyphDropdown(open bool) string {
	if glyphs() == glyphSetASCII {
		if open {
			return "^"
		}
		return "v"
	}
	if open {
		return "▴"
	}
	return "▾"
}

func glyphCycle() (string, string) {
	if glyphs() == glyphSetASCII {
		return "<", ">"
	}
	return "‹", "›"
}
