// Package imageurl canonicalizes TCGdex asset references. The API returns
// bare base paths ("/fr/swsh/swsh4/44" or "https://assets.tcgdex.net/..."),
// and a quality/extension suffix must be appended per the TCGdex asset
// convention before the URL is usable.
package imageurl

import (
	"regexp"
	"strings"
)

const (
	// AssetBase is prepended to relative asset paths.
	AssetBase = "https://assets.tcgdex.net"

	// Placeholder is served when a card has no image at all.
	Placeholder = "https://via.placeholder.com/245x342?text=Image+non+disponible"
)

type Quality string

const (
	QualityHigh Quality = "high"
	QualityLow  Quality = "low"
)

type Extension string

const (
	ExtWebP Extension = "webp"
	ExtPNG  Extension = "png"
	ExtJPG  Extension = "jpg"
)

var (
	cardSuffixRe   = regexp.MustCompile(`/(high|low)\.(webp|png|jpg)$`)
	symbolSuffixRe = regexp.MustCompile(`\.(webp|png|jpg)$`)
)

// Card returns the fully-qualified card image URL: <base>/<quality>.<ext>.
// An empty input yields the placeholder image; an input already carrying the
// requested extension is returned unchanged.
func Card(raw string, quality Quality, ext Extension) string {
	if raw == "" {
		return Placeholder
	}
	if strings.Contains(raw, "."+string(ext)) {
		return raw
	}

	base := cardSuffixRe.ReplaceAllString(raw, "")
	if !strings.HasPrefix(base, "http") {
		base = AssetBase + base
	}
	return base + "/" + string(quality) + "." + string(ext)
}

// Symbol returns the fully-qualified set symbol or logo URL: <base>.<ext>.
// Unlike card images, symbols take no quality segment.
func Symbol(raw string, ext Extension) string {
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "."+string(ext)) {
		return raw
	}

	base := symbolSuffixRe.ReplaceAllString(raw, "")
	if !strings.HasPrefix(base, "http") {
		base = AssetBase + base
	}
	return base + "." + string(ext)
}
