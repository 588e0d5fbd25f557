package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// reservedSlugs are navigational routes and well-known file names that
// a config slug must never shadow.
var reservedSlugs = map[string]struct{}{
	"browse":               {},
	"tools":                {},
	"types":                {},
	"tags":                 {},
	"submit":               {},
	"auth":                 {},
	"api":                  {},
	"about":                {},
	"search":               {},
	"sitemap.xml":          {},
	"robots.txt":           {},
	"favicon.ico":          {},
	"opengraph-image":      {},
	"twitter-image":        {},
	"manifest.webmanifest": {},
}

// SlugifyTitle lowercases the title, collapses every run of characters
// outside [a-z0-9] into a single hyphen and trims hyphens at the ends.
// An all-punctuation title yields "" - the validator treats that as a
// title error.
func SlugifyTitle(title string) string {
	s := strings.ToLower(title)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateSlug returns "{base}-{6 hex chars}". The suffix hashes the
// title together with the current time, so two submissions of the same
// title get distinct slugs without a round trip to the store. The slug
// column's unique index is the actual uniqueness guarantee.
func GenerateSlug(title string) string {
	base := SlugifyTitle(title)
	sum := sha256.Sum256([]byte(title + strconv.FormatInt(time.Now().UnixMilli(), 10)))
	return base + "-" + hex.EncodeToString(sum[:])[:6]
}

func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}
