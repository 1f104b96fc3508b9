package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

const shortHashLength = 10

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	nonSlugRegex    = regexp.MustCompile(`[^a-z0-9_]`)
)

// uidPrefixByKind maps entity kinds that own a UID generator to their
// identifier prefix. Kinds outside this table keep whatever entity id the
// caller supplied, including none.
var uidPrefixByKind = map[string]string{
	EntityPlayer:  "plr",
	EntityCoach:   "coach",
	EntityReferee: "ref",
}

// HasUIDGenerator reports whether MakeUID can produce an identifier for the
// given entity kind.
func HasUIDGenerator(kind string) bool {
	_, ok := uidPrefixByKind[NormalizeEntityType(kind)]
	return ok
}

// UIDPrefix returns the identifier prefix for a kind, or "" when the kind
// has no generator.
func UIDPrefix(kind string) string {
	return uidPrefixByKind[NormalizeEntityType(kind)]
}

// Slug lowercases, collapses whitespace runs to single underscores and
// strips every character outside [a-z0-9_].
func Slug(value string) string {
	out := whitespaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "_")
	return nonSlugRegex.ReplaceAllString(out, "")
}

// NormalizeName is the name form used for both hash fallbacks and duplicate
// detection. Empty input normalizes to "".
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	return Slug(name)
}

// ShortHash returns the first shortHashLength hex chars of the SHA-1 digest
// over parts joined by "||". Deterministic and irreversible; used for
// provider-less identity fallbacks.
func ShortHash(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "||")))
	return hex.EncodeToString(sum[:])[:shortHashLength]
}

// MakeUID builds a stable entity identifier. With both provider and
// providerID present it yields "{prefix}_{slug(provider)}_{slug(providerID)}";
// otherwise it falls back to "{prefix}_global_{hash(name|birthDate)}".
// Kinds without a generator yield "".
func MakeUID(kind, provider, providerID, name, birthDate string) string {
	prefix := UIDPrefix(kind)
	if prefix == "" {
		return ""
	}
	if provider != "" && providerID != "" {
		return prefix + "_" + Slug(provider) + "_" + Slug(providerID)
	}
	basis := NormalizeName(name) + "|" + strings.TrimSpace(birthDate)
	return prefix + "_global_" + ShortHash(basis)
}
