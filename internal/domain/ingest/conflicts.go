package ingest

import (
	"fmt"
	"strings"
)

const (
	MarkBlockProviderConflict = "block:provider_id_conflict"
	MarkWarnPossibleDuplicate = "warn:possible_duplicate"
)

type providerKey struct {
	provider   string
	providerID string
}

type identityKey struct {
	name      string
	birthDate string
}

// DetectConflicts scans one batch for contradictory identities. Scope is
// strictly the given slice; no cross-batch state is kept.
//
// Two rules, applied to player/coach/referee items only:
//   - the same (provider, provider_id) mapping to two different entity ids
//     marks both ids block:provider_id_conflict,
//   - the same (normalized name, birth date), both non-empty, mapping to two
//     different entity ids marks both warn:possible_duplicate.
//
// A block mark on an entity id is never downgraded by a later warn match.
func DetectConflicts(items []Item) map[string]string {
	byProvider := make(map[providerKey]string)
	byIdentity := make(map[identityKey]string)
	marks := make(map[string]string)

	mark := func(entityID, tag string) {
		if tag == MarkWarnPossibleDuplicate && strings.HasPrefix(marks[entityID], "block") {
			return
		}
		marks[entityID] = tag
	}

	for _, it := range items {
		kind := NormalizeEntityType(it.EntityType)
		if !HasUIDGenerator(kind) {
			continue
		}

		eid := it.EntityID
		provider := strings.ToLower(strings.TrimSpace(PayloadString(it.Payload, "provider")))
		providerID := strings.TrimSpace(PayloadString(it.Payload, "provider_id", "provider_player_id"))
		name := NormalizeName(PayloadString(it.Payload, "name"))
		birthDate := strings.TrimSpace(PayloadString(it.Payload, "birth_date"))

		if provider != "" && providerID != "" {
			key := providerKey{provider: provider, providerID: providerID}
			if seen, ok := byProvider[key]; ok && seen != eid {
				mark(eid, MarkBlockProviderConflict)
				mark(seen, MarkBlockProviderConflict)
			} else {
				byProvider[key] = eid
			}
		}

		if name != "" && birthDate != "" {
			key := identityKey{name: name, birthDate: birthDate}
			if seen, ok := byIdentity[key]; ok && seen != eid {
				mark(eid, MarkWarnPossibleDuplicate)
				mark(seen, MarkWarnPossibleDuplicate)
			} else {
				byIdentity[key] = eid
			}
		}
	}

	return marks
}

// PayloadString returns the first present key rendered as a trimmed string.
// Nil values and missing keys yield "".
func PayloadString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := payload[key]
		if !ok || value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(fmt.Sprint(value))
	}
	return ""
}
