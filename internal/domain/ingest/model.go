package ingest

import (
	"strings"
	"time"
)

const (
	EntityPlayer  = "player"
	EntityCoach   = "coach"
	EntityReferee = "referee"
	EntityTeam    = "team"
	EntityMatch   = "match"
	EntityJersey  = "jersey"
)

const (
	StatusAccepted = "accepted"
	StatusWarn     = "warn"
	StatusBlock    = "block"
)

// Item is one unit of incoming data. EntityID may be blank on input; the
// ingestion pipeline fills it for entity kinds that have a UID generator.
type Item struct {
	SchemaName    string
	SchemaVersion string
	EntityType    string
	EntityID      string
	Payload       map[string]any
	RunID         string
	SourceID      string
	Signature     string
	Confidence    *float64
	SnapshotAt    time.Time
}

// SchemaTag renders the "name@version" identifier used in audit rows and
// per-item results.
func (it Item) SchemaTag() string {
	return it.SchemaName + "@" + it.SchemaVersion
}

func NormalizeEntityType(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// OverallStatus folds per-item statuses by precedence: any block wins,
// then any warn, else accepted.
func OverallStatus(statuses []string) string {
	overall := StatusAccepted
	for _, s := range statuses {
		if s == StatusBlock {
			return StatusBlock
		}
		if s == StatusWarn {
			overall = StatusWarn
		}
	}
	return overall
}
