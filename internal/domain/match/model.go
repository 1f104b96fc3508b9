package match

import (
	"fmt"
	"strings"
	"time"
)

// Match is one stored fixture, usually backfilled from the data provider.
type Match struct {
	ID        int64     `db:"id"`
	MatchID   string    `db:"match_id"`
	Season    string    `db:"season"`
	League    string    `db:"league"`
	Home      string    `db:"home"`
	Away      string    `db:"away"`
	Date      time.Time `db:"date"`
	CreatedAt time.Time `db:"created_at"`
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.MatchID) == "" {
		return fmt.Errorf("match id is required")
	}
	if strings.TrimSpace(m.Home) == "" || strings.TrimSpace(m.Away) == "" {
		return fmt.Errorf("match teams are required")
	}
	return nil
}
