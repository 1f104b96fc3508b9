package postgres

import (
	"time"

	"github.com/wibowo/causal-football/internal/domain/match"
)

type matchTableModel struct {
	ID        int64     `db:"id"`
	MatchID   string    `db:"match_id"`
	Season    string    `db:"season"`
	League    string    `db:"league"`
	Home      string    `db:"home"`
	Away      string    `db:"away"`
	Date      time.Time `db:"date"`
	CreatedAt time.Time `db:"created_at"`
}

type matchInsertModel struct {
	MatchID string    `db:"match_id"`
	Season  string    `db:"season"`
	League  string    `db:"league"`
	Home    string    `db:"home"`
	Away    string    `db:"away"`
	Date    time.Time `db:"date"`
}

func matchInsertModelFromMatch(m match.Match) matchInsertModel {
	return matchInsertModel{
		MatchID: m.MatchID,
		Season:  m.Season,
		League:  m.League,
		Home:    m.Home,
		Away:    m.Away,
		Date:    m.Date,
	}
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:        row.ID,
		MatchID:   row.MatchID,
		Season:    row.Season,
		League:    row.League,
		Home:      row.Home,
		Away:      row.Away,
		Date:      row.Date,
		CreatedAt: row.CreatedAt,
	}
}
