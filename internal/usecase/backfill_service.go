package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wibowo/causal-football/internal/domain/audit"
	"github.com/wibowo/causal-football/internal/domain/match"
)

const backfillTool = "backfill"

// FixtureProvider is the slice of the football data API the backfill and
// the digest scheduler need.
type FixtureProvider interface {
	FetchSeasonFixtures(ctx context.Context, leagueID int, season string) ([]ExternalMatch, error)
	FetchFixturesByDate(ctx context.Context, date string, leagueID string) ([]ExternalMatch, error)
}

// ExternalMatch is one fixture as reported by the data provider.
type ExternalMatch struct {
	MatchID string
	League  string
	Home    string
	Away    string
	Kickoff time.Time
}

// leagueAliases maps human league names onto provider league ids. Unknown
// names fall back to the Premier League.
var leagueAliases = map[string]int{
	"epl":                    39,
	"premier_league":         39,
	"english_premier_league": 39,
	"england_premier_league": 39,
	"英超":                     39,
}

const defaultLeagueID = 39

// BackfillInput selects which seasons of which league to pull.
type BackfillInput struct {
	League  string
	Seasons []string
}

// BackfillResult reports what the run inserted, per season and in total.
type BackfillResult struct {
	RunID            string         `json:"run_id"`
	LeagueID         int            `json:"league_id"`
	InsertedTotal    int            `json:"inserted_total"`
	InsertedBySeason map[string]int `json:"inserted_by_season"`
	FinishedAt       time.Time      `json:"finished_at"`
}

type BackfillService struct {
	provider  FixtureProvider
	matchRepo match.Repository
	auditRepo audit.Repository
	now       func() time.Time
}

func NewBackfillService(provider FixtureProvider, matchRepo match.Repository, auditRepo audit.Repository) *BackfillService {
	return &BackfillService{
		provider:  provider,
		matchRepo: matchRepo,
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

// Backfill pulls every requested season from the provider and upserts the
// fixtures. Each run is tracked as a feature run so operators can see how a
// long pull ended.
func (s *BackfillService) Backfill(ctx context.Context, in BackfillInput) (*BackfillResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.Backfill")
	defer span.End()

	if len(in.Seasons) == 0 {
		return nil, fmt.Errorf("%w: seasons are required", ErrInvalidInput)
	}

	leagueID := NormalizeLeague(in.League)
	runID := uuid.NewString()
	started := s.now().UTC()

	if err := s.auditRepo.StartFeatureRun(ctx, audit.FeatureRun{
		RunID:     runID,
		Tool:      backfillTool,
		Status:    audit.RunStatusRunning,
		StartedAt: started,
	}); err != nil {
		return nil, fmt.Errorf("start feature run: %w", err)
	}

	result := &BackfillResult{
		RunID:            runID,
		LeagueID:         leagueID,
		InsertedBySeason: make(map[string]int, len(in.Seasons)),
	}

	total, ok, fail := 0, 0, 0
	for _, season := range in.Seasons {
		fixtures, err := s.provider.FetchSeasonFixtures(ctx, leagueID, season)
		if err != nil {
			fail++
			s.finishRun(ctx, runID, total, ok, fail, started, audit.RunStatusFailed, err.Error())
			return nil, fmt.Errorf("fetch season %s: %w", season, err)
		}

		matches := make([]match.Match, 0, len(fixtures))
		for _, fx := range fixtures {
			if fx.MatchID == "" {
				continue
			}
			matches = append(matches, match.Match{
				MatchID: fx.MatchID,
				Season:  season,
				League:  strconv.Itoa(leagueID),
				Home:    fx.Home,
				Away:    fx.Away,
				Date:    fx.Kickoff,
			})
		}

		inserted, err := s.matchRepo.UpsertMatches(ctx, matches)
		if err != nil {
			fail++
			s.finishRun(ctx, runID, total, ok, fail, started, audit.RunStatusFailed, err.Error())
			return nil, fmt.Errorf("upsert season %s: %w", season, err)
		}

		total += len(matches)
		ok += inserted
		result.InsertedBySeason[season] = inserted
		result.InsertedTotal += inserted
	}

	result.FinishedAt = s.now().UTC()
	s.finishRun(ctx, runID, total, ok, fail, started, audit.RunStatusDone, "")
	return result, nil
}

func (s *BackfillService) finishRun(ctx context.Context, runID string, total, ok, fail int, started time.Time, status, note string) {
	finished := s.now().UTC()
	// Run bookkeeping is best effort; a failed update must not mask the
	// backfill outcome.
	_ = s.auditRepo.FinishFeatureRun(ctx, audit.FeatureRun{
		RunID:      runID,
		Tool:       backfillTool,
		Total:      total,
		OK:         ok,
		Fail:       fail,
		Status:     status,
		Note:       note,
		StartedAt:  started,
		FinishedAt: &finished,
	})
}

// NormalizeLeague accepts a provider league id ("39"), a known alias
// ("EPL", "英超") or anything else, which falls back to the default league.
func NormalizeLeague(league string) int {
	s := strings.TrimSpace(league)
	if s == "" {
		return defaultLeagueID
	}
	if id, err := strconv.Atoi(s); err == nil {
		return id
	}
	key := strings.ToLower(s)
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	if id, ok := leagueAliases[key]; ok {
		return id
	}
	return defaultLeagueID
}
