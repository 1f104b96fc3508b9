// Package worker runs the in-process schedules: the daily next-day
// prediction digest and a periodic health tick that alerts over Telegram.
package worker

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/wibowo/causal-football/internal/domain/prediction"
	"github.com/wibowo/causal-football/internal/platform/logging"
	"github.com/wibowo/causal-football/internal/usecase"
)

const (
	healthTickInterval = 5 * time.Minute
	healthTickTimeout  = 30 * time.Second
	digestFanout       = 4
)

// HealthCheck probes a dependency. A non-nil error triggers an alert.
type HealthCheck func(ctx context.Context) error

type SchedulerConfig struct {
	LeagueID   string
	PushHour   int
	PushMinute int
}

type Scheduler struct {
	cfg               SchedulerConfig
	provider          usecase.FixtureProvider
	predictionService *usecase.PredictionService
	digestService     *usecase.DigestService
	notifier          usecase.Notifier
	health            HealthCheck
	logger            *logging.Logger
	now               func() time.Time
}

func NewScheduler(
	cfg SchedulerConfig,
	provider usecase.FixtureProvider,
	predictionService *usecase.PredictionService,
	digestService *usecase.DigestService,
	notifier usecase.Notifier,
	health HealthCheck,
	logger *logging.Logger,
) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		cfg:               cfg,
		provider:          provider,
		predictionService: predictionService,
		digestService:     digestService,
		notifier:          notifier,
		health:            health,
		logger:            logger,
		now:               time.Now,
	}
}

// Run blocks until ctx is cancelled, firing the daily digest at the
// configured UTC time and the health tick every five minutes.
func (s *Scheduler) Run(ctx context.Context) {
	pushTimer := time.NewTimer(s.untilNextPush())
	defer pushTimer.Stop()
	healthTicker := time.NewTicker(healthTickInterval)
	defer healthTicker.Stop()

	s.logger.InfoContext(ctx, "scheduler started",
		"push_hour", s.cfg.PushHour,
		"push_minute", s.cfg.PushMinute,
		"league_id", s.cfg.LeagueID,
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler stopped")
			return
		case <-pushTimer.C:
			if sent, err := s.PushTomorrowDigest(ctx); err != nil {
				s.logger.ErrorContext(ctx, "daily digest failed", "error", err)
			} else {
				s.logger.InfoContext(ctx, "daily digest done", "sent", sent)
			}
			pushTimer.Reset(s.untilNextPush())
		case <-healthTicker.C:
			s.runHealthTick(ctx)
		}
	}
}

// PushTomorrowDigest fetches tomorrow's fixtures, scores each with the
// ensemble model and pushes the rendered digest. A fixture whose
// prediction fails still appears in the digest, without a top3 block.
func (s *Scheduler) PushTomorrowDigest(ctx context.Context) (bool, error) {
	tomorrow := s.now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	fixtures, err := s.provider.FetchFixturesByDate(ctx, tomorrow, s.cfg.LeagueID)
	if err != nil {
		return false, fmt.Errorf("fetch fixtures for %s: %w", tomorrow, err)
	}

	items := make([]usecase.DailyItem, len(fixtures))
	p := pool.New().WithMaxGoroutines(digestFanout)
	for i, fx := range fixtures {
		p.Go(func() {
			items[i] = s.dailyItem(ctx, fx)
		})
	}
	p.Wait()

	return s.digestService.PushDailyDigest(ctx, items)
}

func (s *Scheduler) dailyItem(ctx context.Context, fx usecase.ExternalMatch) usecase.DailyItem {
	top3, err := s.predictionService.TopScores(ctx, prediction.ModelEnsemble, prediction.MatchInput{
		MatchID: fx.MatchID,
		Home:    fx.Home,
		Away:    fx.Away,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "digest prediction failed", "match_id", fx.MatchID, "error", err)
		return usecase.DailyItem{Match: fx}
	}
	return usecase.DailyItem{Match: fx, Top3: top3}
}

func (s *Scheduler) runHealthTick(ctx context.Context) {
	if s.health == nil {
		return
	}

	tickCtx, cancel := context.WithTimeout(ctx, healthTickTimeout)
	defer cancel()

	err := s.health(tickCtx)
	if err == nil {
		return
	}

	s.logger.ErrorContext(ctx, "health tick failed", "error", err)
	if s.notifier == nil {
		return
	}
	if _, sendErr := s.notifier.Send(ctx, "⚠️ health check failed: <code>"+html.EscapeString(err.Error())+"</code>"); sendErr != nil {
		s.logger.WarnContext(ctx, "health alert send failed", "error", sendErr)
	}
}

func (s *Scheduler) untilNextPush() time.Duration {
	now := s.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.PushHour, s.cfg.PushMinute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
