package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wibowo/causal-football/internal/domain/factors"
	"github.com/wibowo/causal-football/internal/domain/importance"
	"github.com/wibowo/causal-football/internal/domain/ingest"
	"github.com/wibowo/causal-football/internal/domain/prediction"
)

type stubNotifier struct {
	sent      []string
	delivered bool
}

func (s *stubNotifier) Send(_ context.Context, text string) (bool, error) {
	s.sent = append(s.sent, text)
	return s.delivered, nil
}

func TestBuildIngestDigest(t *testing.T) {
	report := &IngestReport{
		Overall: ingest.StatusWarn,
		DryRun:  true,
		Results: []ItemResult{
			{
				EntityType: "player",
				EntityID:   "plr_opta_p1",
				Schema:     "player@1.0.0",
				Status:     ingest.StatusAccepted,
				Importance: importance.Result{Score: 0.9, Tier: "A", Priority: 1},
				Causal: &factors.Snapshot{
					P0:            0.021,
					ErrorMul:      1.2,
					WeightMul:     1.4,
					AdjustedError: 0.0252,
					Drivers: []factors.Driver{
						{Name: "injuries", Score: 0.94, Explain: "key_out=2, total_out=4"},
					},
				},
			},
			{
				EntityType: "coach",
				EntityID:   "coach_opta_c1",
				Schema:     "coach@1.0.0",
				Status:     ingest.StatusWarn,
				Importance: importance.Result{Score: 0.55, Tier: "C", Priority: 3},
			},
		},
	}

	msg := BuildIngestDigest("run-42", report)

	for _, want := range []string{
		"run_id=<code>run-42</code>",
		"overall=<b>warn</b>",
		"items=2 | accepted=1 | warn=1 | block=0",
		"sample=<code>plr_opta_p1</code>",
		"tier=A, priority=1",
		"<b>injuries</b>",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("digest missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildIngestDigestRepresentativeFallback(t *testing.T) {
	report := &IngestReport{
		Overall: ingest.StatusBlock,
		Results: []ItemResult{
			{EntityID: "e1", Status: ingest.StatusBlock, Importance: importance.Result{Priority: 4}},
			{EntityID: "e2", Status: ingest.StatusAccepted, Importance: importance.Result{Priority: 3}},
		},
	}

	msg := BuildIngestDigest("", report)
	if !strings.Contains(msg, "sample=<code>e2</code>") {
		t.Fatalf("expected first accepted item as sample:\n%s", msg)
	}
	if !strings.Contains(msg, "run_id=<code>manual</code>") {
		t.Fatalf("empty run id must render manual:\n%s", msg)
	}
}

func TestBuildIngestDigestEscapesHTML(t *testing.T) {
	report := &IngestReport{
		Overall: ingest.StatusAccepted,
		Results: []ItemResult{
			{EntityID: "plr_<script>", Status: ingest.StatusAccepted},
		},
	}

	msg := BuildIngestDigest("r", report)
	if strings.Contains(msg, "<script>") {
		t.Fatalf("entity id not escaped:\n%s", msg)
	}
}

func TestBuildDailyDigest(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	items := []DailyItem{
		{
			Match: ExternalMatch{MatchID: "af_1", League: "Premier League", Home: "Arsenal", Away: "Spurs", Kickoff: kickoff},
			Top3: &Top3Output{
				MatchID: "af_1",
				Top3: prediction.Top3{
					Probs: prediction.OutcomeProbs{HomeWin: 0.41, Draw: 0.29, AwayWin: 0.3},
					Scores: []prediction.ScoreProb{
						{Score: "1-0", Prob: 0.12},
						{Score: "1-1", Prob: 0.1},
						{Score: "2-1", Prob: 0.09},
					},
				},
			},
		},
		{
			Match: ExternalMatch{MatchID: "af_2", League: "Premier League", Home: "Leeds", Away: "Everton"},
		},
	}

	msg := BuildDailyDigest(items)
	for _, want := range []string{
		"Arsenal vs Spurs",
		"2026-03-14 19:30 UTC",
		"W:41.0% D:29.0% L:30.0%",
		"1-0(12.0%)",
		"prediction unavailable",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("daily digest missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildDailyDigestEmpty(t *testing.T) {
	if msg := BuildDailyDigest(nil); !strings.Contains(msg, "No fixtures") {
		t.Fatalf("unexpected empty digest: %q", msg)
	}
}

func TestDigestService_Push(t *testing.T) {
	notifier := &stubNotifier{delivered: true}
	svc := NewDigestService(notifier)

	report := &IngestReport{Overall: ingest.StatusAccepted}
	ok, err := svc.PushIngestDigest(t.Context(), "r1", report)
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if !ok || len(notifier.sent) != 1 {
		t.Fatalf("digest not delivered: ok=%t sent=%d", ok, len(notifier.sent))
	}

	if _, err := svc.PushIngestDigest(t.Context(), "r1", nil); err == nil {
		t.Fatalf("nil report must fail")
	}
}
