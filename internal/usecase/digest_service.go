package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/wibowo/causal-football/internal/domain/ingest"
)

// Notifier pushes a rendered digest to the configured channel. Send reports
// delivered=false without an error when the channel is not configured.
type Notifier interface {
	Send(ctx context.Context, text string) (bool, error)
}

// DailyItem pairs one upcoming fixture with its top-3 scoreline prediction.
// Top3 is nil when the prediction call failed for that fixture.
type DailyItem struct {
	Match ExternalMatch
	Top3  *Top3Output
}

type DigestService struct {
	notifier Notifier
}

func NewDigestService(notifier Notifier) *DigestService {
	return &DigestService{notifier: notifier}
}

// PushIngestDigest renders and sends the batch summary. Returns whether the
// message was actually delivered.
func (s *DigestService) PushIngestDigest(ctx context.Context, runID string, report *IngestReport) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DigestService.PushIngestDigest")
	defer span.End()

	if report == nil {
		return false, fmt.Errorf("%w: report is required", ErrInvalidInput)
	}
	return s.notifier.Send(ctx, BuildIngestDigest(runID, report))
}

// PushDailyDigest renders and sends the next-day prediction summary.
func (s *DigestService) PushDailyDigest(ctx context.Context, items []DailyItem) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DigestService.PushDailyDigest")
	defer span.End()

	return s.notifier.Send(ctx, BuildDailyDigest(items))
}

// BuildIngestDigest renders the batch outcome as a compact HTML message:
// overall status, item counts and the top causal drivers of the most
// important item.
func BuildIngestDigest(runID string, report *IngestReport) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var accepted, warned, blocked int
	for _, r := range report.Results {
		switch r.Status {
		case ingest.StatusAccepted:
			accepted++
		case ingest.StatusWarn:
			warned++
		case ingest.StatusBlock:
			blocked++
		}
	}

	if runID == "" {
		runID = defaultRunID
	}
	fmt.Fprintf(buf, "<b>Ingest Digest</b>  | run_id=<code>%s</code>\n", esc(runID))
	fmt.Fprintf(buf, "overall=<b>%s</b> | dry_run=%t\n", esc(report.Overall), report.DryRun)
	fmt.Fprintf(buf, "items=%d | accepted=%d | warn=%d | block=%d",
		len(report.Results), accepted, warned, blocked)

	rep := representative(report.Results)
	if rep == nil {
		return buf.String()
	}

	fmt.Fprintf(buf, "\nsample=<code>%s</code> | %s", esc(rep.EntityID), esc(rep.Schema))
	fmt.Fprintf(buf, "\nimportance: tier=%s, priority=%d", esc(rep.Importance.Tier), rep.Importance.Priority)
	if rep.Causal != nil {
		fmt.Fprintf(buf, "\ncausal: adjusted_error≈<b>%.2f%%</b> | error_mul=%v | weight_mul=%v",
			rep.Causal.AdjustedError*100, rep.Causal.ErrorMul, rep.Causal.WeightMul)
		if len(rep.Causal.Drivers) > 0 {
			buf.WriteString("\nTop drivers:")
			for _, d := range rep.Causal.Drivers {
				fmt.Fprintf(buf, "\n• <b>%s</b> (score=%v) — %s", esc(d.Name), d.Score, esc(d.Explain))
			}
		}
	}

	return buf.String()
}

// BuildDailyDigest renders the next-day prediction push. Fixtures whose
// prediction failed are listed without numbers rather than dropped.
func BuildDailyDigest(items []DailyItem) string {
	if len(items) == 0 {
		return "No fixtures scheduled for tomorrow."
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("<b>Next-day predictions</b> (top-3 scores + W/D/L)")
	for _, it := range items {
		m := it.Match
		fmt.Fprintf(buf, "\n\n🏟 %s  %s vs %s", esc(m.League), esc(m.Home), esc(m.Away))
		if !m.Kickoff.IsZero() {
			fmt.Fprintf(buf, "\n🕒 %s", m.Kickoff.UTC().Format("2006-01-02 15:04 UTC"))
		}
		if it.Top3 == nil {
			buf.WriteString("\n⚠️ prediction unavailable")
			continue
		}
		p := it.Top3.Probs
		fmt.Fprintf(buf, "\n🔢 W:%s D:%s L:%s", pct(p.HomeWin), pct(p.Draw), pct(p.AwayWin))
		if len(it.Top3.Scores) > 0 {
			lines := make([]string, 0, len(it.Top3.Scores))
			for _, sc := range it.Top3.Scores {
				lines = append(lines, fmt.Sprintf("%s(%s)", sc.Score, pct(sc.Prob)))
			}
			fmt.Fprintf(buf, "\n🎯 Top3: %s", strings.Join(lines, ", "))
		}
	}

	return buf.String()
}

// representative picks the item worth summarizing: the first priority-1
// item, else the first accepted one, else the first in the batch.
func representative(results []ItemResult) *ItemResult {
	for i := range results {
		if results[i].Importance.Priority == 1 {
			return &results[i]
		}
	}
	for i := range results {
		if results[i].Status == ingest.StatusAccepted {
			return &results[i]
		}
	}
	if len(results) > 0 {
		return &results[0]
	}
	return nil
}

func esc(v string) string {
	return html.EscapeString(v)
}

func pct(x float64) string {
	return fmt.Sprintf("%.1f%%", x*100)
}
