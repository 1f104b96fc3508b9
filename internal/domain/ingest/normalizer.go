package ingest

import (
	"strconv"
	"strings"
)

// Canonical is the normalized match-context field set consumed by factor
// scoring. Every field has a neutral default so that missing or malformed
// source data degrades instead of failing: numeric fields default to zero,
// AvgRestDay to 4 and Phase to "mid".
type Canonical struct {
	Games7d       float64 `json:"games_7d"`
	AvgRestDay    float64 `json:"avg_rest_day"`
	Phase         string  `json:"phase"`
	KeyAbsent     int     `json:"key_absent"`
	TotalAbsent   int     `json:"total_absent"`
	RedRate       float64 `json:"red_rate"`
	PenaltyRate   float64 `json:"penalty_rate"`
	LateSwap      bool    `json:"late_swap"`
	Scandal       bool    `json:"scandal"`
	TransferHot   bool    `json:"transfer_hot"`
	HypeScore     float64 `json:"hype_score"`
	DerbyStrength float64 `json:"derby_strength"`
	RecentTension float64 `json:"recent_tension"`
	SocialLevel   int     `json:"S"`

	// OddsDeviation is the optional upset index (0..1, clamped by the
	// causal aggregator). Nil when the source did not supply one.
	OddsDeviation *float64 `json:"odds_deviation,omitempty"`

	// Extra carries the original raw fields untouched, so downstream
	// consumers can still see what the source actually sent.
	Extra map[string]any `json:"-"`
}

const (
	PhaseEarly    = "early"
	PhaseMid      = "mid"
	PhaseLate     = "late"
	PhaseCritical = "critical"
)

// Normalize maps a heterogeneous source payload onto the canonical field
// set. The source shape is detected from an explicit "source" field or from
// shape-specific marker keys; unrecognized payloads fall back to the most
// permissive parser, so normalization never fails. Already-canonical
// payloads round-trip unchanged.
func Normalize(raw map[string]any) Canonical {
	if raw == nil {
		raw = map[string]any{}
	}

	source := strings.ToLower(PayloadString(raw, "source"))

	var c Canonical
	switch {
	case source == "apifootball" || hasKeyPrefix(raw, "af_"):
		c = fromAPIFootball(raw)
	case source == "crawler" || hasAnyKey(raw, "games_last_7d", "ref_red%"):
		c = fromCrawler(raw)
	default:
		// Manual/form entries and canonical payloads share one parser.
		c = fromManual(raw)
	}

	if v, ok := coerceOptionalFloat(raw["odds_deviation"]); ok {
		c.OddsDeviation = &v
	}
	c.Extra = raw
	return c
}

func fromAPIFootball(p map[string]any) Canonical {
	phase := PhaseMid
	round := strings.ToLower(PayloadString(p, "af_season_round"))
	switch {
	case containsAny(round, "final", "semi", "quarter", "playoff"):
		phase = PhaseCritical
	case containsAny(round, "round_1", "matchday_1", "md1"):
		phase = PhaseEarly
	case containsAny(round, "round_34", "md34", "matchday_34", "last"):
		phase = PhaseLate
	}

	return Canonical{
		Games7d:       coerceFloat(p["af_games_7d"], 0),
		AvgRestDay:    coerceFloat(p["af_avg_rest_day"], 4),
		Phase:         phase,
		KeyAbsent:     coerceInt(p["af_key_absent"], 0),
		TotalAbsent:   coerceInt(p["af_total_absent"], 0),
		RedRate:       coerceFloat(p["af_ref_red_rate"], 0),
		PenaltyRate:   coerceFloat(p["af_ref_pen_rate"], 0),
		LateSwap:      truthy(p["af_ref_late_swap"]),
		Scandal:       truthy(p["af_scandal"]),
		TransferHot:   truthy(p["af_transfer_hot"]),
		HypeScore:     coerceFloat(p["af_hype"], 0),
		DerbyStrength: coerceFloat(p["af_derby_strength"], 0),
		RecentTension: coerceFloat(p["af_recent_tension"], 0),
		SocialLevel:   coerceInt(p["af_S"], 0),
	}
}

// fromCrawler handles the crawler feed, which reports referee rates as
// percentages.
func fromCrawler(p map[string]any) Canonical {
	redRate := 0.0
	if _, ok := p["ref_red%"]; ok {
		redRate = coerceFloat(p["ref_red%"], 0) / 100.0
	}
	penaltyRate := 0.0
	if _, ok := p["ref_pk%"]; ok {
		penaltyRate = coerceFloat(p["ref_pk%"], 0) / 100.0
	}

	return Canonical{
		Games7d:       coerceFloat(p["games_last_7d"], 0),
		AvgRestDay:    coerceFloat(p["rest_avg_days"], 4),
		Phase:         normalizePhase(PayloadString(p, "season_phase")),
		KeyAbsent:     coerceInt(p["key_out"], 0),
		TotalAbsent:   coerceInt(p["total_out"], 0),
		RedRate:       redRate,
		PenaltyRate:   penaltyRate,
		LateSwap:      truthy(p["ref_late_swap"]),
		Scandal:       truthy(p["news_scandal"]),
		TransferHot:   truthy(p["transfer_heat"]),
		HypeScore:     coerceFloat(p["hype"], 0),
		DerbyStrength: coerceFloat(p["derby_idx"], 0),
		RecentTension: coerceFloat(p["tension_idx"], 0),
		SocialLevel:   coerceInt(p["covid_level"], 0),
	}
}

// fromManual accepts the localized manual-entry keys with canonical keys as
// fallback, which also makes it the parser for already-canonical payloads.
func fromManual(p map[string]any) Canonical {
	return Canonical{
		Games7d:       coerceFloat(firstPresent(p, "赛程近7天", "games_7d"), 0),
		AvgRestDay:    coerceFloat(firstPresent(p, "平均休息日", "avg_rest_day"), 4),
		Phase:         normalizePhase(PayloadString(p, "阶段", "phase")),
		KeyAbsent:     coerceInt(firstPresent(p, "关键缺阵", "key_absent"), 0),
		TotalAbsent:   coerceInt(firstPresent(p, "缺阵总数", "total_absent"), 0),
		RedRate:       coerceFloat(firstPresent(p, "红牌率", "red_rate"), 0),
		PenaltyRate:   coerceFloat(firstPresent(p, "点球率", "penalty_rate"), 0),
		LateSwap:      truthy(firstPresent(p, "临时换裁", "late_swap")),
		Scandal:       truthy(firstPresent(p, "丑闻", "scandal")),
		TransferHot:   truthy(firstPresent(p, "转会热", "transfer_hot")),
		HypeScore:     coerceFloat(firstPresent(p, "热度", "hype_score"), 0),
		DerbyStrength: coerceFloat(firstPresent(p, "宿敌强度", "derby_strength"), 0),
		RecentTension: coerceFloat(firstPresent(p, "近期紧张", "recent_tension"), 0),
		SocialLevel:   coerceInt(firstPresent(p, "社会S", "S"), 0),
	}
}

func normalizePhase(value string) string {
	phase := strings.ToLower(strings.TrimSpace(value))
	if phase == "" {
		return PhaseMid
	}
	return phase
}

func hasKeyPrefix(p map[string]any, prefix string) bool {
	for key := range p {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func hasAnyKey(p map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := p[key]; ok {
			return true
		}
	}
	return false
}

func containsAny(value string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}

func firstPresent(p map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := p[key]; ok {
			return value
		}
	}
	return nil
}

func coerceFloat(value any, fallback float64) float64 {
	out, ok := coerceOptionalFloat(value)
	if !ok {
		return fallback
	}
	return out
}

func coerceOptionalFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		out, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return out, true
	default:
		return 0, false
	}
}

func coerceInt(value any, fallback int) int {
	out, ok := coerceOptionalFloat(value)
	if !ok {
		return fallback
	}
	return int(out)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "t", "on":
			return true
		}
		return false
	default:
		out, ok := coerceOptionalFloat(value)
		return ok && out == 1
	}
}
