// Package prediction holds the match outcome models and the causal
// adjustment that turns team ratings plus a factor snapshot into a final
// probability set with betting-style advice.
package prediction

import (
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
)

const (
	ModelV5       = "v5"
	ModelTriad    = "triad"
	ModelEnsemble = "ensemble"
)

// MatchInput identifies one fixture for the outcome models.
type MatchInput struct {
	MatchID  string         `json:"match_id"`
	Home     string         `json:"home"`
	Away     string         `json:"away"`
	Features map[string]any `json:"features,omitempty"`
}

// OutcomeProbs is the win/draw/win probability triple.
type OutcomeProbs struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// Best returns the most likely outcome as a compact H/D/A label.
func (p OutcomeProbs) Best() string {
	switch {
	case p.HomeWin >= p.Draw && p.HomeWin >= p.AwayWin:
		return "H"
	case p.AwayWin >= p.Draw:
		return "A"
	default:
		return "D"
	}
}

// ModelResult is one model's full output: outcome probabilities plus a
// scoreline distribution keyed "h-a".
type ModelResult struct {
	Probs   OutcomeProbs       `json:"probs"`
	Scores  map[string]float64 `json:"scores"`
	Version string             `json:"version"`
}

// ScoreProb is one ranked scoreline.
type ScoreProb struct {
	Score string  `json:"score"`
	Prob  float64 `json:"prob"`
}

// Top3 ranks the scoreline distribution and keeps the three most likely
// lines. Ties break lexically so output is stable across runs.
type Top3 struct {
	Probs   OutcomeProbs `json:"probs"`
	Scores  []ScoreProb  `json:"top3_scores"`
	Version string       `json:"version"`
}

// IsValidModel reports whether name selects a known model.
func IsValidModel(name string) bool {
	switch name {
	case ModelV5, ModelTriad, ModelEnsemble:
		return true
	}
	return false
}

// matchSeed derives a deterministic RNG seed from the fixture names so
// repeated calls for the same pairing return identical output.
func matchSeed(home, away string, offset int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(home))
	h.Write([]byte{'|'})
	h.Write([]byte(away))
	return int64(h.Sum64()%1_000_000) + offset
}

func newRNG(home, away string, offset int64) *rand.Rand {
	return rand.New(rand.NewSource(matchSeed(home, away, offset)))
}

// TopScores extracts the ranked top-3 view from a model result.
func TopScores(res ModelResult) Top3 {
	type kv struct {
		key  string
		prob float64
	}
	ranked := make([]kv, 0, len(res.Scores))
	for k, v := range res.Scores {
		ranked = append(ranked, kv{key: k, prob: v})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].prob != ranked[j].prob {
			return ranked[i].prob > ranked[j].prob
		}
		return ranked[i].key < ranked[j].key
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	out := Top3{Probs: res.Probs, Version: res.Version, Scores: make([]ScoreProb, 0, len(ranked))}
	for _, r := range ranked {
		out.Scores = append(out.Scores, ScoreProb{Score: r.key, Prob: round4(r.prob)})
	}
	return out
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
