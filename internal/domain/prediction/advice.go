package prediction

import (
	"math"

	"github.com/wibowo/causal-football/internal/domain/factors"
	"github.com/wibowo/causal-football/internal/domain/importance"
	"github.com/wibowo/causal-football/internal/domain/ingest"
)

const (
	AdviceAbstain  = "abstain"
	AdviceLeanHome = "lean_home"
	AdviceLeanAway = "lean_away"
)

// shrinkStrength controls how aggressively probabilities are pulled back
// toward the coin flip as the adjusted error grows. Higher is more
// conservative.
const shrinkStrength = 8.0

const (
	minAdviceEdge       = 0.10
	minAdviceConfidence = 0.5
	maxAdviceUpset      = 0.5
)

// TeamView is one side of an adjusted prediction.
type TeamView struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Prob   float64 `json:"prob"`
}

// Edge reports which side the adjusted probabilities favor and by how much.
type Edge struct {
	Side string  `json:"side,omitempty"`
	Size float64 `json:"size"`
}

// Adjusted is the full causal prediction: shrunken outcome probabilities
// with the evidence that produced them.
type Adjusted struct {
	MatchID    string             `json:"match_id"`
	Home       TeamView           `json:"home"`
	Away       TeamView           `json:"away"`
	DrawProb   float64            `json:"draw_prob"`
	Confidence float64            `json:"confidence"`
	Importance importance.Result  `json:"importance"`
	Factors    factors.Evaluation `json:"factors"`
	Causal     factors.Snapshot   `json:"causal"`
	UpsetIndex float64            `json:"upset_index"`
	Advice     string             `json:"advice"`
	Edge       Edge               `json:"edge"`
}

// AdjustInput carries everything Adjust needs. Ratings are optional; nil
// means an even 0.5.
type AdjustInput struct {
	MatchID    string
	HomeName   string
	HomeRating *float64
	AwayName   string
	AwayRating *float64
	Payload    map[string]any
	P0         float64
}

// Adjust runs the causal prediction chain: normalize the context payload,
// evaluate factors, build the snapshot, derive baseline win probabilities
// from ratings and shrink them toward 0.5 in proportion to the adjusted
// error. Advice leans only when the edge is wide, confidence is high and
// the upset index is quiet.
func Adjust(in AdjustInput) Adjusted {
	canonical := ingest.Normalize(in.Payload)
	eval := factors.Evaluate(canonical)
	snapshot := factors.BuildSnapshot(eval.Items, canonical, in.P0)
	imp := importance.Score(ingest.EntityMatch, in.Payload)

	homeRating := ratingOrDefault(in.HomeRating)
	awayRating := ratingOrDefault(in.AwayRating)
	pHomeBase, pAwayBase := softmax2(homeRating, awayRating, 3.0)

	conf := clamp01(1.0 - shrinkStrength*snapshot.AdjustedError)
	pHome := shrink(pHomeBase, conf)
	pAway := shrink(pAwayBase, conf)
	pDraw := math.Max(0, 1-(pHome+pAway))

	total := pHome + pAway + pDraw
	pHome, pDraw, pAway = pHome/total, pDraw/total, pAway/total

	upset := upsetIndex(canonical, snapshot)

	advice := AdviceAbstain
	edge := Edge{Size: round3(math.Abs(pHome - pAway))}
	if math.Abs(pHome-pAway) >= minAdviceEdge && conf >= minAdviceConfidence && upset <= maxAdviceUpset {
		if pHome > pAway {
			advice, edge.Side = AdviceLeanHome, "home"
		} else {
			advice, edge.Side = AdviceLeanAway, "away"
		}
	}

	return Adjusted{
		MatchID:    in.MatchID,
		Home:       TeamView{Name: in.HomeName, Rating: homeRating, Prob: round4(pHome)},
		Away:       TeamView{Name: in.AwayName, Rating: awayRating, Prob: round4(pAway)},
		DrawProb:   round4(pDraw),
		Confidence: round3(conf),
		Importance: imp,
		Factors:    eval,
		Causal:     snapshot,
		UpsetIndex: round3(upset),
		Advice:     advice,
		Edge:       edge,
	}
}

// upsetIndex prefers the explicit odds deviation when the source supplied
// one, else falls back to reading volatility off the aggregate error
// multiplier (1.0..2.5 mapped onto 0..1).
func upsetIndex(c ingest.Canonical, snapshot factors.Snapshot) float64 {
	if c.OddsDeviation != nil {
		return clamp01((*c.OddsDeviation - 0.1) / 0.9)
	}
	return clamp01((snapshot.ErrorMul - 1.0) / 1.5)
}

func softmax2(a, b, alpha float64) (float64, float64) {
	ea := math.Exp(alpha * a)
	eb := math.Exp(alpha * b)
	return ea / (ea + eb), eb / (ea + eb)
}

func shrink(p, conf float64) float64 {
	return 0.5 + conf*(p-0.5)
}

func ratingOrDefault(r *float64) float64 {
	if r == nil {
		return 0.5
	}
	return *r
}

func round3(x float64) float64 {
	return math.Round(x*1e3) / 1e3
}
