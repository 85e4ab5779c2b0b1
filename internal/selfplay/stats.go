package selfplay

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/park285/Cheese-Checkers/internal/domain"
	"github.com/park285/Cheese-Checkers/pkg/checkersdto"
)

// Score is 1 for a win, 0.5 for a draw and 0 for a loss, from the side
// recorded in rec.PlayerColor.
func Score(rec *domain.GameRecord) float64 {
	switch rec.Result {
	case "red_wins":
		if rec.PlayerColor == "red" {
			return 1
		}
		return 0
	case "black_wins":
		if rec.PlayerColor == "black" {
			return 1
		}
		return 0
	default:
		return 0.5
	}
}

// playerSide fills in the player's color for records written without one.
// Mirror matches cannot be told apart by name and are left unscored.
func playerSide(rec *domain.GameRecord, player string) string {
	switch {
	case rec.PlayerColor != "":
		return rec.PlayerColor
	case rec.Red == rec.Black:
		return ""
	case rec.Red == player:
		return "red"
	case rec.Black == player:
		return "black"
	}
	return ""
}

// Summarize aggregates records from player's point of view. Records with no
// known player side are skipped.
func Summarize(runID, player, opponent string, records []*domain.GameRecord) checkersdto.MatchReport {
	rep := checkersdto.MatchReport{RunID: runID, Player: player, Opponent: opponent}
	var scores, plies []float64
	for _, rec := range records {
		if rec == nil {
			continue
		}
		side := playerSide(rec, player)
		if side == "" {
			continue
		}
		scored := *rec
		scored.PlayerColor = side
		s := Score(&scored)
		switch s {
		case 1:
			rep.Wins++
		case 0:
			rep.Losses++
		default:
			rep.Draws++
		}
		scores = append(scores, s)
		plies = append(plies, float64(rec.Plies))
	}
	rep.Games = len(scores)
	if rep.Games == 0 {
		return rep
	}

	mean, variance := stat.PopMeanVariance(scores, nil)
	rep.MeanScore = mean
	rep.StdErr = math.Sqrt(variance / float64(rep.Games))
	rep.MeanPlies = stat.Mean(plies, nil)

	z := distuv.UnitNormal.Quantile(0.975)
	rep.EloLow = scoreToElo(mean - z*rep.StdErr)
	rep.Elo = scoreToElo(mean)
	rep.EloHigh = scoreToElo(mean + z*rep.StdErr)
	return rep
}

// eloEpsilon keeps sweeps finite: a perfect score reads as about +1200.
const eloEpsilon = 1e-3

// scoreToElo maps an expected score to an Elo difference, clamping the score
// to [eloEpsilon, 1-eloEpsilon].
func scoreToElo(x float64) float64 {
	x = math.Min(math.Max(x, eloEpsilon), 1-eloEpsilon)
	return -400 * math.Log10(1/x-1)
}
