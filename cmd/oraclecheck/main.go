package main

import (
	"context"
	"log"
	"time"

	"github.com/park285/Cheese-Checkers/internal/checkers"
	"github.com/park285/Cheese-Checkers/internal/checkers/oracle"
	"github.com/park285/Cheese-Checkers/internal/checkers/selector"
	"github.com/park285/Cheese-Checkers/internal/config"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.Oracle.BaseURL == "" {
		log.Fatal("ORACLE_BASE_URL is required")
	}

	client := oracle.NewClient(cfg.Oracle.BaseURL,
		oracle.WithAPIKey(cfg.Oracle.APIKey),
		oracle.WithModel(cfg.Oracle.Model),
		oracle.WithTimeout(time.Duration(cfg.Oracle.TimeoutSec)*time.Second),
		oracle.WithRetry(0),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	models, err := client.Models(ctx)
	if err != nil {
		log.Printf("/models error: %v", err)
	} else {
		log.Printf("/models ok: %d models", len(models))
	}

	b := checkers.NewClassicBoard()
	snap := selector.Snapshot(b, checkers.Red)
	cctx, ccancel := context.WithTimeout(context.Background(), 2*time.Duration(cfg.Oracle.TimeoutSec)*time.Second)
	defer ccancel()
	cand, err := client.Suggest(cctx, snap)
	if err != nil {
		log.Printf("suggest error: %v", err)
		return
	}
	if cand.PieceIndex < 0 || cand.PieceIndex >= len(snap.Red) {
		log.Printf("suggest answered piece %d, out of range 0-%d", cand.PieceIndex, len(snap.Red)-1)
		return
	}
	piece := snap.Red[cand.PieceIndex]
	playable := false
	for _, d := range piece.ValidMoves {
		if d[0] == cand.DestRow && d[1] == cand.DestCol {
			playable = true
		}
	}
	from := checkers.Square{Row: piece.Row, Col: piece.Col}
	to := checkers.Square{Row: cand.DestRow, Col: cand.DestCol}
	log.Printf("suggest ok: model=%s move=%s %s playable=%t", cfg.Oracle.Model, from, to, playable)
}
