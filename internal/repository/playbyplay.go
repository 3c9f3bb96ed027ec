package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/xidui/funba/internal/models"
)

// PlayByPlayRepository handles play-by-play event rows
type PlayByPlayRepository struct {
	db *Database
}

// HasGame reports whether any event rows exist for a game. Used as the
// idempotency guard before a play-by-play backfill.
func (r *PlayByPlayRepository) HasGame(ctx context.Context, gameID string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM play_by_play WHERE game_id = $1)`,
		gameID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check play-by-play presence: %w", err)
	}
	return exists, nil
}

// InsertBatchTx inserts a game's event rows inside the caller's transaction
// using a single pipelined batch.
func (r *PlayByPlayRepository) InsertBatchTx(ctx context.Context, tx pgx.Tx, events []*models.PlayByPlayEvent) error {
	if len(events) == 0 {
		return nil
	}

	query := `
		INSERT INTO play_by_play (
			game_id, event_num, event_msg_type, event_msg_action_type, period,
			wc_time, pc_time, home_description, neutral_description,
			visitor_description, score, score_margin,
			player1_id, player2_id, player3_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(
			query,
			ev.GameID, ev.EventNum, ev.EventMsgType, ev.EventMsgActionType,
			ev.Period, ev.WCTime, ev.PCTime, ev.HomeDescription,
			ev.NeutralDescription, ev.VisitorDescription, ev.Score, ev.ScoreMargin,
			ev.Player1ID, ev.Player2ID, ev.Player3ID,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert play-by-play event: %w", err)
		}
	}

	return nil
}

// GameEventsOrdered returns all events for a game in replay order
// (period ascending, then insertion order within the period).
func (r *PlayByPlayRepository) GameEventsOrdered(ctx context.Context, gameID string) ([]models.PlayByPlayEvent, error) {
	query := `
		SELECT id, game_id, event_num, event_msg_type, event_msg_action_type,
		       period, wc_time, pc_time, home_description, neutral_description,
		       visitor_description, score, score_margin,
		       player1_id, player2_id, player3_id
		FROM play_by_play
		WHERE game_id = $1
		ORDER BY period ASC, id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query play-by-play: %w", err)
	}
	defer rows.Close()

	var events []models.PlayByPlayEvent
	for rows.Next() {
		var ev models.PlayByPlayEvent
		err := rows.Scan(
			&ev.ID, &ev.GameID, &ev.EventNum, &ev.EventMsgType,
			&ev.EventMsgActionType, &ev.Period, &ev.WCTime, &ev.PCTime,
			&ev.HomeDescription, &ev.NeutralDescription, &ev.VisitorDescription,
			&ev.Score, &ev.ScoreMargin, &ev.Player1ID, &ev.Player2ID, &ev.Player3ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play-by-play event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating play-by-play: %w", err)
	}

	return events, nil
}
