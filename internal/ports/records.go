package ports

import (
	"context"

	"emberhold/internal/domain"
)

// PlayerResult is one player's line in a scenario record.
type PlayerResult struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	DamageDealt int    `json:"damage_dealt"`
	DamageTaken int    `json:"damage_taken"`
	Defeats     int    `json:"defeats"`
}

// ScenarioRecord captures the result of a finished scenario.
type ScenarioRecord struct {
	RoomCode   string         `json:"room_code"`
	ScenarioID string         `json:"scenario_id"`
	Outcome    domain.Outcome `json:"outcome"`
	Rounds     int            `json:"rounds"`
	Players    []PlayerResult `json:"players"`
	FinishedAt int64          `json:"finished_at"`
}

// RecordsPort persists scenario outcomes for later retrieval.
type RecordsPort interface {
	// WriteScenarioRecord stores a finished scenario's record under each
	// participating player.
	WriteScenarioRecord(ctx context.Context, record ScenarioRecord) error
}
