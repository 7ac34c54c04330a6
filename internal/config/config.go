package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	// GracePeriodSeconds is how long a disconnected player's turn is held
	// open before the engine skips it.
	GracePeriodSeconds int `json:"grace_period_seconds"`
	MinPlayersToStart  int `json:"min_players_to_start"`
	MaxPlayers         int `json:"max_players"`
	// MonsterMinDelaySeconds/MonsterMaxDelaySeconds bound the randomized
	// pause before a monster takes its turn, so clients can follow along.
	MonsterMinDelaySeconds int `json:"monster_min_delay_seconds"`
	MonsterMaxDelaySeconds int `json:"monster_max_delay_seconds"`
	// ElementConsumeBlocks rejects actions whose optional element cost
	// cannot be paid instead of resolving them without the bonus.
	ElementConsumeBlocks bool `json:"element_consume_blocks"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetGracePeriodSeconds returns the disconnect grace window.
func GetGracePeriodSeconds() int {
	if cfg == nil || cfg.GracePeriodSeconds <= 0 {
		return 60 // Safe default
	}
	return cfg.GracePeriodSeconds
}

// GetMinPlayersToStart returns the minimum roster size to start a scenario.
func GetMinPlayersToStart() int {
	if cfg == nil || cfg.MinPlayersToStart <= 0 {
		return 1
	}
	return cfg.MinPlayersToStart
}

// GetMaxPlayers returns the room capacity.
func GetMaxPlayers() int {
	if cfg == nil || cfg.MaxPlayers <= 0 {
		return 4
	}
	return cfg.MaxPlayers
}

// GetMonsterDelaySeconds returns the (min, max) pause before a monster acts.
func GetMonsterDelaySeconds() (int, int) {
	min, max := 1, 3
	if cfg != nil && cfg.MonsterMinDelaySeconds > 0 {
		min = cfg.MonsterMinDelaySeconds
	}
	if cfg != nil && cfg.MonsterMaxDelaySeconds >= min {
		max = cfg.MonsterMaxDelaySeconds
	}
	if max < min {
		max = min
	}
	return min, max
}

// GetElementConsumeBlocks reports the element-cost policy.
func GetElementConsumeBlocks() bool {
	return cfg != nil && cfg.ElementConsumeBlocks
}
