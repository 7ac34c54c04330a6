package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"emberhold/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const recordsCollection = "scenario_records"

// NakamaRecordsAdapter implements ports.RecordsPort on Nakama's storage engine.
type NakamaRecordsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaRecordsAdapter creates a new records adapter.
func NewNakamaRecordsAdapter(nk runtime.NakamaModule) *NakamaRecordsAdapter {
	return &NakamaRecordsAdapter{
		nk: nk,
	}
}

// WriteScenarioRecord stores the record once per participating player so each
// player can list their own history.
func (a *NakamaRecordsAdapter) WriteScenarioRecord(ctx context.Context, record ports.ScenarioRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario record: %w", err)
	}

	key := fmt.Sprintf("%s-%d", record.RoomCode, record.FinishedAt)
	writes := make([]*runtime.StorageWrite, 0, len(record.Players))
	for _, p := range record.Players {
		writes = append(writes, &runtime.StorageWrite{
			Collection:      recordsCollection,
			Key:             key,
			UserID:          p.PlayerID,
			Value:           string(value),
			PermissionRead:  1, // owner read
			PermissionWrite: 0, // server only
		})
	}
	if len(writes) == 0 {
		return nil
	}

	if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to write scenario record: %w", err)
	}
	return nil
}
