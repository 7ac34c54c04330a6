package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
)

// roomCodeAlphabet avoids ambiguous characters (0/O, 1/I).
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomCodeLength = 6

type CreateRoomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

type JoinRoomRequest struct {
	Code string `json:"code"`
}

type JoinRoomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcCreateRoom, rpcCreateRoom); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcJoinRoom, rpcJoinRoom)
}

// rpcCreateRoom creates a fresh authoritative match with a shareable room
// code. The caller joins it through the normal match join flow afterwards.
func rpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	code := newRoomCode()
	params := map[string]interface{}{
		"code": code,
		"seed": fmt.Sprintf("%d", time.Now().UnixNano()),
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameEmberhold, params)
	if err != nil {
		logger.Error("RpcCreateRoom [User:%s]: Failed to create match: %v", userId, err)
		return "", err
	}

	logger.Info("RpcCreateRoom [User:%s]: Created match %s with code %s", userId, matchID, code)
	resp := CreateRoomResponse{MatchID: matchID, Code: code}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

// rpcJoinRoom resolves a room code to a match id using the match label index.
func rpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req JoinRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
	}
	if req.Code == "" {
		return "", runtime.NewError("room code is required", 3)
	}

	limit := 1
	authoritative := true
	query := fmt.Sprintf("+label.code:%s", req.Code)

	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, query)
	if err != nil {
		logger.Error("RpcJoinRoom [User:%s]: Failed to list matches: %v", userId, err)
		return "", err
	}
	if len(matches) == 0 {
		return "", runtime.NewError("room not found", 5) // NOT_FOUND
	}

	resp := JoinRoomResponse{MatchID: matches[0].MatchId, Code: req.Code}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

func newRoomCode() string {
	buf := make([]byte, roomCodeLength)
	for i := range buf {
		buf[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(buf)
}
