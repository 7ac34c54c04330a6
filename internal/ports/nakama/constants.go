package nakama

const (
	// RpcCreateRoom is the Nakama RPC id clients call to create a new room.
	RpcCreateRoom = "create_room"

	// RpcJoinRoom is the Nakama RPC id clients call to resolve a room code
	// to a joinable match id.
	RpcJoinRoom = "join_room"

	// MatchNameEmberhold is the authoritative match handler name registered with Nakama.
	MatchNameEmberhold = "emberhold_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpSelectCharacter int64 = 1
	OpSelectScenario  int64 = 2
	OpStartGame       int64 = 3
	OpSelectCards     int64 = 4
	OpResolveAction   int64 = 5
	OpEndTurn         int64 = 6

	// Server -> Client events
	OpRoomSnapshot       int64 = 101
	OpPlayerJoined       int64 = 102
	OpPlayerLeft         int64 = 103
	OpHostChanged        int64 = 104
	OpCharacterSelected  int64 = 105
	OpScenarioSelected   int64 = 106
	OpScenarioStarted    int64 = 107
	OpCardsSubmitted     int64 = 108
	OpTurnOrder          int64 = 109
	OpTurnAdvanced       int64 = 110
	OpActionResolved     int64 = 111
	OpModifierReshuffled int64 = 112
	OpElementChanged     int64 = 113
	OpActorDefeated      int64 = 114
	OpRoundCompleted     int64 = 115
	OpScenarioCompleted  int64 = 116
	OpPlayerDisconnected int64 = 117
	OpPlayerReconnected  int64 = 118
	OpTurnSkipped        int64 = 119

	// OpGameError is sent privately to the user whose request failed.
	OpGameError int64 = 400
)
