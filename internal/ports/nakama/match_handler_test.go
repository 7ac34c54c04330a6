package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"emberhold/internal/app"
	"emberhold/internal/domain"
	"emberhold/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastLabel      string
	lastOpCode     int64
	lastData       []byte
	opCodes        []int64
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	md.opCodes = append(md.opCodes, opCode)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) sawOpCode(op int64) bool {
	for _, c := range md.opCodes {
		if c == op {
			return true
		}
	}
	return false
}

type mockPresence struct {
	userID    string
	sessionID string
	username  string
}

func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return p.sessionID }
func (p mockPresence) GetNodeId() string                 { return "node-1" }
func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return true }
func (p mockPresence) GetUsername() string               { return p.username }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }

// mockMessage implements runtime.MatchData for driving MatchLoop.
type mockMessage struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMessage) GetOpCode() int64      { return m.opCode }
func (m mockMessage) GetData() []byte       { return m.data }
func (m mockMessage) GetReliable() bool     { return true }
func (m mockMessage) GetReceiveTime() int64 { return 0 }

// mockRecords captures scenario records instead of writing to Nakama storage.
type mockRecords struct {
	records []ports.ScenarioRecord
}

func (mr *mockRecords) WriteScenarioRecord(ctx context.Context, record ports.ScenarioRecord) error {
	mr.records = append(mr.records, record)
	return nil
}

func message(p mockPresence, opCode int64, payload interface{}) mockMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return mockMessage{mockPresence: p, opCode: opCode, data: data}
}

// initMatch runs MatchInit with a fixed code and seed plus the given env
// overrides and swaps in a capturing records port.
func initMatch(t *testing.T, env map[string]string) (*matchHandler, *MatchState, *mockRecords) {
	t.Helper()
	handler := newMatchHandler()

	ctx := context.Background()
	if env != nil {
		ctx = context.WithValue(ctx, runtime.RUNTIME_CTX_ENV, env)
	}

	state, rate, label := handler.MatchInit(ctx, noopLogger{}, nil, nil, map[string]interface{}{
		"code": "HOLD42",
		"seed": "1234",
	})
	if rate != tickRate {
		t.Fatalf("tick rate = %d, want %d", rate, tickRate)
	}

	var parsed matchLabel
	if err := json.Unmarshal([]byte(label), &parsed); err != nil {
		t.Fatalf("label unmarshal failed: %v", err)
	}
	if parsed.Code != "HOLD42" || parsed.Phase != string(domain.PhaseLobby) {
		t.Fatalf("label unexpected: %+v", parsed)
	}

	matchState, ok := state.(*MatchState)
	if !ok {
		t.Fatalf("MatchInit returned %T, want *MatchState", state)
	}
	records := &mockRecords{}
	matchState.Records = records
	return handler, matchState, records
}

func joinPlayer(handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, p mockPresence) *MatchState {
	ctx := context.Background()
	next, ok, _ := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, state.Tick, state, p, nil)
	state = next.(*MatchState)
	if !ok {
		return state
	}
	return handler.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, state.Tick, state, []runtime.Presence{p}).(*MatchState)
}

func loop(handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, msgs ...runtime.MatchData) interface{} {
	state.Tick++
	return handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, state.Tick, state, msgs)
}

func TestMatchJoinAttemptGuards(t *testing.T) {
	handler, state, _ := initMatch(t, map[string]string{"emberhold_max_players": "2"})
	dispatcher := &mockDispatcher{}

	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	p2 := mockPresence{userID: "p2", sessionID: "s2", username: "Bri"}
	state = joinPlayer(handler, state, dispatcher, p1)
	state = joinPlayer(handler, state, dispatcher, p2)

	if _, ok, reason := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, mockPresence{userID: "p3", sessionID: "s3"}, nil); ok {
		t.Fatalf("full room admitted a third player (%q)", reason)
	}

	// Strangers are shut out mid-scenario; roster members may rejoin.
	state.Room.Phase = domain.PhaseInScenario
	if _, ok, _ := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, mockPresence{userID: "p3", sessionID: "s3"}, nil); ok {
		t.Fatal("stranger admitted mid-scenario")
	}
	if _, ok, reason := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, mockPresence{userID: "p1", sessionID: "s9"}, nil); !ok {
		t.Fatalf("roster member rejected mid-scenario: %s", reason)
	}

	state.Room.Phase = domain.PhaseCompleted
	if _, ok, _ := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, mockPresence{userID: "p3", sessionID: "s3"}, nil); ok {
		t.Fatal("stranger admitted to a finished room")
	}
}

func TestMatchJoinBuildsRosterAndRegistry(t *testing.T) {
	handler, state, _ := initMatch(t, nil)
	dispatcher := &mockDispatcher{}

	state = joinPlayer(handler, state, dispatcher, mockPresence{userID: "p1", sessionID: "s1", username: "Avi"})
	state = joinPlayer(handler, state, dispatcher, mockPresence{userID: "p2", sessionID: "s2", username: "Bri"})

	if len(state.Room.Players) != 2 {
		t.Fatalf("roster = %d, want 2", len(state.Room.Players))
	}
	if state.Room.HostID != "p1" {
		t.Fatalf("host = %s, want first joiner", state.Room.HostID)
	}
	if !state.Registry.Connected("p1") || !state.Registry.Connected("p2") {
		t.Fatal("registry missing a connected player")
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatal("expected label update after join")
	}
	// Every joiner gets a targeted snapshot.
	if !dispatcher.sawOpCode(OpRoomSnapshot) {
		t.Fatal("expected room snapshot broadcast")
	}
}

func TestMatchLeaveLobbyPromotesHostAndTerminatesEmpty(t *testing.T) {
	handler, state, _ := initMatch(t, nil)
	dispatcher := &mockDispatcher{}

	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	p2 := mockPresence{userID: "p2", sessionID: "s2", username: "Bri"}
	state = joinPlayer(handler, state, dispatcher, p1)
	state = joinPlayer(handler, state, dispatcher, p2)

	next := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{p1})
	state = next.(*MatchState)
	if _, exists := state.Room.Players["p1"]; exists {
		t.Fatal("lobby leave should vacate the seat")
	}
	if state.Room.HostID != "p2" {
		t.Fatalf("host = %s, want promoted p2", state.Room.HostID)
	}
	if !dispatcher.sawOpCode(OpHostChanged) {
		t.Fatal("expected host change broadcast")
	}

	if next := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{p2}); next != nil {
		t.Fatal("empty room should terminate the match")
	}
}

func TestMatchLeaveIgnoresSupersededSession(t *testing.T) {
	handler, state, _ := initMatch(t, nil)
	dispatcher := &mockDispatcher{}

	old := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, old)

	// The same player reconnects on a fresh session before the old one closes.
	fresh := mockPresence{userID: "p1", sessionID: "s2", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, fresh)
	if !dispatcher.sawOpCode(OpPlayerReconnected) {
		t.Fatal("expected reconnect broadcast for roster member")
	}

	next := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{old})
	state = next.(*MatchState)

	if !state.Registry.Connected("p1") {
		t.Fatal("late close of the replaced session must not disconnect the player")
	}
	if _, exists := state.Room.Players["p1"]; !exists {
		t.Fatal("player should keep the roster seat")
	}
	if _, exists := state.Presences["p1"]; !exists {
		t.Fatal("fresh presence should survive the stale leave")
	}
}

// driveToScenario walks a solo lobby through character select, scenario
// select and game start via MatchLoop messages.
func driveToScenario(t *testing.T, handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, p mockPresence) *MatchState {
	t.Helper()

	next := loop(handler, state, dispatcher, message(p, OpSelectCharacter, SelectCharacterRequest{Class: "warden"}))
	state = next.(*MatchState)
	if state.Room.Phase != domain.PhaseCharacterSelect {
		t.Fatalf("phase = %s, want character_select", state.Room.Phase)
	}

	next = loop(handler, state, dispatcher, message(p, OpSelectScenario, SelectScenarioRequest{Scenario: "crypt_of_embers"}))
	state = next.(*MatchState)

	next = loop(handler, state, dispatcher, mockMessage{mockPresence: p, opCode: OpStartGame})
	state = next.(*MatchState)
	if state.Scenario == nil {
		t.Fatal("scenario not started")
	}
	if state.Room.Phase != domain.PhaseInScenario {
		t.Fatalf("phase = %s, want in_scenario", state.Room.Phase)
	}
	return state
}

func TestMessageFlowStartsScenario(t *testing.T) {
	handler, state, _ := initMatch(t, nil)
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, p1)

	state = driveToScenario(t, handler, state, dispatcher, p1)

	if !dispatcher.sawOpCode(OpScenarioStarted) {
		t.Fatal("expected scenario start broadcast")
	}

	// The label closes so the listing index stops offering the room.
	var label matchLabel
	if err := json.Unmarshal([]byte(dispatcher.lastLabel), &label); err != nil {
		t.Fatalf("label unmarshal: %v", err)
	}
	if label.Open != 0 {
		t.Fatalf("label open = %d, want 0 in scenario", label.Open)
	}

	next := loop(handler, state, dispatcher, message(p1, OpSelectCards, SelectCardsRequest{Top: "warden_charge", Bottom: "warden_bulwark"}))
	state = next.(*MatchState)
	if state.Scenario.Round.Phase != domain.RoundResolving {
		t.Fatalf("round phase = %s, want resolving after the only submission", state.Scenario.Round.Phase)
	}
	if !dispatcher.sawOpCode(OpTurnOrder) || !dispatcher.sawOpCode(OpTurnAdvanced) {
		t.Fatal("expected turn order and turn advance broadcasts")
	}
}

func TestInvalidRequestGetsTargetedError(t *testing.T) {
	handler, state, _ := initMatch(t, nil)
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, p1)

	next := loop(handler, state, dispatcher, message(p1, OpSelectCharacter, SelectCharacterRequest{Class: "no_such_class"}))
	state = next.(*MatchState)

	if dispatcher.lastOpCode != OpGameError {
		t.Fatalf("last opcode = %d, want game error", dispatcher.lastOpCode)
	}
	var gameErr GameErrorEvent
	if err := json.Unmarshal(dispatcher.lastData, &gameErr); err != nil {
		t.Fatalf("error payload unmarshal: %v", err)
	}
	if gameErr.Code == 0 || gameErr.Message == "" {
		t.Fatalf("error payload incomplete: %+v", gameErr)
	}
	if state.Room.Phase != domain.PhaseLobby {
		t.Fatal("failed selection must not change the room phase")
	}
}

func TestStartGameNeedsMinimumPlayers(t *testing.T) {
	handler, state, _ := initMatch(t, map[string]string{"emberhold_min_players": "2"})
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, p1)

	next := loop(handler, state, dispatcher, mockMessage{mockPresence: p1, opCode: OpStartGame})
	state = next.(*MatchState)

	if state.Scenario != nil {
		t.Fatal("solo start should be rejected below the minimum")
	}
	if dispatcher.lastOpCode != OpGameError {
		t.Fatalf("last opcode = %d, want game error", dispatcher.lastOpCode)
	}
}

func TestStartGameByNonHostReportsHostError(t *testing.T) {
	handler, state, _ := initMatch(t, map[string]string{"emberhold_min_players": "3"})
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	p2 := mockPresence{userID: "p2", sessionID: "s2", username: "Bri"}
	state = joinPlayer(handler, state, dispatcher, p1)
	state = joinPlayer(handler, state, dispatcher, p2)

	next := loop(handler, state, dispatcher,
		message(p1, OpSelectCharacter, SelectCharacterRequest{Class: "warden"}),
		message(p2, OpSelectCharacter, SelectCharacterRequest{Class: "emberweaver"}))
	state = next.(*MatchState)

	// The roster is also below the minimum, but a non-host must hear that
	// starting is not theirs to do, not a roster size complaint.
	next = loop(handler, state, dispatcher, mockMessage{mockPresence: p2, opCode: OpStartGame})
	state = next.(*MatchState)

	if state.Scenario != nil {
		t.Fatal("non-host start request must not start the scenario")
	}
	if dispatcher.lastOpCode != OpGameError {
		t.Fatalf("last opcode = %d, want game error", dispatcher.lastOpCode)
	}
	var gameErr GameErrorEvent
	if err := json.Unmarshal(dispatcher.lastData, &gameErr); err != nil {
		t.Fatalf("error payload unmarshal: %v", err)
	}
	if gameErr.Code != app.ErrorCode(app.ErrNotHost) {
		t.Fatalf("error code = %d, want %d for a non-host start", gameErr.Code, app.ErrorCode(app.ErrNotHost))
	}
}

func TestGraceSupervisorSkipsDisconnectedTurn(t *testing.T) {
	handler, state, _ := initMatch(t, map[string]string{"emberhold_grace_period_sec": "2"})
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, p1)
	state = driveToScenario(t, handler, state, dispatcher, p1)

	next := loop(handler, state, dispatcher, message(p1, OpSelectCards, SelectCardsRequest{Top: "warden_charge", Bottom: "warden_bulwark"}))
	state = next.(*MatchState)

	// charge gives initiative 18; the character acts before any monster.
	if active := state.Scenario.Round.Active(); active == nil || active.Actor != "char:p1" {
		t.Fatalf("active = %+v, want char:p1", active)
	}

	next = handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, state.Tick, state, []runtime.Presence{p1})
	state = next.(*MatchState)
	if !dispatcher.sawOpCode(OpPlayerDisconnected) {
		t.Fatal("expected disconnect broadcast mid-scenario")
	}
	if _, exists := state.Room.Players["p1"]; !exists {
		t.Fatal("mid-scenario leave must hold the roster seat")
	}

	// One tick to arm the deadline, two more to reach it.
	for i := 0; i < 3; i++ {
		if dispatcher.sawOpCode(OpTurnSkipped) {
			break
		}
		next = loop(handler, state, dispatcher)
		state = next.(*MatchState)
	}

	if !dispatcher.sawOpCode(OpTurnSkipped) {
		t.Fatal("grace expiry did not skip the turn")
	}
	if state.Scenario.Round.IsActive("char:p1") {
		t.Fatal("skipped character should no longer be active")
	}
	if state.GraceDeadline != 0 || state.GraceActor != "" {
		t.Fatal("grace timer should be disarmed after the skip")
	}
}

func TestGraceTimerPausesOnReconnect(t *testing.T) {
	handler, state, _ := initMatch(t, map[string]string{"emberhold_grace_period_sec": "10"})
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, p1)
	state = driveToScenario(t, handler, state, dispatcher, p1)

	next := loop(handler, state, dispatcher, message(p1, OpSelectCards, SelectCardsRequest{Top: "warden_charge", Bottom: "warden_bulwark"}))
	state = next.(*MatchState)

	next = handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, state.Tick, state, []runtime.Presence{p1})
	state = next.(*MatchState)

	// Burn four ticks of the grace window, then reconnect.
	for i := 0; i < 4; i++ {
		state = loop(handler, state, dispatcher).(*MatchState)
	}
	if state.GraceDeadline == 0 {
		t.Fatal("grace timer should be armed while disconnected")
	}

	back := mockPresence{userID: "p1", sessionID: "s2", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, back)
	state = loop(handler, state, dispatcher).(*MatchState)

	if state.GraceDeadline != 0 {
		t.Fatal("grace timer should pause on reconnect")
	}
	remaining, ok := state.GraceRemaining["char:p1"]
	if !ok {
		t.Fatal("unused grace should be kept for the rest of the turn")
	}
	if remaining >= int64(state.GracePeriod)*tickRate {
		t.Fatalf("remaining = %d, want less than the full window", remaining)
	}
	if dispatcher.sawOpCode(OpTurnSkipped) {
		t.Fatal("no skip should fire while the timer is paused")
	}
}

func TestGraceWindowResetsOnNextTurn(t *testing.T) {
	handler, state, _ := initMatch(t, map[string]string{"emberhold_grace_period_sec": "10"})
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, p1)
	state = driveToScenario(t, handler, state, dispatcher, p1)

	next := loop(handler, state, dispatcher, message(p1, OpSelectCards, SelectCardsRequest{Top: "warden_charge", Bottom: "warden_bulwark"}))
	state = next.(*MatchState)

	// Disconnect, burn part of the window, reconnect.
	next = handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, state.Tick, state, []runtime.Presence{p1})
	state = next.(*MatchState)
	for i := 0; i < 2; i++ {
		state = loop(handler, state, dispatcher).(*MatchState)
	}
	back := mockPresence{userID: "p1", sessionID: "s2", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, back)
	state = loop(handler, state, dispatcher).(*MatchState)
	if _, ok := state.GraceRemaining["char:p1"]; !ok {
		t.Fatal("reconnect should save the unused grace for this turn")
	}

	// Finishing the turn hands over to a monster and drops the remainder.
	next = loop(handler, state, dispatcher, mockMessage{mockPresence: back, opCode: OpEndTurn})
	state = next.(*MatchState)
	if len(state.GraceRemaining) != 0 {
		t.Fatalf("grace remainder survived the turn: %v", state.GraceRemaining)
	}

	// Run out the monster turns to reach round two.
	for state.Scenario.Round.Phase == domain.RoundResolving {
		active := state.Scenario.Round.Active()
		if _, err := state.App.SkipTurn(state.Room, state.Scenario, active.Actor); err != nil {
			t.Fatalf("skip %s: %v", active.Actor, err)
		}
	}
	if state.Scenario.Round.Number != 2 {
		t.Fatalf("round = %d, want 2", state.Scenario.Round.Number)
	}

	next = loop(handler, state, dispatcher, message(back, OpSelectCards, SelectCardsRequest{Top: "warden_charge", Bottom: "warden_bulwark"}))
	state = next.(*MatchState)
	if active := state.Scenario.Round.Active(); active == nil || active.Actor != "char:p1" {
		t.Fatalf("active = %+v, want char:p1 first in round two", active)
	}

	// A disconnect on the fresh turn arms the full window, not round one's
	// leftover.
	next = handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, state.Tick, state, []runtime.Presence{back})
	state = next.(*MatchState)
	state = loop(handler, state, dispatcher).(*MatchState)

	if state.GraceActor != "char:p1" || state.GraceDeadline == 0 {
		t.Fatal("grace timer should re-arm on the new turn")
	}
	if window := state.GraceDeadline - state.Tick; window != int64(state.GracePeriod)*tickRate {
		t.Fatalf("armed window = %d ticks, want the full %d", window, int64(state.GracePeriod)*tickRate)
	}
}

func TestMonsterActsAfterDelay(t *testing.T) {
	handler, state, _ := initMatch(t, map[string]string{
		"emberhold_monster_min_delay_sec": "1",
		"emberhold_monster_max_delay_sec": "1",
	})
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, p1)
	state = driveToScenario(t, handler, state, dispatcher, p1)

	next := loop(handler, state, dispatcher, message(p1, OpSelectCards, SelectCardsRequest{Top: "warden_charge", Bottom: "warden_bulwark"}))
	state = next.(*MatchState)

	next = loop(handler, state, dispatcher, mockMessage{mockPresence: p1, opCode: OpEndTurn})
	state = next.(*MatchState)

	active := state.Scenario.Round.Active()
	if active == nil {
		t.Fatal("no active entry after the character's turn")
	}
	actor, _ := state.Scenario.Actor(active.Actor)
	if actor.Kind != domain.ActorMonster {
		t.Fatalf("active actor %s is not a monster", active.Actor)
	}

	// The end-turn tick already armed the delay; the next tick reaches it.
	if state.MonsterWaitUntil == 0 {
		t.Fatal("monster delay should be armed")
	}
	state = loop(handler, state, dispatcher).(*MatchState)

	if cur := state.Scenario.Round.Active(); cur != nil && cur.Actor == active.Actor {
		t.Fatal("monster turn did not complete after the delay")
	}
	if !dispatcher.sawOpCode(OpActionResolved) && !dispatcher.sawOpCode(OpTurnSkipped) {
		t.Fatal("monster turn produced no broadcast")
	}
}

func TestScenarioRecordWrittenOnCompletion(t *testing.T) {
	handler, state, records := initMatch(t, nil)
	dispatcher := &mockDispatcher{}
	p1 := mockPresence{userID: "p1", sessionID: "s1", username: "Avi"}
	state = joinPlayer(handler, state, dispatcher, p1)
	state = driveToScenario(t, handler, state, dispatcher, p1)

	events := state.App.AbortInternal(state.Room, state.Scenario)
	handler.broadcastEvents(context.Background(), state, dispatcher, noopLogger{}, events)

	if len(records.records) != 1 {
		t.Fatalf("records written = %d, want 1", len(records.records))
	}
	rec := records.records[0]
	if rec.RoomCode != "HOLD42" || rec.ScenarioID != "crypt_of_embers" {
		t.Fatalf("record header wrong: %+v", rec)
	}
	if rec.Outcome != domain.OutcomeInternalError {
		t.Fatalf("outcome = %s, want internal_error", rec.Outcome)
	}
	if len(rec.Players) != 1 || rec.Players[0].PlayerID != "p1" {
		t.Fatalf("player results wrong: %+v", rec.Players)
	}
}
