package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"emberhold/internal/app"
	"emberhold/internal/config"
	"emberhold/internal/domain"
	"emberhold/internal/npc"
	"emberhold/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// tickRate is ticks per second; grace and monster delays are configured in
// seconds and converted to ticks with this rate.
const tickRate = 1

// matchLabel is the JSON label advertised to the match listing index. The
// code key is what join_room queries on.
type matchLabel struct {
	Code  string `json:"code"`
	Phase string `json:"phase"`
	Open  int    `json:"open"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Code      string                      `json:"code"`
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // PlayerID -> live presence for targeted messaging
	Registry  *domain.ConnectionRegistry  `json:"-"` // Session <-> player identity mapping
	Room      *domain.Room                `json:"-"` // Lobby and roster state
	Scenario  *domain.ScenarioState       `json:"-"` // Active scenario state (nil before start)
	App       *app.Service                `json:"-"` // Game logic service
	Records   ports.RecordsPort           `json:"-"` // Scenario outcome persistence

	MinPlayers  int `json:"min_players"`
	MaxPlayers  int `json:"max_players"`
	GracePeriod int `json:"grace_period"` // seconds a disconnected player's turn stays open

	// GraceActor/GraceDeadline track the armed turn-skip timer; GraceRemaining
	// preserves unused grace ticks across a reconnect within the same turn.
	// GraceTurn/GraceTurnRound identify that turn so the remainder is dropped
	// the moment a different turn becomes active.
	GraceActor     domain.ActorID           `json:"grace_actor"`
	GraceDeadline  int64                    `json:"grace_deadline"`
	GraceTurn      domain.ActorID           `json:"grace_turn"`
	GraceTurnRound int                      `json:"grace_turn_round"`
	GraceRemaining map[domain.ActorID]int64 `json:"-"`

	MonsterMinDelay  int                           `json:"monster_min_delay"` // Min seconds a monster waits
	MonsterMaxDelay  int                           `json:"monster_max_delay"` // Max seconds a monster waits
	MonsterWaitUntil int64                         `json:"monster_wait_until"`
	Agents           map[domain.ActorID]*npc.Agent `json:"-"`
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	code, _ := params["code"].(string)
	if code == "" {
		code = newRoomCode()
	}

	seed := time.Now().UnixNano()
	if raw, ok := params["seed"].(string); ok {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			seed = parsed
		}
	}

	svc := app.NewService(rand.New(rand.NewSource(seed)), nil)
	svc.ElementConsumeBlocks = config.GetElementConsumeBlocks()

	state := &MatchState{
		Code:            code,
		Tick:            0,
		Presences:       make(map[string]runtime.Presence),
		Registry:        domain.NewConnectionRegistry(),
		Room:            domain.NewRoom(code),
		App:             svc,
		Records:         NewNakamaRecordsAdapter(nk),
		MinPlayers:      config.GetMinPlayersToStart(),
		MaxPlayers:      config.GetMaxPlayers(),
		GracePeriod:     config.GetGracePeriodSeconds(),
		GraceRemaining:  make(map[domain.ActorID]int64),
		Agents:          make(map[domain.ActorID]*npc.Agent),
	}
	state.MonsterMinDelay, state.MonsterMaxDelay = config.GetMonsterDelaySeconds()

	// Environment overrides for operational tuning.
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["emberhold_grace_period_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				state.GracePeriod = i
			}
		}
		if val, ok := env["emberhold_max_players"]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				state.MaxPlayers = i
			}
		}
		if val, ok := env["emberhold_min_players"]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				state.MinPlayers = i
			}
		}
		if val, ok := env["emberhold_monster_min_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				state.MonsterMinDelay = i
			}
		}
		if val, ok := env["emberhold_monster_max_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil && i >= state.MonsterMinDelay {
				state.MonsterMaxDelay = i
			}
		}
	}

	labelBytes, err := json.Marshal(matchLabel{
		Code:  state.Code,
		Phase: string(state.Room.Phase),
		Open:  state.MaxPlayers,
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	player := domain.PlayerID(presence.GetUserId())

	// Roster members may always rejoin, including mid-scenario.
	if _, exists := matchState.Room.Players[player]; exists {
		return matchState, true, ""
	}

	if matchState.Room.Terminal() {
		return matchState, false, "scenario finished"
	}
	if matchState.Room.Phase == domain.PhaseInScenario {
		return matchState, false, "scenario in progress"
	}
	if len(matchState.Room.Players) >= matchState.MaxPlayers {
		return matchState, false, "room full"
	}

	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		player := domain.PlayerID(p.GetUserId())
		session := domain.SessionID(p.GetSessionId())

		matchState.Presences[p.GetUserId()] = p
		stale, replaced := matchState.Registry.Connect(session, player)
		if replaced {
			logger.Debug("MatchJoin: Replaced stale session %s for player %s", stale, player)
		}

		if _, exists := matchState.Room.Players[player]; exists {
			// Rejoin of a roster member: announce and resync.
			logger.Info("MatchJoin: Player %s reconnected.", player)
			mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
				Kind:    app.EventPlayerReconnected,
				Payload: app.PlayerConnectionPayload{PlayerID: player},
			})
		} else {
			events, err := matchState.App.JoinRoom(matchState.Room, player, p.GetUsername(), matchState.MaxPlayers)
			if err != nil {
				// JoinAttempt admitted them but the roster changed underneath.
				logger.Warn("MatchJoin: Player %s could not join roster: %v", player, err)
				mh.sendError(matchState, dispatcher, logger, player, app.ErrorCode(err), err.Error())
				continue
			}
			mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
		}

		snapshot := matchState.App.Snapshot(matchState.Room, matchState.Scenario, matchState.Registry.Connected, player)
		mh.broadcastEvent(ctx, matchState, dispatcher, logger, snapshot)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		session := domain.SessionID(p.GetSessionId())
		player, known := matchState.Registry.Disconnect(session)
		if !known {
			continue
		}
		if matchState.Registry.Connected(player) {
			// A newer session already replaced this one; the late close
			// must not count as a disconnect.
			logger.Debug("MatchLeave: Ignoring superseded session %s for player %s", session, player)
			continue
		}

		if cur, exists := matchState.Presences[string(player)]; exists && cur.GetSessionId() == p.GetSessionId() {
			delete(matchState.Presences, string(player))
		}

		switch matchState.Room.Phase {
		case domain.PhaseLobby, domain.PhaseCharacterSelect:
			// Pre-scenario leaves vacate the roster seat.
			events := matchState.App.LeaveRoom(matchState.Room, player)
			mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
		case domain.PhaseInScenario:
			// Mid-scenario the seat is held for reconnection; the grace
			// supervisor in MatchLoop handles their turn if it comes up.
			logger.Info("MatchLeave: Player %s disconnected mid-scenario.", player)
			mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
				Kind:    app.EventPlayerDisconnected,
				Payload: app.PlayerConnectionPayload{PlayerID: player},
			})
		}
	}

	if len(matchState.Room.Players) == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}
	if matchState.Room.Terminal() && len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating finished match with no connections.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		sender, ok := matchState.Registry.Resolve(domain.SessionID(msg.GetSessionId()))
		if !ok {
			logger.Warn("MatchLoop: Message from unregistered session %s", msg.GetSessionId())
			continue
		}

		switch msg.GetOpCode() {
		case OpSelectCharacter:
			mh.handleSelectCharacter(ctx, matchState, dispatcher, logger, sender, msg)
		case OpSelectScenario:
			mh.handleSelectScenario(ctx, matchState, dispatcher, logger, sender, msg)
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, sender)
		case OpSelectCards:
			mh.handleSelectCards(ctx, matchState, dispatcher, logger, sender, msg)
		case OpResolveAction:
			mh.handleResolveAction(ctx, matchState, dispatcher, logger, sender, msg)
		case OpEndTurn:
			mh.handleEndTurn(ctx, matchState, dispatcher, logger, sender)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	// The registry maps must stay mutual inverses; a violation means the
	// room state can no longer be trusted.
	if err := matchState.Registry.CheckInverse(); err != nil {
		logger.Error("MatchLoop: Registry invariant violated, closing room: %v", err)
		events := matchState.App.AbortInternal(matchState.Room, matchState.Scenario)
		mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
		return nil
	}

	mh.superviseGrace(ctx, matchState, dispatcher, logger)
	mh.processMonsters(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleSelectCharacter(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, sender domain.PlayerID, msg runtime.MatchData) {
	var req SelectCharacterRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleSelectCharacter: Invalid request from %s: %v", sender, err)
		return
	}

	events, err := state.App.SelectCharacter(state.Room, sender, domain.ClassID(req.Class))
	if err != nil {
		logger.Warn("handleSelectCharacter: Player %s failed to select %s: %v", sender, req.Class, err)
		mh.sendError(state, dispatcher, logger, sender, app.ErrorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleSelectScenario(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, sender domain.PlayerID, msg runtime.MatchData) {
	var req SelectScenarioRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleSelectScenario: Invalid request from %s: %v", sender, err)
		return
	}

	events, err := state.App.SelectScenario(state.Room, sender, domain.ScenarioID(req.Scenario))
	if err != nil {
		logger.Warn("handleSelectScenario: Player %s failed to select %s: %v", sender, req.Scenario, err)
		mh.sendError(state, dispatcher, logger, sender, app.ErrorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, sender domain.PlayerID) {
	// Only the host's request reaches the roster size check; anyone else
	// gets the service's host validation error.
	if sender == state.Room.HostID && len(state.Room.Players) < state.MinPlayers {
		logger.Warn("handleStartGame: Cannot start with %d players. Need at least %d.", len(state.Room.Players), state.MinPlayers)
		mh.sendError(state, dispatcher, logger, sender, app.CodeConflict, "not enough players")
		return
	}

	sc, events, err := state.App.StartScenario(state.Room, sender)
	if err != nil {
		logger.Warn("handleStartGame: Player %s failed to start: %v", sender, err)
		mh.sendError(state, dispatcher, logger, sender, app.ErrorCode(err), err.Error())
		return
	}

	state.Scenario = sc
	logger.Info("handleStartGame: Scenario %s started with %d players.", sc.Def.ID, len(state.Room.Players))

	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleSelectCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, sender domain.PlayerID, msg runtime.MatchData) {
	var req SelectCardsRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleSelectCards: Invalid request from %s: %v", sender, err)
		return
	}

	events, err := state.App.SubmitCards(state.Room, state.Scenario, sender, domain.CardID(req.Top), domain.CardID(req.Bottom))
	if err != nil {
		logger.Warn("handleSelectCards: Player %s failed to submit cards: %v", sender, err)
		mh.sendError(state, dispatcher, logger, sender, app.ErrorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleResolveAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, sender domain.PlayerID, msg runtime.MatchData) {
	var req ResolveActionRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleResolveAction: Invalid request from %s: %v", sender, err)
		return
	}

	events, err := state.App.ResolveAction(state.Room, state.Scenario, sender, req.toApp())
	if err != nil {
		logger.Warn("handleResolveAction: Player %s failed action %s/%s: %v", sender, req.Card, req.Half, err)
		mh.sendError(state, dispatcher, logger, sender, app.ErrorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleEndTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, sender domain.PlayerID) {
	events, err := state.App.EndTurn(state.Room, state.Scenario, sender)
	if err != nil {
		logger.Warn("handleEndTurn: Player %s failed to end turn: %v", sender, err)
		mh.sendError(state, dispatcher, logger, sender, app.ErrorCode(err), err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// superviseGrace arms a turn-skip deadline while the active character's
// player is disconnected, pauses it on reconnect with the unused portion
// kept for the rest of the turn, and skips the turn when it expires.
func (mh *matchHandler) superviseGrace(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	sc := state.Scenario
	if sc == nil || sc.Terminal() || sc.Round.Phase != domain.RoundResolving {
		mh.clearGrace(state)
		return
	}

	active := sc.Round.Active()
	if active == nil {
		mh.clearGrace(state)
		return
	}

	// The saved remainder only applies within one turn; the round number
	// distinguishes the same actor's turns in consecutive rounds.
	if state.GraceTurn != active.Actor || state.GraceTurnRound != sc.Round.Number {
		mh.clearGrace(state)
		state.GraceTurn = active.Actor
		state.GraceTurnRound = sc.Round.Number
	}

	actor, ok := sc.Actor(active.Actor)
	if !ok || actor.Kind != domain.ActorCharacter {
		return
	}

	if state.Registry.Connected(actor.Owner) {
		if state.GraceDeadline != 0 {
			remaining := state.GraceDeadline - state.Tick
			if remaining < 0 {
				remaining = 0
			}
			state.GraceRemaining[active.Actor] = remaining
			logger.Debug("superviseGrace: Player %s reconnected with %d grace ticks left.", actor.Owner, remaining)
			state.GraceActor, state.GraceDeadline = "", 0
		}
		return
	}

	if state.GraceDeadline == 0 {
		remaining := int64(state.GracePeriod) * tickRate
		if saved, ok := state.GraceRemaining[active.Actor]; ok {
			remaining = saved
		}
		state.GraceActor = active.Actor
		state.GraceDeadline = state.Tick + remaining
		logger.Info("superviseGrace: Player %s disconnected on their turn; skipping at tick %d.", actor.Owner, state.GraceDeadline)
	}

	if state.Tick >= state.GraceDeadline {
		delete(state.GraceRemaining, active.Actor)
		state.GraceActor, state.GraceDeadline = "", 0

		events, err := state.App.SkipTurn(state.Room, sc, active.Actor)
		if err != nil {
			logger.Error("superviseGrace: Failed to skip turn for %s: %v", active.Actor, err)
			return
		}
		logger.Info("superviseGrace: Skipped turn for disconnected player %s.", actor.Owner)
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	}
}

// clearGrace disarms the timer and forgets the tracked turn along with any
// remainder saved for it.
func (mh *matchHandler) clearGrace(state *MatchState) {
	delete(state.GraceRemaining, state.GraceTurn)
	state.GraceTurn, state.GraceTurnRound = "", 0
	state.GraceActor, state.GraceDeadline = "", 0
}

// processMonsters runs the active monster's turn after a short randomized
// delay so clients can follow the action.
func (mh *matchHandler) processMonsters(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	sc := state.Scenario
	if sc == nil || sc.Terminal() || sc.Round.Phase != domain.RoundResolving {
		state.MonsterWaitUntil = 0
		return
	}

	active := sc.Round.Active()
	if active == nil {
		state.MonsterWaitUntil = 0
		return
	}
	actor, ok := sc.Actor(active.Actor)
	if !ok || actor.Kind != domain.ActorMonster {
		state.MonsterWaitUntil = 0
		return
	}

	if state.MonsterWaitUntil == 0 {
		delay := state.MonsterMinDelay
		if spread := state.MonsterMaxDelay - state.MonsterMinDelay; spread > 0 {
			delay += state.App.Rng().Intn(spread + 1)
		}
		state.MonsterWaitUntil = state.Tick + int64(delay)*tickRate
		logger.Debug("processMonsters: Monster %s will act at tick %d (current %d)", active.Actor, state.MonsterWaitUntil, state.Tick)
		return
	}
	if state.Tick < state.MonsterWaitUntil {
		return
	}
	state.MonsterWaitUntil = 0

	agent, exists := state.Agents[active.Actor]
	if !exists {
		agent = npc.NewAgent(active.Actor)
		state.Agents[active.Actor] = agent
	}

	def, ok := state.App.Content().Monster(actor.Monster)
	if !ok {
		logger.Error("processMonsters: No definition for monster %s; skipping turn.", actor.Monster)
		if events, err := state.App.SkipTurn(state.Room, sc, active.Actor); err == nil {
			mh.broadcastEvents(ctx, state, dispatcher, logger, events)
		}
		return
	}

	decision := agent.Decide(sc, def)
	events, err := state.App.MonsterAct(state.Room, sc, active.Actor, decision.MoveTo, decision.Target)
	if err != nil {
		logger.Error("processMonsters: Monster %s failed to act: %v", active.Actor, err)
		if events, err := state.App.SkipTurn(state.Room, sc, active.Actor); err == nil {
			mh.broadcastEvents(ctx, state, dispatcher, logger, events)
		}
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent converts one app event to its wire form and dispatches it.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode := opCodeFor(ev.Kind)
	if opCode == 0 {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	if ev.Kind == app.EventScenarioCompleted {
		mh.onScenarioCompleted(ctx, state, dispatcher, logger, ev)
	}

	// Determine recipients (default to broadcast).
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, pid := range ev.Recipients {
			if p, ok := state.Presences[string(pid)]; ok {
				recipients = append(recipients, p)
			}
		}

		// If every intended recipient is offline, sending to nil would
		// broadcast to everyone instead. Drop the message.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// onScenarioCompleted persists the outcome record and refreshes the label.
func (mh *matchHandler) onScenarioCompleted(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	payload, ok := ev.Payload.(app.ScenarioCompletedPayload)
	if !ok {
		return
	}

	if state.Records != nil {
		record := ports.ScenarioRecord{
			RoomCode:   state.Code,
			ScenarioID: string(payload.ScenarioID),
			Outcome:    payload.Outcome,
			Rounds:     payload.Rounds,
			FinishedAt: time.Now().Unix(),
		}
		for _, p := range state.Room.Roster() {
			result := ports.PlayerResult{
				PlayerID:    string(p.ID),
				DisplayName: p.DisplayName,
				Class:       string(p.Class),
			}
			if stats, ok := payload.Stats[p.ID]; ok && stats != nil {
				result.DamageDealt = stats.DamageDealt
				result.DamageTaken = stats.DamageTaken
				result.Defeats = stats.Defeats
			}
			record.Players = append(record.Players, result)
		}
		if err := state.Records.WriteScenarioRecord(ctx, record); err != nil {
			logger.Error("Failed to write scenario record: %v", err)
		}
	}

	mh.updateLabel(state, dispatcher, logger)
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, player domain.PlayerID, code int, message string) {
	bytes, err := json.Marshal(GameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorEvent: %v", err)
		return
	}

	presence, ok := state.Presences[string(player)]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", player)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	open := state.MaxPlayers - len(state.Room.Players)
	if open < 0 || state.Room.Phase == domain.PhaseInScenario || state.Room.Terminal() {
		open = 0
	}

	labelBytes, err := json.Marshal(matchLabel{
		Code:  state.Code,
		Phase: string(state.Room.Phase),
		Open:  open,
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
