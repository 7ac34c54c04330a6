package app

import (
	"errors"
	"math/rand"
	"time"

	"emberhold/internal/domain"

	"github.com/google/uuid"
)

// Service contains the engine use-cases operating on room and scenario
// state. All methods are called from the room's single writer; the service
// holds no locks and no per-room state of its own.
type Service struct {
	rng     *rand.Rand
	content *domain.Content

	// ElementConsumeBlocks switches the failed-element-consumption policy
	// from degrade-to-base-effect to rejecting the action for a retry.
	ElementConsumeBlocks bool

	// newActorID generates monster instance ids; injectable for tests.
	newActorID func() string
}

// NewService constructs a Service with the provided room-scoped rng and
// content tables. A nil rng gets a time-seeded default and nil content the
// built-in sample pack.
func NewService(rng *rand.Rand, content *domain.Content) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if content == nil {
		content = domain.SampleContent()
	}
	return &Service{
		rng:        rng,
		content:    content,
		newActorID: uuid.NewString,
	}
}

// Content exposes the immutable content tables.
func (s *Service) Content() *domain.Content {
	return s.content
}

// Rng exposes the room-scoped random source for collaborators that need the
// same reproducible stream (NPC agents).
func (s *Service) Rng() *rand.Rand {
	return s.rng
}

// JoinRoom adds a player to the roster, or refreshes a returning member.
// New joins are only accepted before the scenario starts.
func (s *Service) JoinRoom(room *domain.Room, player domain.PlayerID, displayName string, maxPlayers int) ([]Event, error) {
	if room.Terminal() {
		return nil, ErrTerminalState
	}
	if _, known := room.Players[player]; known {
		// Rejoin keeps roster state; the caller delivers a fresh snapshot.
		return nil, nil
	}
	if room.Phase != domain.PhaseLobby && room.Phase != domain.PhaseCharacterSelect {
		return nil, ErrInvalidPhase
	}
	if maxPlayers > 0 && len(room.Players) >= maxPlayers {
		return nil, ErrRoomFull
	}
	p := room.AddPlayer(player, displayName)
	return []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Host:        room.HostID == p.ID,
		},
	}}, nil
}

// LeaveRoom removes a player from the roster while the room is still in its
// pre-scenario phases. Mid-scenario departures keep the roster entry; the
// disconnect supervisor owns that case.
func (s *Service) LeaveRoom(room *domain.Room, player domain.PlayerID) []Event {
	if room.Phase != domain.PhaseLobby && room.Phase != domain.PhaseCharacterSelect {
		return nil
	}
	if _, ok := room.Players[player]; !ok {
		return nil
	}
	oldHost := room.HostID
	newHost, changed := room.RemovePlayer(player)
	events := []Event{{Kind: EventPlayerLeft, Payload: PlayerLeftPayload{PlayerID: player}}}
	if changed && newHost != oldHost {
		events = append(events, Event{Kind: EventHostChanged, Payload: HostChangedPayload{HostID: newHost}})
	}
	return events
}

// SelectCharacter claims a character class for a player. The first
// successful selection moves the room from lobby to character_select.
func (s *Service) SelectCharacter(room *domain.Room, player domain.PlayerID, class domain.ClassID) ([]Event, error) {
	if room.Terminal() {
		return nil, ErrTerminalState
	}
	if room.Phase != domain.PhaseLobby && room.Phase != domain.PhaseCharacterSelect {
		return nil, ErrInvalidPhase
	}
	p, ok := room.Players[player]
	if !ok {
		return nil, ErrNotFound
	}
	if _, ok := s.content.Class(class); !ok {
		return nil, ErrNotFound
	}
	if p.Class != class && room.ClassTaken(class) {
		return nil, ErrAlreadyTaken
	}
	p.Class = class
	room.Phase = domain.PhaseCharacterSelect
	return []Event{{
		Kind:    EventCharacterSelected,
		Payload: CharacterSelectedPayload{PlayerID: player, Class: class},
	}}, nil
}

// SelectScenario records the host's scenario choice.
func (s *Service) SelectScenario(room *domain.Room, player domain.PlayerID, scenario domain.ScenarioID) ([]Event, error) {
	if room.Terminal() {
		return nil, ErrTerminalState
	}
	if room.Phase != domain.PhaseLobby && room.Phase != domain.PhaseCharacterSelect {
		return nil, ErrInvalidPhase
	}
	if player != room.HostID {
		return nil, ErrNotHost
	}
	if _, ok := s.content.Scenario(scenario); !ok {
		return nil, ErrNotFound
	}
	room.ScenarioID = scenario
	return []Event{{
		Kind:    EventScenarioSelected,
		Payload: ScenarioSelectedPayload{ScenarioID: scenario},
	}}, nil
}

// StartScenario transitions character_select -> in_scenario: spawns the
// character and monster actors and opens round one for card selection.
func (s *Service) StartScenario(room *domain.Room, player domain.PlayerID) (*domain.ScenarioState, []Event, error) {
	if room.Terminal() {
		return nil, nil, ErrTerminalState
	}
	if room.Phase != domain.PhaseCharacterSelect {
		return nil, nil, ErrInvalidPhase
	}
	if player != room.HostID {
		return nil, nil, ErrNotHost
	}
	if !room.AllSelected() {
		return nil, nil, ErrNotAllSelected
	}
	def, ok := s.content.Scenario(room.ScenarioID)
	if !ok {
		return nil, nil, ErrNotFound
	}

	sc := domain.NewScenarioState(def, s.rng)
	for i, p := range room.Roster() {
		class, ok := s.content.Class(p.Class)
		if !ok {
			return nil, nil, ErrNotFound
		}
		pos := domain.Position{}
		if i < len(def.StartPositions) {
			pos = def.StartPositions[i]
		}
		sc.AddCharacter(domain.ActorID("char:"+string(p.ID)), p.ID, class, pos)
	}
	for _, placement := range def.Monsters {
		mdef, ok := s.content.Monster(placement.Monster)
		if !ok {
			return nil, nil, ErrNotFound
		}
		sc.AddMonster(domain.ActorID("mon:"+s.newActorID()), mdef, placement.Position)
	}
	sc.Tracker = domain.NewObjectiveTracker(def, len(def.Monsters), len(room.Players))
	room.Phase = domain.PhaseInScenario

	return sc, []Event{{
		Kind: EventScenarioStarted,
		Payload: ScenarioStartedPayload{
			ScenarioID: def.ID,
			Name:       def.Name,
			Round:      sc.Round.Number,
			Actors:     actorViews(sc),
		},
	}}, nil
}

// SubmitCards records a player's two-card selection for the round. Once all
// living characters have submitted, monster initiatives are drawn, the turn
// order is frozen and the first entry becomes active.
func (s *Service) SubmitCards(room *domain.Room, sc *domain.ScenarioState, player domain.PlayerID, top, bottom domain.CardID) ([]Event, error) {
	if err := s.guardInScenario(room, sc); err != nil {
		return nil, err
	}
	actor, ok := sc.CharacterOf(player)
	if !ok || !actor.Alive() {
		return nil, ErrNotFound
	}
	if top == bottom {
		return nil, ErrUnknownCard
	}
	class, _ := s.content.Class(actor.Class)
	topCard, ok1 := s.content.Card(top)
	bottomCard, ok2 := s.content.Card(bottom)
	if !ok1 || !ok2 || !inHand(class, top) || !inHand(class, bottom) {
		return nil, ErrUnknownCard
	}

	initiative := domain.CharacterInitiative(topCard, bottomCard)
	if err := sc.Round.Submit(actor.ID, top, bottom, initiative); err != nil {
		return nil, mapRoundErr(err)
	}

	events := []Event{{
		Kind:    EventCardsSubmitted,
		Payload: CardsSubmittedPayload{PlayerID: player, ActorID: actor.ID},
	}}

	if !sc.AllCharactersSubmitted() {
		return events, nil
	}
	ordered, err := s.orderRound(sc)
	if err != nil {
		return nil, err
	}
	return append(events, ordered...), nil
}

// orderRound submits monster initiatives, freezes the order and activates
// the first entry.
func (s *Service) orderRound(sc *domain.ScenarioState) ([]Event, error) {
	for _, m := range sc.LivingMonsters() {
		def, ok := s.content.Monster(m.Monster)
		if !ok {
			continue
		}
		if err := sc.Round.Submit(m.ID, "", "", domain.MonsterInitiative(def, sc.Round.Number)); err != nil {
			return nil, mapRoundErr(err)
		}
	}
	if err := sc.Round.Order(sc.JoinOrder()); err != nil {
		return nil, mapRoundErr(err)
	}

	entries := make([]TurnOrderEntry, len(sc.Round.Entries))
	for i, e := range sc.Round.Entries {
		entries[i] = TurnOrderEntry{ActorID: e.Actor, Initiative: e.Initiative, Status: e.Status}
	}
	events := []Event{{
		Kind:    EventTurnOrder,
		Payload: TurnOrderPayload{Round: sc.Round.Number, Entries: entries},
	}}
	if active := sc.Round.Active(); active != nil {
		events = append(events, s.turnAdvancedEvent(sc, active))
	}
	return events, nil
}

// ActionRequest is a validated-by-content action submission: one half of
// one of the two cards selected this round, with its targets.
type ActionRequest struct {
	Card    domain.CardID
	Half    string // "top" or "bottom"
	Targets []domain.ActorID
	MoveTo  *domain.Position
}

// ResolveAction applies the acting character's action: attack with a
// modifier draw, movement, healing and element generation/consumption. The
// turn entry is marked done and the scheduler advances.
func (s *Service) ResolveAction(room *domain.Room, sc *domain.ScenarioState, player domain.PlayerID, req ActionRequest) ([]Event, error) {
	if err := s.guardInScenario(room, sc); err != nil {
		return nil, err
	}
	actor, ok := sc.CharacterOf(player)
	if !ok || !actor.Alive() {
		return nil, ErrNotFound
	}
	if !sc.Round.IsActive(actor.ID) {
		return nil, ErrNotYourTurn
	}
	entry := sc.Round.Active()
	if req.Card != entry.TopCard && req.Card != entry.BottomCard {
		return nil, ErrUnknownCard
	}
	card, ok := s.content.Card(req.Card)
	if !ok {
		return nil, ErrUnknownCard
	}
	spec := card.Top
	if req.Half == "bottom" {
		spec = card.Bottom
	} else if req.Half != "top" {
		return nil, ErrUnknownCard
	}

	events, err := s.resolveSpec(sc, actor, spec, req.Card, req.Half, req.Targets, req.MoveTo)
	if err != nil {
		return nil, err
	}
	if sc.Terminal() {
		// A defeat event already ended the scenario; the room is closed out
		// by the caller via the scenario_completed event below.
		done := s.completeScenario(room, sc)
		return append(events, done...), nil
	}
	advanced, err := s.finishTurn(room, sc, domain.TurnDone)
	if err != nil {
		return nil, err
	}
	return append(events, advanced...), nil
}

// resolveSpec executes one action spec for any actor kind. Validation runs
// before any state mutation so a rejected action leaves the board, decks and
// actors untouched.
func (s *Service) resolveSpec(sc *domain.ScenarioState, actor *domain.Actor, spec domain.ActionSpec, cardID domain.CardID, half string, targets []domain.ActorID, moveTo *domain.Position) ([]Event, error) {
	var events []Event
	result := ActionResolvedPayload{
		ActorID: actor.ID,
		CardID:  cardID,
		Half:    half,
		Type:    spec.Type,
	}

	// Validation phase: no mutation yet.
	var attackTargets, healTargets []*domain.Actor
	var err error
	switch spec.Type {
	case domain.ActionAttack:
		attackTargets, err = s.validateAttackTargets(sc, actor, spec, targets)
	case domain.ActionMove:
		if moveTo == nil {
			err = ErrInvalidTarget
		} else if !actor.HasCondition(domain.ConditionImmobilize) &&
			domain.Distance(actor.Position, *moveTo) > spec.Value {
			err = ErrOutOfRange
		}
	case domain.ActionHeal:
		if len(targets) == 0 {
			targets = []domain.ActorID{actor.ID} // self-heal default
		}
		healTargets, err = s.validateHealTargets(sc, actor, spec, targets)
	case domain.ActionNone:
		// Initiative carrier; only element generation below.
	default:
		err = ErrInvalidTarget
	}
	if err != nil {
		return nil, err
	}

	value := spec.Value

	// Optional element enhancement. A board that cannot pay degrades the
	// action to its base effect unless the blocking policy is on.
	if spec.Consumes != "" {
		switch err := sc.Board.Consume(spec.Consumes); {
		case err == nil:
			value += spec.ConsumeBonus
			events = append(events, elementEvent(sc, spec.Consumes))
		case errors.Is(err, domain.ErrNotStrong):
			if s.ElementConsumeBlocks {
				return nil, ErrElementNotStrong
			}
			result.Degraded = true
		default:
			return nil, ErrInvalidTarget
		}
	}

	switch spec.Type {
	case domain.ActionAttack:
		events = append(events, s.executeAttack(sc, actor, spec, value, attackTargets, &result)...)

	case domain.ActionMove:
		if actor.HasCondition(domain.ConditionImmobilize) {
			// Immobilized movement resolves to standing still.
			result.MovedTo = nil
		} else {
			actor.Position = *moveTo
			result.MovedTo = moveTo
		}

	case domain.ActionHeal:
		for _, t := range healTargets {
			healed := t.Heal(value)
			result.Targets = append(result.Targets, TargetResult{ActorID: t.ID, Healed: healed, Health: t.Health})
		}
	}

	for _, e := range spec.Generates {
		if err := sc.Board.Generate(e); err != nil {
			return nil, ErrInvalidTarget
		}
		events = append(events, elementEvent(sc, e))
	}

	return append([]Event{{Kind: EventActionResolved, Payload: result}}, events...), nil
}

// validateAttackTargets performs the engine's generic target checks: target
// exists, is alive, is on the opposing side and within the declared range.
func (s *Service) validateAttackTargets(sc *domain.ScenarioState, actor *domain.Actor, spec domain.ActionSpec, targets []domain.ActorID) ([]*domain.Actor, error) {
	if len(targets) == 0 {
		return nil, ErrInvalidTarget
	}
	maxTargets := spec.Targets
	if maxTargets <= 0 {
		maxTargets = 1
	}
	if len(targets) > maxTargets {
		return nil, ErrInvalidTarget
	}
	reach := spec.Range
	if reach <= 0 {
		reach = 1
	}
	resolved := make([]*domain.Actor, 0, len(targets))
	for _, id := range targets {
		t, ok := sc.Actor(id)
		if !ok || !t.Alive() || t.Kind == actor.Kind {
			return nil, ErrInvalidTarget
		}
		if domain.Distance(actor.Position, t.Position) > reach {
			return nil, ErrOutOfRange
		}
		resolved = append(resolved, t)
	}
	return resolved, nil
}

func (s *Service) validateHealTargets(sc *domain.ScenarioState, actor *domain.Actor, spec domain.ActionSpec, targets []domain.ActorID) ([]*domain.Actor, error) {
	resolved := make([]*domain.Actor, 0, len(targets))
	for _, id := range targets {
		t, ok := sc.Actor(id)
		if !ok || !t.Alive() || t.Kind != actor.Kind {
			return nil, ErrInvalidTarget
		}
		if domain.Distance(actor.Position, t.Position) > spec.Range {
			return nil, ErrOutOfRange
		}
		resolved = append(resolved, t)
	}
	return resolved, nil
}

// executeAttack draws one modifier and applies the resulting damage to each
// validated target.
func (s *Service) executeAttack(sc *domain.ScenarioState, actor *domain.Actor, spec domain.ActionSpec, value int, resolved []*domain.Actor, result *ActionResolvedPayload) []Event {
	// One draw applies to every target of the action.
	mod, reshuffled := sc.DeckFor(actor.ID).Draw()
	result.Modifier = &mod

	if actor.HasCondition(domain.ConditionStrengthen) {
		value++
	}
	damage := domain.ResolveDamage(value, mod)

	var events []Event
	for _, t := range resolved {
		dealt, defeated := t.ApplyDamage(damage)
		tr := TargetResult{ActorID: t.ID, Damage: dealt, Health: t.Health, Defeated: defeated}
		if damage > 0 {
			for _, inflict := range spec.Inflicts {
				t.AddCondition(inflict.Condition, inflict.Duration)
				tr.Inflicted = append(tr.Inflicted, inflict.Condition)
			}
		}
		result.Targets = append(result.Targets, tr)
		s.accountDamage(sc, actor, t, dealt)
		if defeated {
			events = append(events, s.recordDefeat(sc, t, actor.ID)...)
		}
	}

	if reshuffled {
		events = append(events, Event{
			Kind: EventModifierReshuffled,
			Payload: ModifierReshuffledPayload{
				ActorID:     actor.ID,
				MonsterDeck: actor.Kind == domain.ActorMonster,
			},
		})
	}
	return events
}

// accountDamage updates the per-player statistics for a damage application.
func (s *Service) accountDamage(sc *domain.ScenarioState, attacker, target *domain.Actor, dealt int) {
	if dealt == 0 {
		return
	}
	if attacker.Kind == domain.ActorCharacter {
		sc.StatsFor(attacker.Owner).DamageDealt += dealt
	}
	if target.Kind == domain.ActorCharacter {
		sc.StatsFor(target.Owner).DamageTaken += dealt
	}
}

// recordDefeat feeds the objective tracker and evaluates immediately so a
// "defeat all enemies" victory is declared in the same resolution, not at
// the round boundary.
func (s *Service) recordDefeat(sc *domain.ScenarioState, target *domain.Actor, by domain.ActorID) []Event {
	events := []Event{{
		Kind:    EventActorDefeated,
		Payload: ActorDefeatedPayload{ActorID: target.ID, Kind: target.Kind, ByActor: by},
	}}
	switch target.Kind {
	case domain.ActorMonster:
		sc.Tracker.RecordEnemyDefeated()
		if a, ok := sc.Actor(by); ok && a.Kind == domain.ActorCharacter {
			sc.StatsFor(a.Owner).Defeats++
		}
	case domain.ActorCharacter:
		sc.Tracker.RecordCharacterDefeated()
	}
	if outcome := sc.Tracker.Evaluate(); outcome != domain.OutcomeNone {
		sc.Outcome = outcome
	}
	return events
}

// EndTurn closes the acting character's turn without an action.
func (s *Service) EndTurn(room *domain.Room, sc *domain.ScenarioState, player domain.PlayerID) ([]Event, error) {
	if err := s.guardInScenario(room, sc); err != nil {
		return nil, err
	}
	actor, ok := sc.CharacterOf(player)
	if !ok {
		return nil, ErrNotFound
	}
	if !sc.Round.IsActive(actor.ID) {
		return nil, ErrNotYourTurn
	}
	return s.finishTurn(room, sc, domain.TurnDone)
}

// SkipTurn force-ends the active entry on behalf of a disconnected player.
// It travels the exact same transition path as a manual end-turn; the
// single-active-entry invariant makes it lose cleanly against a manual
// action that resolved first.
func (s *Service) SkipTurn(room *domain.Room, sc *domain.ScenarioState, actorID domain.ActorID) ([]Event, error) {
	if err := s.guardInScenario(room, sc); err != nil {
		return nil, err
	}
	if !sc.Round.IsActive(actorID) {
		return nil, ErrNotYourTurn
	}
	actor, _ := sc.Actor(actorID)
	events := []Event{{
		Kind:    EventTurnSkipped,
		Payload: TurnSkippedPayload{PlayerID: actor.Owner, ActorID: actorID},
	}}
	advanced, err := s.finishTurn(room, sc, domain.TurnSkipped)
	if err != nil {
		return nil, err
	}
	return append(events, advanced...), nil
}

// MonsterAct executes a scripted monster turn: optional movement then an
// attack against the chosen target if it is in range.
func (s *Service) MonsterAct(room *domain.Room, sc *domain.ScenarioState, actorID domain.ActorID, moveTo *domain.Position, target domain.ActorID) ([]Event, error) {
	if err := s.guardInScenario(room, sc); err != nil {
		return nil, err
	}
	if !sc.Round.IsActive(actorID) {
		return nil, ErrNotYourTurn
	}
	actor, ok := sc.Actor(actorID)
	if !ok || actor.Kind != domain.ActorMonster {
		return nil, ErrNotFound
	}
	def, ok := s.content.Monster(actor.Monster)
	if !ok {
		return nil, ErrNotFound
	}

	var events []Event
	if moveTo != nil && !actor.HasCondition(domain.ConditionImmobilize) &&
		domain.Distance(actor.Position, *moveTo) <= def.MoveSpeed {
		actor.Position = *moveTo
		events = append(events, Event{
			Kind: EventActionResolved,
			Payload: ActionResolvedPayload{
				ActorID: actorID,
				Type:    domain.ActionMove,
				MovedTo: moveTo,
			},
		})
	}

	if target != "" {
		spec := domain.ActionSpec{Type: domain.ActionAttack, Value: def.Attack, Range: def.Range}
		attack, err := s.resolveSpec(sc, actor, spec, "", "", []domain.ActorID{target}, nil)
		if err == nil {
			events = append(events, attack...)
		} else if !errors.Is(err, ErrOutOfRange) && !errors.Is(err, ErrInvalidTarget) {
			return nil, err
		}
		// An unreachable target simply wastes the monster's attack.
	}

	if sc.Terminal() {
		return append(events, s.completeScenario(room, sc)...), nil
	}
	advanced, err := s.finishTurn(room, sc, domain.TurnDone)
	if err != nil {
		return nil, err
	}
	return append(events, advanced...), nil
}

// finishTurn closes the active entry and advances the scheduler. Reaching
// the end of the sequence runs the round boundary: wound ticks, condition
// decay, element decay, objective evaluation and either the next round or
// scenario completion.
func (s *Service) finishTurn(room *domain.Room, sc *domain.ScenarioState, status domain.TurnStatus) ([]Event, error) {
	next, complete, err := sc.Round.Finish(status, sc.AliveFn())
	if err != nil {
		return nil, mapRoundErr(err)
	}
	if !complete {
		return []Event{s.turnAdvancedEvent(sc, next)}, nil
	}
	return s.roundBoundary(room, sc), nil
}

// roundBoundary applies end-of-round effects in a fixed order.
func (s *Service) roundBoundary(room *domain.Room, sc *domain.ScenarioState) []Event {
	var events []Event

	// Wound damage ticks before condition durations decrement.
	for _, a := range sc.Actors {
		if !a.Alive() || !a.HasCondition(domain.ConditionWound) {
			continue
		}
		if _, defeated := a.ApplyDamage(1); defeated {
			events = append(events, s.recordDefeat(sc, a, "")...)
		}
	}
	for _, a := range sc.Actors {
		if a.Alive() {
			a.TickConditions()
		}
	}

	sc.Board.DecayRound()
	sc.Tracker.RecordRoundPlayed()
	if sc.Outcome == domain.OutcomeNone {
		if outcome := sc.Tracker.Evaluate(); outcome != domain.OutcomeNone {
			sc.Outcome = outcome
		}
	}

	finished := sc.Round.Number
	payload := RoundCompletedPayload{Round: finished, Elements: sc.Board.States()}
	if sc.Terminal() {
		events = append(events, Event{Kind: EventRoundCompleted, Payload: payload})
		return append(events, s.completeScenario(room, sc)...)
	}

	sc.Round = domain.NewRound(finished + 1)
	payload.NextRound = sc.Round.Number
	return append(events, Event{Kind: EventRoundCompleted, Payload: payload})
}

// completeScenario flips the room to its terminal phase and emits the
// completion report. Idempotent against double invocation.
func (s *Service) completeScenario(room *domain.Room, sc *domain.ScenarioState) []Event {
	if room.Phase == domain.PhaseCompleted {
		return nil
	}
	room.Phase = domain.PhaseCompleted
	return []Event{{
		Kind: EventScenarioCompleted,
		Payload: ScenarioCompletedPayload{
			ScenarioID: sc.Def.ID,
			Outcome:    sc.Outcome,
			Rounds:     sc.Tracker.RoundsPlayed(),
			Stats:      sc.Stats,
		},
	}}
}

// AbortInternal closes a room after a detected invariant violation rather
// than letting it continue on possibly corrupted state.
func (s *Service) AbortInternal(room *domain.Room, sc *domain.ScenarioState) []Event {
	if room.Phase == domain.PhaseCompleted {
		return nil
	}
	room.Phase = domain.PhaseCompleted
	payload := ScenarioCompletedPayload{Outcome: domain.OutcomeInternalError}
	if sc != nil {
		sc.Outcome = domain.OutcomeInternalError
		payload.ScenarioID = sc.Def.ID
		payload.Rounds = sc.Tracker.RoundsPlayed()
		payload.Stats = sc.Stats
	}
	return []Event{{Kind: EventScenarioCompleted, Payload: payload}}
}

func (s *Service) guardInScenario(room *domain.Room, sc *domain.ScenarioState) error {
	if room.Terminal() {
		return ErrTerminalState
	}
	if room.Phase != domain.PhaseInScenario || sc == nil {
		return ErrInvalidPhase
	}
	return nil
}

func (s *Service) turnAdvancedEvent(sc *domain.ScenarioState, entry *domain.TurnEntry) Event {
	payload := TurnAdvancedPayload{Round: sc.Round.Number, ActiveActorID: entry.Actor}
	if a, ok := sc.Actor(entry.Actor); ok {
		payload.PlayerID = a.Owner
	}
	return Event{Kind: EventTurnAdvanced, Payload: payload}
}

func elementEvent(sc *domain.ScenarioState, e domain.Element) Event {
	state, _ := sc.Board.State(e)
	return Event{Kind: EventElementChanged, Payload: ElementChangedPayload{Element: e, State: state}}
}

func inHand(class domain.ClassDef, card domain.CardID) bool {
	for _, c := range class.Cards {
		if c == card {
			return true
		}
	}
	return false
}

func mapRoundErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return ErrAlreadySubmitted
	case errors.Is(err, domain.ErrNotYourTurn):
		return ErrNotYourTurn
	case errors.Is(err, domain.ErrRoundPhase):
		return ErrInvalidPhase
	default:
		return err
	}
}

func actorViews(sc *domain.ScenarioState) []ActorView {
	ids := make([]domain.ActorID, 0, len(sc.Actors))
	for id := range sc.Actors {
		ids = append(ids, id)
	}
	// Deterministic order by join order.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && sc.JoinOrder()[ids[j-1]] > sc.JoinOrder()[ids[j]]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	views := make([]ActorView, 0, len(ids))
	for _, id := range ids {
		views = append(views, actorView(sc.Actors[id]))
	}
	return views
}

func actorView(a *domain.Actor) ActorView {
	return ActorView{
		ID:         a.ID,
		Kind:       a.Kind,
		Owner:      a.Owner,
		Class:      a.Class,
		Monster:    a.Monster,
		Name:       a.Name,
		Health:     a.Health,
		MaxHealth:  a.MaxHealth,
		Position:   a.Position,
		Conditions: a.Conditions,
		Defeated:   a.Defeated,
	}
}
