package nakama

import (
	"emberhold/internal/app"
	"emberhold/internal/domain"
)

// Client request payloads. Requests travel as JSON on the match data channel;
// the opcode selects the shape.

type SelectCharacterRequest struct {
	Class string `json:"class"`
}

type SelectScenarioRequest struct {
	Scenario string `json:"scenario"`
}

type SelectCardsRequest struct {
	Top    string `json:"top"`
	Bottom string `json:"bottom"`
}

type PositionRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ResolveActionRequest struct {
	Card    string           `json:"card"`
	Half    string           `json:"half"`
	Targets []string         `json:"targets,omitempty"`
	MoveTo  *PositionRequest `json:"move_to,omitempty"`
}

func (r ResolveActionRequest) toApp() app.ActionRequest {
	req := app.ActionRequest{
		Card: domain.CardID(r.Card),
		Half: r.Half,
	}
	for _, t := range r.Targets {
		req.Targets = append(req.Targets, domain.ActorID(t))
	}
	if r.MoveTo != nil {
		req.MoveTo = &domain.Position{X: r.MoveTo.X, Y: r.MoveTo.Y}
	}
	return req
}

// GameErrorEvent is sent on OpGameError to the failing requester only.
type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// opCodeFor maps an app event kind to its wire opcode. Zero means the kind
// has no client-facing representation.
func opCodeFor(kind app.EventKind) int64 {
	switch kind {
	case app.EventRoomSnapshot:
		return OpRoomSnapshot
	case app.EventPlayerJoined:
		return OpPlayerJoined
	case app.EventPlayerLeft:
		return OpPlayerLeft
	case app.EventHostChanged:
		return OpHostChanged
	case app.EventCharacterSelected:
		return OpCharacterSelected
	case app.EventScenarioSelected:
		return OpScenarioSelected
	case app.EventScenarioStarted:
		return OpScenarioStarted
	case app.EventCardsSubmitted:
		return OpCardsSubmitted
	case app.EventTurnOrder:
		return OpTurnOrder
	case app.EventTurnAdvanced:
		return OpTurnAdvanced
	case app.EventActionResolved:
		return OpActionResolved
	case app.EventModifierReshuffled:
		return OpModifierReshuffled
	case app.EventElementChanged:
		return OpElementChanged
	case app.EventActorDefeated:
		return OpActorDefeated
	case app.EventRoundCompleted:
		return OpRoundCompleted
	case app.EventScenarioCompleted:
		return OpScenarioCompleted
	case app.EventPlayerDisconnected:
		return OpPlayerDisconnected
	case app.EventPlayerReconnected:
		return OpPlayerReconnected
	case app.EventTurnSkipped:
		return OpTurnSkipped
	default:
		return 0
	}
}
