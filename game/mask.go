// game/mask.go
package game

// InfluenceView is one influence slot as a viewer sees it.
type InfluenceView struct {
	Role     Role `json:"role"`
	Revealed bool `json:"revealed"`
}

// PlayerView is one seat as a viewer sees it.
type PlayerView struct {
	Name           string          `json:"name"`
	Cash           int             `json:"cash"`
	Influence      []InfluenceView `json:"influence"`
	InfluenceCount int             `json:"influenceCount"`
	Observer       bool            `json:"isObserver"`
	AI             bool            `json:"ai"`
	Connected      bool            `json:"connected"`
}

// StateInfo is the active state variant flattened for the wire. Fields that
// are meaningless for the variant are zero; seat index fields use -1 for
// "none".
type StateInfo struct {
	Name            StateName    `json:"name"`
	PlayerIdx       int          `json:"playerIdx"`
	Action          ActionName   `json:"action,omitempty"`
	Target          int          `json:"target"`
	Blocker         int          `json:"blocker"`
	BlockingRole    Role         `json:"blockingRole,omitempty"`
	Reason          RevealReason `json:"reason,omitempty"`
	PlayerToReveal  int          `json:"playerToReveal"`
	ExchangeOptions []Role       `json:"exchangeOptions,omitempty"`
	Confession      Role         `json:"confession,omitempty"`
	Message         string       `json:"message,omitempty"`
}

// StateView is a redacted, viewer-specific snapshot of the canonical state.
type StateView struct {
	StateID   int          `json:"stateId"`
	GameName  string       `json:"gameName"`
	Roles     []Role       `json:"roles"`
	Players   []PlayerView `json:"players"`
	PlayerIdx int          `json:"playerIdx"` // the viewer's own seat
	State     StateInfo    `json:"state"`
}

// maskState projects the canonical state into the snapshot for one seat.
// Every other seat's unrevealed roles become RoleUnknown; exchange options
// and confessions are cleared unless the viewer is entitled to them.
func (g *Game) maskState(viewer int) *StateView {
	players := make([]PlayerView, len(g.players))
	for i, p := range g.players {
		infl := make([]InfluenceView, len(p.Influence))
		for j, card := range p.Influence {
			role := card.Role
			if !card.Revealed && i != viewer {
				role = RoleUnknown
			}
			infl[j] = InfluenceView{Role: role, Revealed: card.Revealed}
		}
		players[i] = PlayerView{
			Name:           p.Name,
			Cash:           p.Cash,
			Influence:      infl,
			InfluenceCount: p.InfluenceCount(),
			Observer:       p.Observer,
			AI:             p.AI,
			Connected:      p.recipient != nil,
		}
	}
	return &StateView{
		StateID:   g.stateID,
		GameName:  g.name,
		Roles:     append([]Role(nil), g.roles...),
		Players:   players,
		PlayerIdx: viewer,
		State:     g.stateInfo(viewer),
	}
}

func (g *Game) stateInfo(viewer int) StateInfo {
	info := StateInfo{Name: g.state.name(), Target: -1, Blocker: -1, PlayerToReveal: -1}
	switch s := g.state.(type) {
	case *startOfTurn:
		info.PlayerIdx = s.player
	case *actionResponse:
		info.PlayerIdx = s.player
		info.Action = s.action
		info.Target = s.target
		info.Message = s.message
	case *blockResponse:
		info.PlayerIdx = s.player
		info.Action = s.action
		info.Target = s.blocker
		info.Blocker = s.blocker
		info.BlockingRole = s.blockingRole
		info.Message = s.message
	case *finalActionResponse:
		info.PlayerIdx = s.player
		info.Action = s.action
		info.Target = s.target
		info.Message = s.message
	case *revealInfluence:
		info.PlayerIdx = s.player
		info.Action = s.action
		info.Target = s.target
		info.Blocker = s.blocker
		info.BlockingRole = s.blockingRole
		info.Reason = s.reason
		info.PlayerToReveal = s.reveal
	case *exchangeState:
		info.PlayerIdx = s.player
		info.Action = ActionExchange
		if viewer == s.player {
			info.ExchangeOptions = append([]Role(nil), s.options...)
		}
	case *interrogateState:
		info.PlayerIdx = s.player
		info.Action = ActionInterrogate
		info.Target = s.target
		if viewer == s.player {
			info.Confession = s.confession
		}
	case *gameWon:
		info.PlayerIdx = s.player
	}
	return info
}
