// game/state.go
package game

// StateName identifies a state variant in masked snapshots and logs.
type StateName string

const (
	StateWaitingForPlayers   StateName = "waiting-for-players"
	StateStartOfTurn         StateName = "start-of-turn"
	StateActionResponse      StateName = "action-response"
	StateBlockResponse       StateName = "block-response"
	StateFinalActionResponse StateName = "final-action-response"
	StateRevealInfluence     StateName = "reveal-influence"
	StateExchange            StateName = "exchange"
	StateInterrogate         StateName = "interrogate"
	StateGameWon             StateName = "game-won"
	StateDestroyed           StateName = "destroyed"
)

// RevealReason says why a seat must turn an influence face-up.
type RevealReason string

const (
	ReasonIncorrectChallenge  RevealReason = "incorrect-challenge"
	ReasonSuccessfulChallenge RevealReason = "successful-challenge"
	ReasonDeath               RevealReason = "death"
)

// gameState is the engine's state sum type. Exactly one variant is active at
// a time and each variant carries only the fields meaningful for it.
type gameState interface {
	name() StateName
}

type waitingForPlayers struct{}

func (waitingForPlayers) name() StateName { return StateWaitingForPlayers }

type startOfTurn struct {
	player int
}

func (startOfTurn) name() StateName { return StateStartOfTurn }

// actionResponse waits for every other living seat to challenge, block or
// allow a pending action. target is -1 for untargeted actions.
type actionResponse struct {
	player  int
	action  ActionName
	target  int
	message string
	allowed map[int]bool
}

func (actionResponse) name() StateName { return StateActionResponse }

// blockResponse waits for every living seat except the blocker to challenge
// or allow a claimed block.
type blockResponse struct {
	player       int // original actor
	action       ActionName
	target       int // the action's target, -1 if none
	blocker      int
	blockingRole Role
	message      string
	allowed      map[int]bool
}

func (blockResponse) name() StateName { return StateBlockResponse }

// finalActionResponse is the one last block window granted to the original
// target after a failed challenge on a blockable action. Only the target may
// act.
type finalActionResponse struct {
	player  int
	action  ActionName
	target  int
	message string
}

func (finalActionResponse) name() StateName { return StateFinalActionResponse }

// revealInfluence waits for one designated seat to choose which influence to
// turn face-up. blocker is -1 when the dispute was over the action itself.
type revealInfluence struct {
	player       int // turn holder
	action       ActionName
	target       int
	blocker      int
	blockingRole Role
	reason       RevealReason
	reveal       int // seat that must reveal
}

func (revealInfluence) name() StateName { return StateRevealInfluence }

// exchangeState waits for the actor to pick which roles to keep. drawn are
// the cards lifted from the deck for the offer; options is drawn plus the
// actor's current unrevealed roles.
type exchangeState struct {
	player  int
	drawn   []Role
	options []Role
}

func (exchangeState) name() StateName { return StateExchange }

// interrogateState waits for the interrogator to force a swap or decline.
// slot is the index of the confessed card in the target's hand.
type interrogateState struct {
	player     int
	target     int
	confession Role
	slot       int
}

func (interrogateState) name() StateName { return StateInterrogate }

type gameWon struct {
	player int
}

func (gameWon) name() StateName { return StateGameWon }

type destroyed struct{}

func (destroyed) name() StateName { return StateDestroyed }
