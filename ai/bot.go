// ai/bot.go
package ai

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/influence/game"
)

// Bot is an AI-controlled participant. It receives the same handle a human
// would and issues commands synchronously from its own decision logic. It
// never bluffs and never challenges; rejected commands (stale races,
// duplicate allows) are simply dropped.
type Bot struct {
	id   string
	name string
	rng  *rand.Rand

	mu     sync.Mutex
	handle game.Handle
}

var botNames = []string{
	"Niccolo", "Cesare", "Lucrezia", "Rodrigo", "Caterina", "Ludovico",
}

// NewBot creates a bot with a random persona.
func NewBot() *Bot {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Bot{
		id:   uuid.NewString(),
		name: botNames[rng.Intn(len(botNames))] + " (ai)",
		rng:  rng,
	}
}

// Bind hands the bot its seat handle. Called once, on join.
func (b *Bot) Bind(h game.Handle) {
	b.mu.Lock()
	b.handle = h
	b.mu.Unlock()
}

func (b *Bot) PlayerID() string { return b.id }
func (b *Bot) Name() string     { return b.name }
func (b *Bot) AI() bool         { return true }

func (b *Bot) OnHistoryEvent(message string, typ game.EventType, groupID string) {}
func (b *Bot) OnChatMessage(from int, text string)                               {}

// OnStateChange is the bot's whole brain: look at the masked snapshot and
// answer with at most one command.
func (b *Bot) OnStateChange(view *game.StateView) {
	b.mu.Lock()
	h := b.handle
	b.mu.Unlock()
	if h == nil {
		return
	}
	if cmd := b.decide(view); cmd != nil {
		cmd.StateID = view.StateID
		// A RuleError here means another seat acted first; wait for the
		// next snapshot.
		_ = h.Command(cmd)
	}
}

func (b *Bot) decide(view *game.StateView) *game.Command {
	me := view.PlayerIdx
	self := view.Players[me]
	st := view.State

	switch st.Name {
	case game.StateStartOfTurn:
		if st.PlayerIdx != me {
			return nil
		}
		return b.chooseAction(view, self)

	case game.StateActionResponse:
		if st.PlayerIdx == me || self.InfluenceCount == 0 {
			return nil
		}
		return &game.Command{Command: "allow"}

	case game.StateBlockResponse:
		if st.Blocker == me || self.InfluenceCount == 0 {
			return nil
		}
		return &game.Command{Command: "allow"}

	case game.StateFinalActionResponse:
		if st.Target != me {
			return nil
		}
		if st.Action == game.ActionAssassinate && b.holds(self, game.RoleContessa) {
			return &game.Command{Command: "block", BlockingRole: game.RoleContessa}
		}
		return &game.Command{Command: "allow"}

	case game.StateRevealInfluence:
		if st.PlayerToReveal != me {
			return nil
		}
		for _, inf := range self.Influence {
			if !inf.Revealed {
				return &game.Command{Command: "reveal", Role: inf.Role}
			}
		}
		return nil

	case game.StateExchange:
		if st.PlayerIdx != me {
			return nil
		}
		keep := append([]game.Role(nil), st.ExchangeOptions...)
		if len(keep) > self.InfluenceCount {
			keep = keep[:self.InfluenceCount]
		}
		return &game.Command{Command: "exchange", Roles: keep}

	case game.StateInterrogate:
		if st.PlayerIdx != me {
			return nil
		}
		return &game.Command{Command: "interrogate", ForceExchange: b.rng.Intn(2) == 0}
	}
	return nil
}

// chooseAction plays honestly: coup when rich, otherwise the best action a
// held role allows, falling back to income.
func (b *Bot) chooseAction(view *game.StateView, self game.PlayerView) *game.Command {
	target := b.pickTarget(view)
	if self.Cash >= 7 && target >= 0 {
		return &game.Command{Command: "play-action", Action: game.ActionCoup, Target: target}
	}
	if self.Cash >= 3 && b.holds(self, game.RoleAssassin) && target >= 0 {
		return &game.Command{Command: "play-action", Action: game.ActionAssassinate, Target: target}
	}
	if b.holds(self, game.RoleDuke) {
		return &game.Command{Command: "play-action", Action: game.ActionTax}
	}
	if b.holds(self, game.RoleCaptain) && target >= 0 && view.Players[target].Cash > 0 {
		return &game.Command{Command: "play-action", Action: game.ActionSteal, Target: target}
	}
	return &game.Command{Command: "play-action", Action: game.ActionIncome}
}

// pickTarget returns the living opponent with the most cash, or -1.
func (b *Bot) pickTarget(view *game.StateView) int {
	best := -1
	for i, p := range view.Players {
		if i == view.PlayerIdx || p.Observer || p.InfluenceCount == 0 {
			continue
		}
		if best < 0 || p.Cash > view.Players[best].Cash {
			best = i
		}
	}
	return best
}

func (b *Bot) holds(self game.PlayerView, role game.Role) bool {
	for _, inf := range self.Influence {
		if !inf.Revealed && inf.Role == role {
			return true
		}
	}
	return false
}
