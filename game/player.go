// game/player.go
package game

import (
	"github.com/wfunc/influence/broadcast"
)

// Influence is one hidden role slot. Once revealed it stays revealed for the
// rest of the match.
type Influence struct {
	Role     Role
	Revealed bool
}

// Player is one seat. A disconnected non-eliminated seat keeps its position
// with a nil recipient so seat indices never shift mid-game. Observers carry
// no cash and no influence.
type Player struct {
	Name      string
	PlayerID  string
	Cash      int
	Influence []Influence
	Observer  bool
	AI        bool

	recipient Recipient
	queue     *broadcast.Queue
}

// InfluenceCount returns the number of unrevealed slots. Zero means the seat
// is eliminated.
func (p *Player) InfluenceCount() int {
	n := 0
	for _, inf := range p.Influence {
		if !inf.Revealed {
			n++
		}
	}
	return n
}

// Alive reports whether the seat still holds hidden influence.
func (p *Player) Alive() bool {
	return p.InfluenceCount() > 0
}

// Connected reports whether a collaborator is attached to the seat.
func (p *Player) Connected() bool {
	return p.recipient != nil
}

// unrevealedSlot returns the index of an unrevealed slot holding role, or -1.
func (p *Player) unrevealedSlot(role Role) int {
	for i, inf := range p.Influence {
		if !inf.Revealed && inf.Role == role {
			return i
		}
	}
	return -1
}

// unrevealedRoles returns the roles still hidden in the seat's hand.
func (p *Player) unrevealedRoles() []Role {
	var roles []Role
	for _, inf := range p.Influence {
		if !inf.Revealed {
			roles = append(roles, inf.Role)
		}
	}
	return roles
}
