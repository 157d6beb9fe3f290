// game/history.go
package game

import "fmt"

// EventType classifies a history event.
type EventType string

const (
	EventJoin        EventType = "join"
	EventLeave       EventType = "leave"
	EventStart       EventType = "start"
	EventAction      EventType = "action"
	EventBlock       EventType = "block"
	EventChallenge   EventType = "challenge"
	EventReveal      EventType = "reveal"
	EventExchange    EventType = "exchange"
	EventInterrogate EventType = "interrogate"
	EventElimination EventType = "elimination"
	EventGameWon     EventType = "game-won"
)

// HistoryEvent is one entry of the grouped, ordered event stream. GroupID is
// a turn group ("tN", shared by every event of one continuous turn) or an
// ad-hoc group ("aN", one per out-of-band event such as join or leave).
// Private is the only receiving seat, or -1 when the event goes to everyone.
type HistoryEvent struct {
	Type    EventType `json:"type"`
	GroupID string    `json:"groupId"`
	Message string    `json:"message"`
	Private int       `json:"private"`
}

// seatRef formats a seat index placeholder for history messages. Clients
// substitute the seat's display name.
func seatRef(idx int) string {
	return fmt.Sprintf("{%d}", idx)
}

// turnGroupID returns the correlation id of the current turn. The counter
// advances only when a turn fully concludes.
func (g *Game) turnGroupID() string {
	return fmt.Sprintf("t%d", g.turnGroup)
}

// adhocGroupID mints a fresh out-of-band correlation id.
func (g *Game) adhocGroupID() string {
	g.adhocGroup++
	return fmt.Sprintf("a%d", g.adhocGroup)
}

// logEvent appends an event to the log and delivers it to every connected
// seat through its outbound queue.
func (g *Game) logEvent(typ EventType, groupID, message string) {
	g.eventLog = append(g.eventLog, HistoryEvent{Type: typ, GroupID: groupID, Message: message, Private: -1})
	for _, p := range g.players {
		if p.recipient == nil {
			continue
		}
		r := p.recipient
		p.queue.Post(func() {
			r.OnHistoryEvent(message, typ, groupID)
		})
	}
	if g.debug {
		g.log.Debugf("game %s history [%s] %s", g.name, groupID, message)
	}
}

// logPrivateEvent delivers an event to a single seat. Used for interrogate
// confessions, which no other seat may see.
func (g *Game) logPrivateEvent(seat int, typ EventType, groupID, message string) {
	g.eventLog = append(g.eventLog, HistoryEvent{Type: typ, GroupID: groupID, Message: message, Private: seat})
	p := g.players[seat]
	if p.recipient == nil {
		return
	}
	r := p.recipient
	p.queue.Post(func() {
		r.OnHistoryEvent(message, typ, groupID)
	})
}
