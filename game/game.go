// game/game.go
package game

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wfunc/influence/broadcast"
	"github.com/wfunc/influence/models"
)

// MaxPlayers is the seat limit; later joiners become observers.
const MaxPlayers = 6

// MinPlayers is the number of non-observer seats required to start.
const MinPlayers = 2

// RandomFirstPlayer selects the opening seat uniformly at random.
const RandomFirstPlayer = -1

// Recipient is the collaborator contract for a connected participant. The
// engine never calls a recipient from inside a mutation; deliveries go
// through the seat's outbound queue.
type Recipient interface {
	OnStateChange(view *StateView)
	OnHistoryEvent(message string, typ EventType, groupID string)
	OnChatMessage(from int, text string)
	PlayerID() string
	Name() string
	AI() bool
}

// AIDriver is a recipient that plays the game itself. Bind hands it the
// seat handle it issues commands through.
type AIDriver interface {
	Recipient
	Bind(h Handle)
}

// Handle is returned on join and is the seat's only way into the engine.
type Handle interface {
	Command(cmd *Command) error
	Leave(rejoined bool)
	SendChatMessage(text string)
	GameName() string
}

// Recorder receives finished-game summaries and disconnect statistics.
type Recorder interface {
	RecordGame(summary *models.GameSummary)
	RecordDisconnect(playerName string)
}

// Command is the payload of one attempted move. StateID must match the
// engine's current broadcast id or the command is rejected unexamined.
type Command struct {
	StateID       int        `json:"stateId"`
	Command       string     `json:"command"`
	Action        ActionName `json:"action,omitempty"`
	Target        int        `json:"target,omitempty"`
	Role          Role       `json:"role,omitempty"`
	BlockingRole  Role       `json:"blockingRole,omitempty"`
	Roles         []Role     `json:"roles,omitempty"`
	ForceExchange bool       `json:"forceExchange,omitempty"`
	GameType      GameType   `json:"gameType,omitempty"`
}

// Config carries the options recognized at game creation.
type Config struct {
	GameName    string
	Created     time.Time
	RandomSeed  int64 // 0 seeds from the clock
	Debug       bool
	FirstPlayer int // opening seat index; RandomFirstPlayer picks one
	Logger      *zap.SugaredLogger
	Recorder    Recorder
	AIFactory   func() AIDriver
	Sanitize    func(text string) (string, error)
	OnDestroy   func(g *Game)
}

// Game owns the canonical state of one match. It processes one command to
// completion before accepting the next; the mutex realizes the cooperative
// single-command execution model.
type Game struct {
	mu sync.Mutex

	name        string
	created     time.Time
	debug       bool
	log         *zap.SugaredLogger
	rng         *rand.Rand
	firstPlayer int

	stateID  int
	players  []*Player
	roles    []Role
	gameType GameType
	deck     *Deck
	state    gameState
	started  bool
	turn     int

	turnGroup  int
	adhocGroup int
	eventLog   []HistoryEvent

	eliminated  []string
	disconnects []string
	recorded    bool

	recorder  Recorder
	aiFactory func() AIDriver
	sanitize  func(string) (string, error)
	onDestroy func(*Game)
}

// NewGame creates a match in the waiting-for-players state.
func NewGame(cfg Config) *Game {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	name := cfg.GameName
	if name == "" {
		name = uuid.NewString()
	}
	created := cfg.Created
	if created.IsZero() {
		created = time.Now()
	}
	g := &Game{
		name:        name,
		created:     created,
		debug:       cfg.Debug,
		log:         log,
		rng:         rand.New(rand.NewSource(seed)),
		firstPlayer: cfg.FirstPlayer,
		state:       &waitingForPlayers{},
		turn:        -1,
		recorder:    cfg.Recorder,
		aiFactory:   cfg.AIFactory,
		sanitize:    cfg.Sanitize,
		onDestroy:   cfg.OnDestroy,
	}
	return g
}

// Name returns the game's unique name.
func (g *Game) Name() string {
	return g.name
}

// StateID returns the id of the last broadcast state.
func (g *Game) StateID() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateID
}

// seatHandle is the per-seat handle returned on join. It tracks the seat by
// player record, not index, so pre-start removals never invalidate it.
type seatHandle struct {
	g *Game
	p *Player
}

func (h *seatHandle) Command(cmd *Command) error  { return h.g.command(h.p, cmd) }
func (h *seatHandle) Leave(rejoined bool)         { h.g.leave(h.p, rejoined) }
func (h *seatHandle) SendChatMessage(text string) { h.g.chat(h.p, text) }
func (h *seatHandle) GameName() string            { return h.g.name }

// epithets disambiguate colliding player names.
var epithets = []string{
	"the bold", "the sly", "the unseen", "the honest", "the ruthless",
	"the quiet", "the lucky", "the patient", "the reckless", "the second",
}

// Join seats a participant. It rejects nothing: once the game is full or
// started the participant becomes an observer. The returned handle is the
// seat's interface to the engine.
func (g *Game) Join(r Recipient) Handle {
	g.mu.Lock()
	h := g.joinLocked(r)
	g.broadcast()
	g.mu.Unlock()
	return h
}

func (g *Game) joinLocked(r Recipient) Handle {
	p := &Player{
		Name:      g.uniqueName(r.Name()),
		PlayerID:  r.PlayerID(),
		AI:        r.AI(),
		recipient: r,
		queue:     broadcast.NewQueue(),
	}
	if g.started || g.countNonObservers() >= MaxPlayers {
		p.Observer = true
	} else {
		p.Influence = []Influence{{Role: RoleNotDealt}, {Role: RoleNotDealt}}
	}
	g.players = append(g.players, p)
	idx := len(g.players) - 1
	if p.Observer {
		g.logEvent(EventJoin, g.adhocGroupID(), seatRef(idx)+" joined as an observer")
	} else {
		g.logEvent(EventJoin, g.adhocGroupID(), seatRef(idx)+" joined the game")
	}
	g.log.Infof("game %s: %s joined (seat %d, observer=%v)", g.name, p.Name, idx, p.Observer)
	return &seatHandle{g: g, p: p}
}

func (g *Game) uniqueName(name string) string {
	if name == "" {
		name = "player"
	}
	taken := func(n string) bool {
		for _, p := range g.players {
			if p.Name == n {
				return true
			}
		}
		return false
	}
	candidate := name
	for taken(candidate) {
		candidate = name + " " + epithets[g.rng.Intn(len(epithets))]
	}
	return candidate
}

func (g *Game) seatIndex(p *Player) int {
	for i, q := range g.players {
		if q == p {
			return i
		}
	}
	return -1
}

func (g *Game) countNonObservers() int {
	n := 0
	for _, p := range g.players {
		if !p.Observer {
			n++
		}
	}
	return n
}

func (g *Game) livingSeats() []int {
	var alive []int
	for i, p := range g.players {
		if !p.Observer && p.Alive() && g.started {
			alive = append(alive, i)
		}
	}
	return alive
}

// command is the sole mutator. Observers' commands are no-ops. Any rule
// violation returns a RuleError to the submitting seat with no mutation and
// no broadcast.
func (g *Game) command(p *Player, cmd *Command) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p.Observer {
		return nil
	}
	if cmd == nil {
		return ruleErrorf("malformed command payload")
	}
	if g.state.name() == StateDestroyed {
		return ruleErrorf("game has been destroyed")
	}
	idx := g.seatIndex(p)
	if idx < 0 {
		return ruleErrorf("seat no longer in game")
	}
	if cmd.StateID != g.stateID {
		return ruleErrorf("stale command: state id %d, current %d", cmd.StateID, g.stateID)
	}

	var err error
	switch cmd.Command {
	case "start":
		err = g.cmdStart(idx, cmd)
	case "add-ai":
		err = g.cmdAddAI(idx)
	case "remove-ai":
		err = g.cmdRemoveAI(idx)
	case "play-action":
		err = g.cmdPlayAction(idx, cmd)
	case "challenge":
		err = g.cmdChallenge(idx)
	case "block":
		err = g.cmdBlock(idx, cmd)
	case "allow":
		err = g.cmdAllow(idx)
	case "reveal":
		err = g.cmdReveal(idx, cmd)
	case "exchange":
		err = g.cmdExchange(idx, cmd)
	case "interrogate":
		err = g.cmdInterrogate(idx, cmd)
	default:
		err = ruleErrorf("unknown command %q", cmd.Command)
	}
	if err != nil {
		if g.debug {
			g.log.Debugf("game %s: seat %d command %q rejected: %v", g.name, idx, cmd.Command, err)
		}
		return err
	}
	g.broadcast()
	return nil
}

// broadcast stamps a new state id and queues one masked snapshot per
// connected seat. The id increases by exactly one per broadcast and never
// resets.
func (g *Game) broadcast() {
	g.stateID++
	for i, p := range g.players {
		if p.recipient == nil {
			continue
		}
		view := g.maskState(i)
		r := p.recipient
		p.queue.Post(func() {
			r.OnStateChange(view)
		})
	}
}

func (g *Game) cmdStart(idx int, cmd *Command) error {
	if _, ok := g.state.(*waitingForPlayers); !ok {
		return ruleErrorf("game already started")
	}
	if g.countNonObservers() < MinPlayers {
		return ruleErrorf("cannot start with fewer than %d players", MinPlayers)
	}
	roles, err := rolesForGameType(cmd.GameType)
	if err != nil {
		return err
	}
	gt := cmd.GameType
	if gt == "" {
		gt = GameTypeOriginal
	}
	g.roles = roles
	g.gameType = gt
	g.deck = NewDeck(roles, g.rng)

	var seats []int
	for i, p := range g.players {
		if p.Observer {
			continue
		}
		p.Cash = 2
		p.Influence = []Influence{
			{Role: g.deck.Draw()},
			{Role: g.deck.Draw()},
		}
		seats = append(seats, i)
	}
	g.started = true

	first := g.firstPlayer
	if first < 0 || first >= len(g.players) || g.players[first].Observer {
		first = seats[g.rng.Intn(len(seats))]
	}
	g.turnGroup = 1
	g.logEvent(EventStart, g.turnGroupID(), "game started")
	g.turn = first
	g.state = &startOfTurn{player: first}
	g.log.Infof("game %s: started (%s), %d seats, seat %d opens", g.name, gt, len(seats), first)
	return nil
}

func (g *Game) cmdAddAI(idx int) error {
	if _, ok := g.state.(*waitingForPlayers); !ok {
		return ruleErrorf("cannot add an ai player after the game has started")
	}
	if g.aiFactory == nil {
		return ruleErrorf("ai players are not available")
	}
	driver := g.aiFactory()
	h := g.joinLocked(driver)
	driver.Bind(h)
	return nil
}

func (g *Game) cmdRemoveAI(idx int) error {
	if _, ok := g.state.(*waitingForPlayers); !ok {
		return ruleErrorf("cannot remove an ai player after the game has started")
	}
	for i := len(g.players) - 1; i >= 0; i-- {
		if g.players[i].AI {
			g.removeSeat(i)
			return nil
		}
	}
	return ruleErrorf("no ai player to remove")
}

// removeSeat drops a pre-start or observer seat outright. Later seats shift
// down one index; handles stay valid because they address the player record.
func (g *Game) removeSeat(idx int) {
	p := g.players[idx]
	p.queue.Close()
	p.recipient = nil
	g.players = append(g.players[:idx], g.players[idx+1:]...)
	g.logEvent(EventLeave, g.adhocGroupID(), p.Name+" left the game")
}

// leave handles both pre-start departure (seat removed) and mid-game
// disconnect (seat retained, influence revealed, game forced forward so play
// never stalls on an absent seat).
func (g *Game) leave(p *Player, rejoined bool) {
	g.mu.Lock()
	idx := g.seatIndex(p)
	if idx < 0 || g.state.name() == StateDestroyed {
		g.mu.Unlock()
		return
	}

	if !g.started || p.Observer {
		g.removeSeat(idx)
		g.broadcast()
		destroy := g.shouldDestroy()
		if destroy {
			g.destroyLocked()
		}
		g.mu.Unlock()
		if destroy && g.onDestroy != nil {
			g.onDestroy(g)
		}
		return
	}

	// Mid-game: keep the seat so indices never shift.
	p.queue.Close()
	p.recipient = nil
	g.logEvent(EventLeave, g.adhocGroupID(), seatRef(idx)+" left the game")
	g.log.Infof("game %s: %s disconnected mid-game (rejoined=%v)", g.name, p.Name, rejoined)

	if !rejoined && g.recorder != nil && !g.lastHumanAmongAIs(p) {
		g.disconnects = append(g.disconnects, p.Name)
		g.recorder.RecordDisconnect(p.Name)
	}

	wasAlive := p.Alive()
	if wasAlive {
		for i := range p.Influence {
			if !p.Influence[i].Revealed {
				g.revealSlot(idx, i)
			}
		}
	}
	if !g.checkWin() && wasAlive {
		g.forceForward(idx)
	}
	g.broadcast()

	destroy := g.shouldDestroy()
	if destroy {
		g.destroyLocked()
	}
	g.mu.Unlock()
	if destroy && g.onDestroy != nil {
		g.onDestroy(g)
	}
}

// lastHumanAmongAIs reports whether p is the only connected human left, in
// which case the disconnect statistic is skipped.
func (g *Game) lastHumanAmongAIs(p *Player) bool {
	if p.AI {
		return false
	}
	for _, q := range g.players {
		if q != p && q.recipient != nil && !q.AI {
			return false
		}
	}
	return true
}

// forceForward advances the game when the departed seat held the turn, owed
// a reveal, or owed an allow.
func (g *Game) forceForward(idx int) {
	switch s := g.state.(type) {
	case *startOfTurn:
		if s.player == idx {
			g.nextTurn()
		}
	case *actionResponse:
		if s.player == idx || s.target == idx {
			g.nextTurn()
		} else {
			g.allowAction(s, idx)
		}
	case *blockResponse:
		if s.blocker == idx {
			// Block abandoned; the original action proceeds.
			g.resolveAction(s.player, s.action, s.target)
		} else if s.player == idx {
			g.nextTurn()
		} else {
			g.allowBlock(s, idx)
		}
	case *finalActionResponse:
		if s.player == idx || s.target == idx {
			g.nextTurn()
		}
	case *revealInfluence:
		// The reveal already happened when the seat's influence was turned
		// face-up on disconnect.
		if s.reveal == idx {
			g.afterReveal(s)
		} else if s.player == idx {
			g.nextTurn()
		}
	case *exchangeState:
		if s.player == idx {
			g.deck.ReturnAndShuffle(s.drawn...)
			g.nextTurn()
		}
	case *interrogateState:
		if s.player == idx || s.target == idx {
			g.nextTurn()
		}
	}
}

// shouldDestroy reports whether only AI-controlled seats remain connected.
func (g *Game) shouldDestroy() bool {
	for _, p := range g.players {
		if p.recipient != nil && !p.AI {
			return false
		}
	}
	return true
}

func (g *Game) destroyLocked() {
	if g.state.name() == StateDestroyed {
		return
	}
	g.state = &destroyed{}
	for _, p := range g.players {
		p.queue.Close()
		p.recipient = nil
	}
	g.log.Infof("game %s: destroyed, only ai seats remained", g.name)
}

// chat sanitizes and fans out a free-text message. Chat does not touch game
// state and does not bump the state id.
func (g *Game) chat(p *Player, text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.seatIndex(p)
	if idx < 0 || g.state.name() == StateDestroyed {
		return
	}
	if g.sanitize != nil {
		clean, err := g.sanitize(text)
		if err != nil {
			return
		}
		text = clean
	}
	for _, q := range g.players {
		if q.recipient == nil {
			continue
		}
		r := q.recipient
		msg := text
		q.queue.Post(func() {
			r.OnChatMessage(idx, msg)
		})
	}
}

// nextTurn concludes the current turn and hands play to the nearest living
// seat clockwise. Detecting a sole survivor takes precedence.
func (g *Game) nextTurn() {
	if g.checkWin() {
		return
	}
	g.turnGroup++
	n := len(g.players)
	for step := 1; step <= n; step++ {
		idx := (g.turn + step) % n
		p := g.players[idx]
		if !p.Observer && p.Alive() {
			g.turn = idx
			g.state = &startOfTurn{player: idx}
			return
		}
	}
	// Unreachable while at least one seat lives; checkWin covers the rest.
}

// checkWin transitions to GameWon when exactly one live seat remains and
// records the final summary exactly once.
func (g *Game) checkWin() bool {
	if !g.started {
		return false
	}
	if _, ok := g.state.(*gameWon); ok {
		return true
	}
	alive := g.livingSeats()
	if len(alive) != 1 {
		return false
	}
	winner := alive[0]
	g.state = &gameWon{player: winner}
	g.logEvent(EventGameWon, g.turnGroupID(), seatRef(winner)+" won the game")
	g.turnGroup++
	g.recordGame(winner)
	g.log.Infof("game %s: seat %d (%s) won", g.name, winner, g.players[winner].Name)
	return true
}

// recordGame sends the final summary to the recorder: ranking is the winner
// first, then the eliminated seats in reverse elimination order.
func (g *Game) recordGame(winner int) {
	if g.recorded || g.recorder == nil {
		return
	}
	g.recorded = true

	rank := []string{g.players[winner].Name}
	for i := len(g.eliminated) - 1; i >= 0; i-- {
		rank = append(rank, g.eliminated[i])
	}
	humans := 0
	seats := 0
	for _, p := range g.players {
		if p.Observer {
			continue
		}
		seats++
		if !p.AI {
			humans++
		}
	}
	events, err := json.Marshal(g.eventLog)
	if err != nil {
		g.log.Errorf("game %s: failed to serialize event log: %v", g.name, err)
		events = []byte("[]")
	}
	g.recorder.RecordGame(&models.GameSummary{
		GameName:         g.name,
		GameType:         string(g.gameType),
		Players:          seats,
		HumanPlayers:     humans,
		PlayerRank:       rank,
		PlayerDisconnect: append([]string(nil), g.disconnects...),
		Events:           events,
		CreatedAt:        g.created,
	})
}

// Flush waits until every queued delivery has reached its recipient. Test
// support; production callers never need it.
func (g *Game) Flush() {
	g.mu.Lock()
	queues := make([]*broadcast.Queue, 0, len(g.players))
	for _, p := range g.players {
		queues = append(queues, p.queue)
	}
	g.mu.Unlock()
	for _, q := range queues {
		q.Flush()
	}
}
