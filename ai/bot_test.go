package ai

import (
	"strings"
	"testing"

	"github.com/wfunc/influence/game"
)

func twoSeatView(state game.StateInfo, self, other game.PlayerView) *game.StateView {
	return &game.StateView{
		StateID:   7,
		Players:   []game.PlayerView{self, other},
		PlayerIdx: 0,
		State:     state,
	}
}

func seat(cash int, roles ...game.Role) game.PlayerView {
	infl := make([]game.InfluenceView, len(roles))
	for i, r := range roles {
		infl[i] = game.InfluenceView{Role: r}
	}
	return game.PlayerView{Cash: cash, Influence: infl, InfluenceCount: len(roles)}
}

func TestBot_NameCarriesAITag(t *testing.T) {
	b := NewBot()
	if !strings.HasSuffix(b.Name(), " (ai)") {
		t.Errorf("Bot names should carry the ai tag, got %q", b.Name())
	}
	if !b.AI() {
		t.Error("AI() should report true")
	}
}

func TestBot_TaxesWithDuke(t *testing.T) {
	b := NewBot()
	view := twoSeatView(
		game.StateInfo{Name: game.StateStartOfTurn, PlayerIdx: 0, Target: -1, Blocker: -1, PlayerToReveal: -1},
		seat(2, game.RoleDuke, game.RoleContessa),
		seat(2, game.RoleUnknown, game.RoleUnknown),
	)
	cmd := b.decide(view)
	if cmd == nil || cmd.Action != game.ActionTax {
		t.Fatalf("A duke holder should tax, got %+v", cmd)
	}
}

func TestBot_CoupsWhenRich(t *testing.T) {
	b := NewBot()
	view := twoSeatView(
		game.StateInfo{Name: game.StateStartOfTurn, PlayerIdx: 0, Target: -1, Blocker: -1, PlayerToReveal: -1},
		seat(8, game.RoleContessa, game.RoleContessa),
		seat(2, game.RoleUnknown, game.RoleUnknown),
	)
	cmd := b.decide(view)
	if cmd == nil || cmd.Action != game.ActionCoup || cmd.Target != 1 {
		t.Fatalf("A rich bot should coup the opponent, got %+v", cmd)
	}
}

func TestBot_WaitsOutsideItsTurn(t *testing.T) {
	b := NewBot()
	view := twoSeatView(
		game.StateInfo{Name: game.StateStartOfTurn, PlayerIdx: 1, Target: -1, Blocker: -1, PlayerToReveal: -1},
		seat(2, game.RoleDuke, game.RoleContessa),
		seat(2, game.RoleUnknown, game.RoleUnknown),
	)
	if cmd := b.decide(view); cmd != nil {
		t.Fatalf("The bot must not act outside its turn, got %+v", cmd)
	}
}

func TestBot_AllowsPendingActions(t *testing.T) {
	b := NewBot()
	view := twoSeatView(
		game.StateInfo{Name: game.StateActionResponse, PlayerIdx: 1, Action: game.ActionTax, Target: -1, Blocker: -1, PlayerToReveal: -1},
		seat(2, game.RoleDuke, game.RoleContessa),
		seat(2, game.RoleUnknown, game.RoleUnknown),
	)
	cmd := b.decide(view)
	if cmd == nil || cmd.Command != "allow" {
		t.Fatalf("An honest bot allows pending actions, got %+v", cmd)
	}
}

func TestBot_BlocksAssassinationWithContessa(t *testing.T) {
	b := NewBot()
	view := twoSeatView(
		game.StateInfo{Name: game.StateFinalActionResponse, PlayerIdx: 1, Action: game.ActionAssassinate, Target: 0, Blocker: -1, PlayerToReveal: -1},
		seat(2, game.RoleContessa, game.RoleDuke),
		seat(2, game.RoleUnknown, game.RoleUnknown),
	)
	cmd := b.decide(view)
	if cmd == nil || cmd.Command != "block" || cmd.BlockingRole != game.RoleContessa {
		t.Fatalf("A contessa holder should block the assassination, got %+v", cmd)
	}
}

func TestBot_RevealsWhenRequired(t *testing.T) {
	b := NewBot()
	view := twoSeatView(
		game.StateInfo{Name: game.StateRevealInfluence, PlayerIdx: 1, Target: -1, Blocker: -1, PlayerToReveal: 0},
		seat(2, game.RoleDuke, game.RoleContessa),
		seat(2, game.RoleUnknown, game.RoleUnknown),
	)
	cmd := b.decide(view)
	if cmd == nil || cmd.Command != "reveal" || cmd.Role != game.RoleDuke {
		t.Fatalf("The bot should reveal its first unrevealed role, got %+v", cmd)
	}
}
