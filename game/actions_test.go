package game

import (
	"testing"
)

func TestIncome_ResolvesImmediately(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, nil)
	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionIncome})
	g.Flush()

	view := recipients[0].LastView()
	if view.Players[0].Cash != 3 {
		t.Errorf("Income should pay 1, got %d cash", view.Players[0].Cash)
	}
	if view.State.Name != StateStartOfTurn || view.State.PlayerIdx != 1 {
		t.Errorf("Income should end the turn, got %s for seat %d",
			view.State.Name, view.State.PlayerIdx)
	}
}

func TestForeignAid_ResolvesWhenAllAllow(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 3, GameTypeOriginal, nil)
	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionForeignAid})
	g.Flush()

	if view := recipients[1].LastView(); view.State.Name != StateActionResponse {
		t.Fatalf("Foreign aid should open a response window, got %s", view.State.Name)
	}
	mustCommand(t, g, handles[1], &Command{Command: "allow"})
	mustCommand(t, g, handles[2], &Command{Command: "allow"})
	g.Flush()

	view := recipients[0].LastView()
	if view.Players[0].Cash != 4 {
		t.Errorf("Foreign aid should pay 2, got %d cash", view.Players[0].Cash)
	}
	if view.State.Name != StateStartOfTurn {
		t.Errorf("Expected the turn to end, got %s", view.State.Name)
	}
}

func TestAllow_DuplicateRejected(t *testing.T) {
	g, handles, _ := newStartedGame(t, 3, GameTypeOriginal, nil)
	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionTax})
	mustCommand(t, g, handles[1], &Command{Command: "allow"})
	wantRuleError(t, g, handles[1], &Command{Command: "allow"})
}

func TestPlayAction_OutOfTurnRejected(t *testing.T) {
	g, handles, _ := newStartedGame(t, 2, GameTypeOriginal, nil)
	wantRuleError(t, g, handles[1], &Command{Command: "play-action", Action: ActionIncome})
}

func TestSteal_TakesAtMostTwo(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, nil)
	g.players[1].Cash = 1

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionSteal, Target: 1})
	mustCommand(t, g, handles[1], &Command{Command: "allow"})
	g.Flush()

	view := recipients[0].LastView()
	if view.Players[0].Cash != 3 || view.Players[1].Cash != 0 {
		t.Errorf("Steal should take everything up to 2: got %d / %d",
			view.Players[0].Cash, view.Players[1].Cash)
	}
}

func TestTargetedAction_RejectsBadTargets(t *testing.T) {
	g, handles, _ := newStartedGame(t, 2, GameTypeOriginal, nil)
	wantRuleError(t, g, handles[0], &Command{Command: "play-action", Action: ActionSteal, Target: 0})
	wantRuleError(t, g, handles[0], &Command{Command: "play-action", Action: ActionSteal, Target: 5})
	wantRuleError(t, g, handles[0], &Command{Command: "play-action", Action: ActionSteal, Target: -2})
}

func TestAssassinate_KillsLastInfluence(t *testing.T) {
	rec := &MockRecorder{}
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, rec)
	setHand(g, 0, Influence{Role: RoleAssassin}, Influence{Role: RoleDuke})
	setHand(g, 1, Influence{Role: RoleCaptain, Revealed: true}, Influence{Role: RoleContessa})
	g.players[0].Cash = 3

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionAssassinate, Target: 1})
	g.Flush()
	if view := recipients[0].LastView(); view.Players[0].Cash != 0 {
		t.Errorf("Assassination should cost 3 up front, got %d cash", view.Players[0].Cash)
	}

	mustCommand(t, g, handles[1], &Command{Command: "allow"})
	g.Flush()

	view := recipients[0].LastView()
	if view.Players[1].InfluenceCount != 0 {
		t.Error("The target's last influence should be revealed")
	}
	if view.State.Name != StateGameWon || view.State.PlayerIdx != 0 {
		t.Errorf("Expected seat 0 to win, got %s for seat %d",
			view.State.Name, view.State.PlayerIdx)
	}
	if len(rec.Summaries()) != 1 {
		t.Error("The finished game should be recorded")
	}
}

func TestAssassinate_RequiresCash(t *testing.T) {
	g, handles, _ := newStartedGame(t, 2, GameTypeOriginal, nil)
	setHand(g, 0, Influence{Role: RoleAssassin}, Influence{Role: RoleDuke})
	g.players[0].Cash = 2
	wantRuleError(t, g, handles[0], &Command{Command: "play-action", Action: ActionAssassinate, Target: 1})
}

func TestCoup_ForcedAtTenCash(t *testing.T) {
	g, handles, _ := newStartedGame(t, 2, GameTypeOriginal, nil)
	g.players[0].Cash = 10
	wantRuleError(t, g, handles[0], &Command{Command: "play-action", Action: ActionIncome})
	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionCoup, Target: 1})
}

func TestCoup_CannotBeBlocked(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, nil)
	g.players[0].Cash = 7

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionCoup, Target: 1})
	g.Flush()

	// No response window: the target owes a reveal at once.
	view := recipients[1].LastView()
	if view.State.Name != StateRevealInfluence || view.State.PlayerToReveal != 1 {
		t.Fatalf("A coup must go straight to reveal-influence, got %s", view.State.Name)
	}

	role := g.players[1].Influence[0].Role
	mustCommand(t, g, handles[1], &Command{Command: "reveal", Role: role})
	g.Flush()

	view = recipients[1].LastView()
	if view.Players[1].InfluenceCount != 1 {
		t.Errorf("Coup should cost the target one influence, got %d", view.Players[1].InfluenceCount)
	}
	if view.State.Name != StateStartOfTurn || view.State.PlayerIdx != 1 {
		t.Errorf("Expected the turn to pass, got %s for seat %d", view.State.Name, view.State.PlayerIdx)
	}
}

func TestBlock_ForeignAidWithDuke(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, nil)
	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionForeignAid})
	mustCommand(t, g, handles[1], &Command{Command: "block", BlockingRole: RoleDuke})
	mustCommand(t, g, handles[0], &Command{Command: "allow"})
	g.Flush()

	view := recipients[0].LastView()
	if view.Players[0].Cash != 2 {
		t.Errorf("A standing block must cancel the aid, got %d cash", view.Players[0].Cash)
	}
	if view.State.Name != StateStartOfTurn || view.State.PlayerIdx != 1 {
		t.Errorf("Expected the turn to end, got %s for seat %d",
			view.State.Name, view.State.PlayerIdx)
	}
}

func TestBlock_OnlyTargetMayBlockTargetedActions(t *testing.T) {
	g, handles, _ := newStartedGame(t, 3, GameTypeOriginal, nil)
	setHand(g, 0, Influence{Role: RoleCaptain}, Influence{Role: RoleDuke})

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionSteal, Target: 1})
	wantRuleError(t, g, handles[2], &Command{Command: "block", BlockingRole: RoleCaptain})
	mustCommand(t, g, handles[1], &Command{Command: "block", BlockingRole: RoleCaptain})
}

func TestBlock_RoleMustMatchAction(t *testing.T) {
	g, handles, _ := newStartedGame(t, 2, GameTypeOriginal, nil)
	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionForeignAid})
	wantRuleError(t, g, handles[1], &Command{Command: "block", BlockingRole: RoleContessa})
}

func TestExchange_AmbassadorDrawsTwo(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, nil)
	setHand(g, 0, Influence{Role: RoleAmbassador}, Influence{Role: RoleDuke})
	pinDeck(g, RoleCaptain, RoleContessa, RoleAssassin)
	before := totalCards(g)

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionExchange})
	mustCommand(t, g, handles[1], &Command{Command: "allow"})
	g.Flush()

	view := recipients[0].LastView()
	if view.State.Name != StateExchange {
		t.Fatalf("Expected exchange, got %s", view.State.Name)
	}
	if len(view.State.ExchangeOptions) != 4 {
		t.Fatalf("Ambassador offer should be 2 drawn + 2 held, got %v", view.State.ExchangeOptions)
	}
	if total := totalCards(g); total != before {
		t.Errorf("Cards in transit must stay accounted for: %d, want %d", total, before)
	}

	// Only the actor sees the offer.
	if other := recipients[1].LastView(); len(other.State.ExchangeOptions) != 0 {
		t.Error("Non-actors must not see the exchange offer")
	}

	mustCommand(t, g, handles[0], &Command{Command: "exchange", Roles: []Role{RoleCaptain, RoleContessa}})
	g.Flush()

	if total := totalCards(g); total != before {
		t.Errorf("Exchange must conserve cards: %d, want %d", total, before)
	}
	if got := g.players[0].unrevealedRoles(); got[0] != RoleCaptain || got[1] != RoleContessa {
		t.Errorf("Expected the kept roles in hand, got %v", got)
	}
}

func TestExchange_RejectsRolesOutsideOffer(t *testing.T) {
	g, handles, _ := newStartedGame(t, 2, GameTypeOriginal, nil)
	setHand(g, 0, Influence{Role: RoleAmbassador}, Influence{Role: RoleDuke})
	pinDeck(g, RoleCaptain, RoleCaptain, RoleAssassin)

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionExchange})
	mustCommand(t, g, handles[1], &Command{Command: "allow"})

	// Offer is captain, captain, ambassador, duke: no contessa, and at most
	// two captains plus what is held.
	wantRuleError(t, g, handles[0], &Command{Command: "exchange", Roles: []Role{RoleContessa, RoleDuke}})
	wantRuleError(t, g, handles[0], &Command{Command: "exchange", Roles: []Role{RoleCaptain}})
	mustCommand(t, g, handles[0], &Command{Command: "exchange", Roles: []Role{RoleCaptain, RoleCaptain}})
}

func TestExchange_InquisitorDrawsOne(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeInquisitors, nil)
	setHand(g, 0, Influence{Role: RoleInquisitor}, Influence{Role: RoleDuke})
	pinDeck(g, RoleCaptain, RoleContessa)
	before := totalCards(g)

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionExchange})
	mustCommand(t, g, handles[1], &Command{Command: "allow"})
	g.Flush()

	view := recipients[0].LastView()
	if view.State.Name != StateExchange {
		t.Fatalf("Expected exchange, got %s", view.State.Name)
	}
	if len(view.State.ExchangeOptions) != 3 {
		t.Fatalf("Inquisitor offer should be 1 drawn + 2 held, got %v", view.State.ExchangeOptions)
	}
	if total := totalCards(g); total != before {
		t.Errorf("Cards in transit must stay accounted for: %d, want %d", total, before)
	}

	mustCommand(t, g, handles[0], &Command{Command: "exchange", Roles: []Role{RoleCaptain, RoleDuke}})
	g.Flush()
	if total := totalCards(g); total != before {
		t.Errorf("Exchange must conserve cards: %d, want %d", total, before)
	}
}

func TestInterrogate_ConfessionIsPrivate(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeInquisitors, nil)
	setHand(g, 0, Influence{Role: RoleInquisitor}, Influence{Role: RoleDuke})
	setHand(g, 1, Influence{Role: RoleAssassin, Revealed: true}, Influence{Role: RoleCaptain})

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionInterrogate, Target: 1})
	mustCommand(t, g, handles[1], &Command{Command: "allow"})
	g.Flush()

	view := recipients[0].LastView()
	if view.State.Name != StateInterrogate {
		t.Fatalf("Expected interrogate, got %s", view.State.Name)
	}
	if view.State.Confession != RoleCaptain {
		t.Errorf("The interrogator should see the confession, got %q", view.State.Confession)
	}
	if other := recipients[1].LastView(); other.State.Confession != "" {
		t.Error("Only the interrogator may see the confession in the snapshot")
	}

	// The interrogated seat gets the private history event; seat 0 does not.
	found := false
	for _, e := range recipients[1].Events() {
		if e.typ == EventInterrogate && e.message == "your captain was shown to {0}" {
			found = true
		}
	}
	if !found {
		t.Error("The interrogated seat should receive a private confession event")
	}
	for _, e := range recipients[0].Events() {
		if e.message == "your captain was shown to {0}" {
			t.Error("The private confession event leaked to the interrogator")
		}
	}
}

func TestInterrogate_ForceExchangeSwapsCard(t *testing.T) {
	g, handles, _ := newStartedGame(t, 2, GameTypeInquisitors, nil)
	setHand(g, 0, Influence{Role: RoleInquisitor}, Influence{Role: RoleDuke})
	setHand(g, 1, Influence{Role: RoleAssassin, Revealed: true}, Influence{Role: RoleCaptain})
	pinDeck(g, RoleContessa, RoleDuke)

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionInterrogate, Target: 1})
	mustCommand(t, g, handles[1], &Command{Command: "allow"})
	mustCommand(t, g, handles[0], &Command{Command: "interrogate", ForceExchange: true})
	g.Flush()

	if got := g.players[1].Influence[1].Role; got != RoleContessa {
		t.Errorf("Forced exchange should deal a fresh card, got %s", got)
	}
	if name := stateName(g); name != StateStartOfTurn {
		t.Errorf("Interrogation should end the turn, got %s", name)
	}
}
