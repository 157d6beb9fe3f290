package game

import (
	"strings"
	"testing"
)

func TestHistory_TurnEventsShareOneGroup(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, nil)
	setHand(g, 0, Influence{Role: RoleDuke}, Influence{Role: RoleAssassin})
	setHand(g, 1, Influence{Role: RoleCaptain}, Influence{Role: RoleContessa})

	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionTax})
	mustCommand(t, g, handles[1], &Command{Command: "challenge"})
	mustCommand(t, g, handles[1], &Command{Command: "reveal", Role: RoleCaptain})
	g.Flush()

	var groups []string
	for _, e := range recipients[0].Events() {
		if e.typ == EventJoin || e.typ == EventLeave {
			continue
		}
		groups = append(groups, e.groupID)
	}
	if len(groups) < 4 {
		t.Fatalf("Expected the contested tax to produce several events, got %d", len(groups))
	}
	// Everything from the start through the resolved tax belongs to turn 1.
	for _, id := range groups {
		if id != "t1" {
			t.Fatalf("Every event of one turn must share its group, got %v", groups)
		}
	}
}

func TestHistory_GroupAdvancesPerTurn(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, nil)
	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionIncome})
	mustCommand(t, g, handles[1], &Command{Command: "play-action", Action: ActionIncome})
	g.Flush()

	var incomeGroups []string
	for _, e := range recipients[0].Events() {
		if e.typ == EventAction {
			incomeGroups = append(incomeGroups, e.groupID)
		}
	}
	if len(incomeGroups) != 2 || incomeGroups[0] == incomeGroups[1] {
		t.Fatalf("Each turn gets its own group, got %v", incomeGroups)
	}
}

func TestHistory_JoinsGetAdhocGroups(t *testing.T) {
	g, _, recipients := newTestGame(3, nil)
	g.Flush()

	var joinGroups []string
	for _, e := range recipients[0].Events() {
		if e.typ == EventJoin {
			joinGroups = append(joinGroups, e.groupID)
		}
	}
	seen := make(map[string]bool)
	for _, id := range joinGroups {
		if !strings.HasPrefix(id, "a") {
			t.Errorf("Join events use ad-hoc groups, got %q", id)
		}
		if seen[id] {
			t.Errorf("Ad-hoc groups must be unique, %q repeated", id)
		}
		seen[id] = true
	}
}

func TestHistory_MessagesUseSeatPlaceholders(t *testing.T) {
	g, handles, recipients := newStartedGame(t, 2, GameTypeOriginal, nil)
	mustCommand(t, g, handles[0], &Command{Command: "play-action", Action: ActionIncome})
	g.Flush()

	found := false
	for _, e := range recipients[1].Events() {
		if e.typ == EventAction && e.message == "{0} drew income" {
			found = true
		}
	}
	if !found {
		t.Error("History messages should reference seats as {N} placeholders")
	}
}
