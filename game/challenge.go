// game/challenge.go
package game

// cmdChallenge disputes the role implicitly claimed by the pending action or
// block. Whether the challenged seat actually holds the role decides who
// loses influence.
func (g *Game) cmdChallenge(idx int) error {
	if !g.players[idx].Alive() {
		return ruleErrorf("eliminated seats cannot challenge")
	}
	switch s := g.state.(type) {
	case *actionResponse:
		if s.player == idx {
			return ruleErrorf("cannot challenge your own action")
		}
		claimed := g.claimedRole(s.action)
		if claimed == "" {
			return ruleErrorf("action %s claims no role and cannot be challenged", s.action)
		}
		g.logEvent(EventChallenge, g.turnGroupID(),
			seatRef(idx)+" challenged "+seatRef(s.player))
		g.resolveActionChallenge(s, idx, claimed)
		return nil

	case *blockResponse:
		if s.blocker == idx {
			return ruleErrorf("cannot challenge your own block")
		}
		g.logEvent(EventChallenge, g.turnGroupID(),
			seatRef(idx)+" challenged "+seatRef(s.blocker))
		g.resolveBlockChallenge(s, idx)
		return nil

	default:
		return ruleErrorf("nothing to challenge in state %s", g.state.name())
	}
}

func (g *Game) resolveActionChallenge(s *actionResponse, challenger int, claimed Role) {
	challenged := g.players[s.player]
	slot := challenged.unrevealedSlot(claimed)

	// The disputed attempt is logged before any reveal.
	g.logEvent(EventAction, g.turnGroupID(), s.message)

	if slot >= 0 {
		// Challenge fails: the proven card is swapped for a fresh one and
		// the challenger pays with an influence.
		g.swapCard(s.player, slot)
		if g.loseInfluence(challenger, ReasonIncorrectChallenge, s.player, s.action, s.target, -1, "") {
			g.afterIncorrectActionChallenge(s.player, s.action, s.target)
		}
		return
	}

	// Challenge succeeds: the action is cancelled, its cost refunded, and
	// the challenged seat loses an influence.
	challenged.Cash += actionTable[s.action].Cost
	if g.loseInfluence(s.player, ReasonSuccessfulChallenge, s.player, s.action, s.target, -1, "") {
		g.nextTurn()
	}
}

func (g *Game) resolveBlockChallenge(s *blockResponse, challenger int) {
	blocker := g.players[s.blocker]
	slot := blocker.unrevealedSlot(s.blockingRole)

	g.logEvent(EventBlock, g.turnGroupID(), s.message)

	if slot >= 0 {
		// Challenge fails: the block stands once the challenger has paid.
		g.swapCard(s.blocker, slot)
		if g.loseInfluence(challenger, ReasonIncorrectChallenge, s.player, s.action, s.target, s.blocker, s.blockingRole) {
			g.afterBlockStands(s.blocker, s.blockingRole)
		}
		return
	}

	// Challenge succeeds: the block is removed and the original action
	// proceeds once the blocker has paid. When the blocked action was an
	// assassination of the blocker, proceeding costs a second influence.
	if g.loseInfluence(s.blocker, ReasonSuccessfulChallenge, s.player, s.action, s.target, s.blocker, s.blockingRole) {
		g.resolveAction(s.player, s.action, s.target)
	}
}

// swapCard returns the proven card to the deck, reshuffles, and draws a
// replacement into the same slot. The replacement may be the same role.
func (g *Game) swapCard(seat, slot int) {
	p := g.players[seat]
	g.deck.ReturnAndShuffle(p.Influence[slot].Role)
	p.Influence[slot].Role = g.deck.Draw()
}

// loseInfluence makes victim lose one influence. With one unrevealed card
// left the reveal happens immediately in place and true is returned; with
// more the game parks in RevealInfluence and the caller's continuation runs
// after the reveal command.
func (g *Game) loseInfluence(victim int, reason RevealReason, actor int, action ActionName, target, blocker int, blockingRole Role) bool {
	p := g.players[victim]
	if p.InfluenceCount() <= 1 {
		for i := range p.Influence {
			if !p.Influence[i].Revealed {
				g.revealSlot(victim, i)
				break
			}
		}
		return true
	}
	g.state = &revealInfluence{
		player:       actor,
		action:       action,
		target:       target,
		blocker:      blocker,
		blockingRole: blockingRole,
		reason:       reason,
		reveal:       victim,
	}
	return false
}

// revealSlot turns one influence face-up, permanently, and tracks
// elimination order.
func (g *Game) revealSlot(seat, slot int) {
	p := g.players[seat]
	p.Influence[slot].Revealed = true
	g.logEvent(EventReveal, g.turnGroupID(),
		seatRef(seat)+" revealed "+string(p.Influence[slot].Role))
	if !p.Alive() {
		g.eliminated = append(g.eliminated, p.Name)
		g.logEvent(EventElimination, g.turnGroupID(), seatRef(seat)+" is out of the game")
	}
}

// cmdReveal is issued by the seat designated in RevealInfluence and names an
// unrevealed role it owns.
func (g *Game) cmdReveal(idx int, cmd *Command) error {
	s, ok := g.state.(*revealInfluence)
	if !ok {
		return ruleErrorf("no reveal is pending")
	}
	if s.reveal != idx {
		return ruleErrorf("not your reveal")
	}
	slot := g.players[idx].unrevealedSlot(cmd.Role)
	if slot < 0 {
		return ruleErrorf("you do not hold an unrevealed %s", cmd.Role)
	}
	g.revealSlot(idx, slot)
	g.afterReveal(s)
	return nil
}

// afterReveal runs the continuation of a completed reveal, keyed by reason
// and by whether the dispute was over a block or the action itself.
func (g *Game) afterReveal(s *revealInfluence) {
	if g.checkWin() {
		return
	}
	switch s.reason {
	case ReasonDeath:
		g.nextTurn()
	case ReasonSuccessfulChallenge:
		if s.blocker >= 0 {
			// The block was a bluff; the original action proceeds.
			g.resolveAction(s.player, s.action, s.target)
		} else {
			// The action was a bluff; the turn is over.
			g.nextTurn()
		}
	case ReasonIncorrectChallenge:
		if s.blocker >= 0 {
			g.afterBlockStands(s.blocker, s.blockingRole)
		} else {
			g.afterIncorrectActionChallenge(s.player, s.action, s.target)
		}
	}
}

// afterBlockStands ends the turn with the block upheld.
func (g *Game) afterBlockStands(blocker int, blockingRole Role) {
	if g.checkWin() {
		return
	}
	g.logEvent(EventBlock, g.turnGroupID(),
		seatRef(blocker)+" blocked with "+string(blockingRole))
	g.nextTurn()
}

// afterIncorrectActionChallenge continues a proven action. A blockable
// action with a still-living target gets one final block window; anything
// else resolves now.
func (g *Game) afterIncorrectActionChallenge(actor int, action ActionName, target int) {
	if g.checkWin() {
		return
	}
	if len(g.blockingRoles(action)) > 0 && target >= 0 && g.players[target].Alive() {
		g.state = &finalActionResponse{
			player:  actor,
			action:  action,
			target:  target,
			message: actionMessage(actor, action, target),
		}
		return
	}
	g.resolveAction(actor, action, target)
}
