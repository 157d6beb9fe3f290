// game/actions.go
package game

// cmdPlayAction validates an attempted action against the turn, the action
// table and the actor's treasury, pays its cost, and either resolves it
// immediately (income, coup) or opens the response window.
func (g *Game) cmdPlayAction(idx int, cmd *Command) error {
	s, ok := g.state.(*startOfTurn)
	if !ok {
		return ruleErrorf("no action can be played in state %s", g.state.name())
	}
	if s.player != idx {
		return ruleErrorf("not your turn")
	}
	spec, ok := actionTable[cmd.Action]
	if !ok {
		return ruleErrorf("unknown action %q", cmd.Action)
	}
	actor := g.players[idx]
	claimed := g.claimedRole(cmd.Action)
	if claimed != "" && !g.roleInPlay(claimed) {
		return ruleErrorf("action %s is not available in this game type", cmd.Action)
	}
	if actor.Cash < spec.Cost {
		return ruleErrorf("not enough cash to play %s", cmd.Action)
	}
	if actor.Cash >= minCashForcedCoup && cmd.Action != ActionCoup {
		return ruleErrorf("you must coup when holding %d or more cash", minCashForcedCoup)
	}
	target := -1
	if spec.Targeted {
		target = cmd.Target
		if target < 0 || target >= len(g.players) {
			return ruleErrorf("invalid target")
		}
		tp := g.players[target]
		if target == idx || tp.Observer || !tp.Alive() {
			return ruleErrorf("invalid target")
		}
	}

	actor.Cash -= spec.Cost

	message := actionMessage(idx, cmd.Action, target)
	if claimed == "" && len(g.blockingRoles(cmd.Action)) == 0 {
		// Neither challengeable nor blockable; resolves at once.
		g.resolveAction(idx, cmd.Action, target)
		return nil
	}
	g.state = &actionResponse{
		player:  idx,
		action:  cmd.Action,
		target:  target,
		message: message,
		allowed: make(map[int]bool),
	}
	return nil
}

func actionMessage(actor int, action ActionName, target int) string {
	switch action {
	case ActionIncome:
		return seatRef(actor) + " drew income"
	case ActionForeignAid:
		return seatRef(actor) + " attempted to draw foreign aid"
	case ActionTax:
		return seatRef(actor) + " attempted to draw tax"
	case ActionSteal:
		return seatRef(actor) + " attempted to steal from " + seatRef(target)
	case ActionAssassinate:
		return seatRef(actor) + " attempted to assassinate " + seatRef(target)
	case ActionExchange:
		return seatRef(actor) + " attempted to exchange roles"
	case ActionInterrogate:
		return seatRef(actor) + " attempted to interrogate " + seatRef(target)
	case ActionCoup:
		return seatRef(actor) + " staged a coup against " + seatRef(target)
	}
	return string(action)
}

// resolveAction applies the effect of an action once it is uncontested. It
// either ends the turn or parks the game in a follow-up state (reveal,
// exchange, interrogate).
func (g *Game) resolveAction(actor int, action ActionName, target int) {
	p := g.players[actor]
	switch action {
	case ActionIncome:
		p.Cash++
		g.logEvent(EventAction, g.turnGroupID(), seatRef(actor)+" drew income")
		g.nextTurn()

	case ActionForeignAid:
		p.Cash += 2
		g.logEvent(EventAction, g.turnGroupID(), seatRef(actor)+" drew foreign aid")
		g.nextTurn()

	case ActionTax:
		p.Cash += 3
		g.logEvent(EventAction, g.turnGroupID(), seatRef(actor)+" drew tax")
		g.nextTurn()

	case ActionSteal:
		tp := g.players[target]
		amount := tp.Cash
		if amount > 2 {
			amount = 2
		}
		tp.Cash -= amount
		p.Cash += amount
		g.logEvent(EventAction, g.turnGroupID(), seatRef(actor)+" stole from "+seatRef(target))
		g.nextTurn()

	case ActionAssassinate:
		g.logEvent(EventAction, g.turnGroupID(), seatRef(actor)+" assassinated "+seatRef(target))
		if g.loseInfluence(target, ReasonDeath, actor, action, target, -1, "") {
			g.nextTurn()
		}

	case ActionCoup:
		g.logEvent(EventAction, g.turnGroupID(), seatRef(actor)+" staged a coup against "+seatRef(target))
		if g.loseInfluence(target, ReasonDeath, actor, action, target, -1, "") {
			g.nextTurn()
		}

	case ActionExchange:
		n := 1
		if g.roleInPlay(RoleAmbassador) {
			n = 2
		}
		drawn := make([]Role, 0, n)
		for i := 0; i < n; i++ {
			drawn = append(drawn, g.deck.Draw())
		}
		options := append(append([]Role(nil), drawn...), p.unrevealedRoles()...)
		g.state = &exchangeState{player: actor, drawn: drawn, options: options}

	case ActionInterrogate:
		tp := g.players[target]
		var slots []int
		for i, inf := range tp.Influence {
			if !inf.Revealed {
				slots = append(slots, i)
			}
		}
		slot := slots[g.rng.Intn(len(slots))]
		confession := tp.Influence[slot].Role
		g.state = &interrogateState{player: actor, target: target, confession: confession, slot: slot}
		g.logEvent(EventInterrogate, g.turnGroupID(), seatRef(actor)+" interrogated "+seatRef(target))
		g.logPrivateEvent(target, EventInterrogate, g.turnGroupID(),
			"your "+string(confession)+" was shown to "+seatRef(actor))
	}
}

// cmdAllow registers a seat's consent to the pending action or block. When
// every required seat has allowed, the move resolves.
func (g *Game) cmdAllow(idx int) error {
	if !g.players[idx].Alive() {
		return ruleErrorf("eliminated seats cannot respond")
	}
	switch s := g.state.(type) {
	case *actionResponse:
		if s.player == idx {
			return ruleErrorf("cannot allow your own action")
		}
		if s.allowed[idx] {
			return ruleErrorf("already allowed")
		}
		g.allowAction(s, idx)
		return nil
	case *blockResponse:
		if s.blocker == idx {
			return ruleErrorf("cannot allow your own block")
		}
		if s.allowed[idx] {
			return ruleErrorf("already allowed")
		}
		g.allowBlock(s, idx)
		return nil
	case *finalActionResponse:
		if s.target != idx {
			return ruleErrorf("only the targeted seat may respond now")
		}
		g.resolveAction(s.player, s.action, s.target)
		return nil
	default:
		return ruleErrorf("nothing to allow in state %s", g.state.name())
	}
}

func (g *Game) allowAction(s *actionResponse, idx int) {
	s.allowed[idx] = true
	if g.allResponded(s.allowed, s.player) {
		g.resolveAction(s.player, s.action, s.target)
	}
}

func (g *Game) allowBlock(s *blockResponse, idx int) {
	s.allowed[idx] = true
	if g.allResponded(s.allowed, s.blocker) {
		// The block stands; the original action is cancelled.
		g.logEvent(EventBlock, g.turnGroupID(),
			seatRef(s.blocker)+" blocked with "+string(s.blockingRole))
		g.nextTurn()
	}
}

// allResponded reports whether every living seat other than except has
// allowed.
func (g *Game) allResponded(allowed map[int]bool, except int) bool {
	for _, idx := range g.livingSeats() {
		if idx == except {
			continue
		}
		if !allowed[idx] {
			return false
		}
	}
	return true
}

// cmdBlock claims a blocking role against the pending action. Targeted
// actions may only be blocked by their target; foreign aid by anyone.
func (g *Game) cmdBlock(idx int, cmd *Command) error {
	var player, target int
	var action ActionName
	switch s := g.state.(type) {
	case *actionResponse:
		player, action, target = s.player, s.action, s.target
	case *finalActionResponse:
		if s.target != idx {
			return ruleErrorf("only the targeted seat may respond now")
		}
		player, action, target = s.player, s.action, s.target
	default:
		return ruleErrorf("nothing to block in state %s", g.state.name())
	}
	if idx == player {
		return ruleErrorf("cannot block your own action")
	}
	if !g.players[idx].Alive() {
		return ruleErrorf("eliminated seats cannot block")
	}
	blockers := g.blockingRoles(action)
	if len(blockers) == 0 {
		return ruleErrorf("action %s cannot be blocked", action)
	}
	if target >= 0 && idx != target {
		return ruleErrorf("only the target may block %s", action)
	}
	legal := false
	for _, r := range blockers {
		if r == cmd.BlockingRole {
			legal = true
			break
		}
	}
	if !legal {
		return ruleErrorf("%s cannot block %s", cmd.BlockingRole, action)
	}
	g.state = &blockResponse{
		player:       player,
		action:       action,
		target:       target,
		blocker:      idx,
		blockingRole: cmd.BlockingRole,
		message:      seatRef(idx) + " attempted to block with " + string(cmd.BlockingRole),
		allowed:      make(map[int]bool),
	}
	return nil
}

// cmdExchange completes a pending exchange: the actor keeps exactly
// influenceCount roles from the offer and the rest return to the deck.
func (g *Game) cmdExchange(idx int, cmd *Command) error {
	s, ok := g.state.(*exchangeState)
	if !ok {
		return ruleErrorf("no exchange in progress")
	}
	if s.player != idx {
		return ruleErrorf("not your exchange")
	}
	p := g.players[idx]
	if len(cmd.Roles) != p.InfluenceCount() {
		return ruleErrorf("must keep exactly %d roles", p.InfluenceCount())
	}

	// The chosen roles must be drawn from the offered multiset.
	pool := make(map[Role]int)
	for _, r := range s.options {
		pool[r]++
	}
	for _, r := range cmd.Roles {
		if pool[r] == 0 {
			return ruleErrorf("role %s is not among the offered options", r)
		}
		pool[r]--
	}

	chosen := append([]Role(nil), cmd.Roles...)
	for i := range p.Influence {
		if p.Influence[i].Revealed {
			continue
		}
		p.Influence[i].Role = chosen[0]
		chosen = chosen[1:]
	}
	var returned []Role
	for r, n := range pool {
		for i := 0; i < n; i++ {
			returned = append(returned, r)
		}
	}
	g.deck.ReturnAndShuffle(returned...)
	g.logEvent(EventExchange, g.turnGroupID(), seatRef(idx)+" exchanged roles")
	g.nextTurn()
	return nil
}

// cmdInterrogate completes a pending interrogation: the interrogator forces
// the confessed role to be swapped for a fresh card, or lets it stand.
func (g *Game) cmdInterrogate(idx int, cmd *Command) error {
	s, ok := g.state.(*interrogateState)
	if !ok {
		return ruleErrorf("no interrogation in progress")
	}
	if s.player != idx {
		return ruleErrorf("not your interrogation")
	}
	if cmd.ForceExchange {
		tp := g.players[s.target]
		g.deck.ReturnAndShuffle(s.confession)
		tp.Influence[s.slot].Role = g.deck.Draw()
		g.logEvent(EventInterrogate, g.turnGroupID(),
			seatRef(idx)+" forced "+seatRef(s.target)+" to exchange the shown role")
	} else {
		g.logEvent(EventInterrogate, g.turnGroupID(),
			seatRef(idx)+" let "+seatRef(s.target)+" keep the shown role")
	}
	g.nextTurn()
	return nil
}
