// game/roles.go
package game

// Role is a role card tag. The two sentinel values never appear in the deck:
// RoleUnknown replaces other seats' unrevealed cards in masked snapshots and
// RoleNotDealt fills influence slots before the game starts.
type Role string

const (
	RoleDuke       Role = "duke"
	RoleAssassin   Role = "assassin"
	RoleCaptain    Role = "captain"
	RoleContessa   Role = "contessa"
	RoleAmbassador Role = "ambassador"
	RoleInquisitor Role = "inquisitor"

	RoleUnknown  Role = "unknown"
	RoleNotDealt Role = "not dealt"
)

// GameType selects the fifth role in play.
type GameType string

const (
	GameTypeOriginal    GameType = "original"    // base four + ambassador
	GameTypeInquisitors GameType = "inquisitors" // base four + inquisitor
)

func rolesForGameType(gt GameType) ([]Role, error) {
	switch gt {
	case GameTypeOriginal, "":
		return []Role{RoleDuke, RoleAssassin, RoleCaptain, RoleContessa, RoleAmbassador}, nil
	case GameTypeInquisitors:
		return []Role{RoleDuke, RoleAssassin, RoleCaptain, RoleContessa, RoleInquisitor}, nil
	default:
		return nil, ruleErrorf("unknown game type %q", gt)
	}
}

// ActionName identifies a turn action.
type ActionName string

const (
	ActionIncome      ActionName = "income"
	ActionForeignAid  ActionName = "foreign-aid"
	ActionTax         ActionName = "tax"
	ActionSteal       ActionName = "steal"
	ActionAssassinate ActionName = "assassinate"
	ActionExchange    ActionName = "exchange"
	ActionInterrogate ActionName = "interrogate"
	ActionCoup        ActionName = "coup"
)

// actionSpec describes the static rules of one action. Role is the claim the
// actor makes by playing it; an empty Role means the action cannot be
// challenged. BlockedBy lists every role that may block it in any game type;
// the engine filters by the roles actually in play.
type actionSpec struct {
	Cost      int
	Gain      int
	Role      Role
	Targeted  bool
	BlockedBy []Role
}

var actionTable = map[ActionName]actionSpec{
	ActionIncome:      {Gain: 1},
	ActionForeignAid:  {Gain: 2, BlockedBy: []Role{RoleDuke}},
	ActionTax:         {Gain: 3, Role: RoleDuke},
	ActionSteal:       {Role: RoleCaptain, Targeted: true, BlockedBy: []Role{RoleCaptain, RoleAmbassador, RoleInquisitor}},
	ActionAssassinate: {Cost: 3, Role: RoleAssassin, Targeted: true, BlockedBy: []Role{RoleContessa}},
	ActionExchange:    {Role: RoleAmbassador}, // claim becomes inquisitor in the inquisitors game type
	ActionInterrogate: {Role: RoleInquisitor, Targeted: true},
	ActionCoup:        {Cost: 7, Targeted: true},
}

// minCashForcedCoup is the treasury size at which coup becomes mandatory.
const minCashForcedCoup = 10

func (g *Game) roleInPlay(role Role) bool {
	for _, r := range g.roles {
		if r == role {
			return true
		}
	}
	return false
}

// claimedRole returns the role the actor implicitly claims by playing the
// action, adjusted for the role set in play. Empty when not role-gated.
func (g *Game) claimedRole(action ActionName) Role {
	spec, ok := actionTable[action]
	if !ok {
		return ""
	}
	if action == ActionExchange && g.roleInPlay(RoleInquisitor) {
		return RoleInquisitor
	}
	return spec.Role
}

// blockingRoles returns the roles in play that may block the action.
func (g *Game) blockingRoles(action ActionName) []Role {
	spec, ok := actionTable[action]
	if !ok {
		return nil
	}
	var roles []Role
	for _, r := range spec.BlockedBy {
		if g.roleInPlay(r) {
			roles = append(roles, r)
		}
	}
	return roles
}
