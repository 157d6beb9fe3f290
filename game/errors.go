// game/errors.go
package game

import (
	"errors"
	"fmt"
)

// RuleError is the single error kind for every rejected command: illegal
// command for the current state, not-your-turn, insufficient cash, invalid
// target, unknown role, stale state id, malformed payload. A rejected command
// causes no state mutation and no broadcast.
type RuleError struct {
	msg string
}

func (e *RuleError) Error() string {
	return e.msg
}

func ruleErrorf(format string, args ...interface{}) error {
	return &RuleError{msg: fmt.Sprintf(format, args...)}
}

// IsRuleError reports whether err is a rule violation as opposed to an
// infrastructure failure.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}
