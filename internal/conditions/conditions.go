// Package conditions holds permission conditions: side-effect-free predicates
// the DAO consults before honouring a conditional grant.
package conditions

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// Condition decides whether a conditional grant applies to a specific call
type Condition interface {
	IsGranted(where, who common.Address, permissionID common.Hash, data []byte) bool
}

// ExecuteSelector only allows DAO execute calls whose every action targets
// one contract with one function selector.
type ExecuteSelector struct {
	Target   common.Address
	Selector [4]byte
}

// NewExecuteSelector creates an ExecuteSelector condition
func NewExecuteSelector(target common.Address, selector [4]byte) *ExecuteSelector {
	return &ExecuteSelector{Target: target, Selector: selector}
}

func (c *ExecuteSelector) IsGranted(_, _ common.Address, _ common.Hash, data []byte) bool {
	call, err := bindings.DecodeDAOCall(data)
	if err != nil {
		return false
	}
	exec, ok := call.(bindings.ExecuteCall)
	if !ok || len(exec.Actions) == 0 {
		return false
	}
	for _, action := range exec.Actions {
		if action.To != c.Target {
			return false
		}
		sel, ok := action.Selector()
		if !ok || sel != c.Selector {
			return false
		}
	}
	return true
}

func (c *ExecuteSelector) String() string {
	return fmt.Sprintf("execute(%s.%x)", c.Target.Hex(), c.Selector)
}

// GrantRevoke only allows direct DAO grant or revoke calls for one
// (where, permission) pair. The grantee is not constrained.
type GrantRevoke struct {
	Where        common.Address
	PermissionID common.Hash
}

// NewGrantRevoke creates a GrantRevoke condition
func NewGrantRevoke(where common.Address, permissionID common.Hash) *GrantRevoke {
	return &GrantRevoke{Where: where, PermissionID: permissionID}
}

func (c *GrantRevoke) IsGranted(_, _ common.Address, _ common.Hash, data []byte) bool {
	call, err := bindings.DecodeDAOCall(data)
	if err != nil {
		return false
	}
	switch call := call.(type) {
	case bindings.GrantCall:
		return call.Where == c.Where && call.PermissionID == c.PermissionID
	case bindings.RevokeCall:
		return call.Where == c.Where && call.PermissionID == c.PermissionID
	default:
		return false
	}
}

func (c *GrantRevoke) String() string {
	return fmt.Sprintf("grant/revoke(%s, %s)", c.Where.Hex(), c.PermissionID.Hex())
}

// AnyOf is granted when at least one of its conditions is
type AnyOf []Condition

func (a AnyOf) IsGranted(where, who common.Address, permissionID common.Hash, data []byte) bool {
	return lo.SomeBy(a, func(c Condition) bool {
		return c.IsGranted(where, who, permissionID, data)
	})
}

func (a AnyOf) String() string {
	parts := lo.Map(a, func(c Condition, _ int) string {
		if s, ok := c.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("%T", c)
	})
	return "any(" + strings.Join(parts, ", ") + ")"
}
