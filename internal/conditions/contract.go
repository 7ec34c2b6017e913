package conditions

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// Contract deploys a Condition so the DAO can query it with isGranted calldata
type Contract struct {
	Condition Condition
}

var _ chain.Contract = (*Contract)(nil)

// NewContract wraps cond for deployment
func NewContract(cond Condition) *Contract {
	return &Contract{Condition: cond}
}

func (c *Contract) Call(tx *chain.Tx, input []byte) ([]byte, error) {
	if v := tx.Value(); v.Cmp(big.NewInt(0)) != 0 {
		return nil, fmt.Errorf("condition does not accept value")
	}
	method, args, err := bindings.PermissionCondition().Unpack(input)
	if err != nil {
		return nil, err
	}
	if method.Name != "isGranted" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSelector, method.Name)
	}
	granted := c.Condition.IsGranted(
		args[0].(common.Address),
		args[1].(common.Address),
		common.Hash(args[2].([32]byte)),
		args[3].([]byte),
	)
	return bindings.PermissionCondition().PackOutputs("isGranted", granted)
}

func (c *Contract) String() string {
	if s, ok := c.Condition.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c.Condition)
}
