package memberaccess

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// Call dispatches ABI calldata
func (p *Plugin) Call(tx *chain.Tx, input []byte) ([]byte, error) {
	contract := bindings.MemberAccess()
	method, args, err := contract.Unpack(input)
	if err != nil {
		return nil, err
	}
	if method.IsConstant() {
		return p.view(tx, method.Name, args)
	}
	if v := tx.Value(); v.Sign() != 0 {
		return nil, fmt.Errorf("%s is not payable", method.Name)
	}

	var id uint64
	switch method.Name {
	case "proposeMemberChange":
		id, err = p.Propose(tx, args[0].([]byte), args[1].(common.Address), domain.MemberChangeKind(args[2].(uint8)))
	case "proposeMemberChangeFor":
		id, err = p.ProposeFor(tx, args[0].([]byte), args[1].(common.Address),
			domain.MemberChangeKind(args[2].(uint8)), args[3].(common.Address))
	case "approve":
		return nil, p.Approve(tx, proposalID(args[0]))
	case "reject":
		return nil, p.Reject(tx, proposalID(args[0]))
	case "execute":
		return nil, p.Execute(tx, proposalID(args[0]))
	case "updateMultisigSettings":
		settings, err := bindings.ToDomainMultisigSettings(args[0])
		if err != nil {
			return nil, err
		}
		return nil, p.UpdateMultisigSettings(tx, settings)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSelector, method.Name)
	}
	if err != nil {
		return nil, err
	}
	return contract.PackOutputs(method.Name, new(big.Int).SetUint64(id))
}

func (p *Plugin) view(tx *chain.Tx, name string, args []any) ([]byte, error) {
	contract := bindings.MemberAccess()
	switch name {
	case "canApprove":
		return contract.PackOutputs(name, p.CanApprove(tx, proposalID(args[0]), args[1].(common.Address)))
	case "canExecute":
		return contract.PackOutputs(name, p.CanExecute(proposalID(args[0]), tx.Timestamp()))
	case "proposalCount":
		return contract.PackOutputs(name, new(big.Int).SetUint64(p.ProposalCount()))
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSelector, name)
	}
}

func proposalID(v any) uint64 {
	id := v.(*big.Int)
	if !id.IsUint64() {
		return math.MaxUint64
	}
	return id.Uint64()
}
