package mainvoting

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
	contract := bindings.MainVoting()
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

	switch method.Name {
	case "createProposal":
		actions, err := bindings.ToDomainActions(args[1])
		if err != nil {
			return nil, err
		}
		id, err := p.CreateProposal(tx, CreateProposalParams{
			Metadata:          args[0].([]byte),
			Actions:           actions,
			AllowFailureMap:   args[2].(*big.Int),
			StartDate:         args[3].(uint64),
			EndDate:           args[4].(uint64),
			VoteOption:        domain.VoteOption(args[5].(uint8)),
			TryEarlyExecution: args[6].(bool),
		})
		if err != nil {
			return nil, err
		}
		return contract.PackOutputs(method.Name, new(big.Int).SetUint64(id))
	case "vote":
		return nil, p.Vote(tx, proposalID(args[0]), domain.VoteOption(args[1].(uint8)), args[2].(bool))
	case "execute":
		return nil, p.Execute(tx, proposalID(args[0]))
	case "cancelProposal":
		return nil, p.CancelProposal(tx, proposalID(args[0]))
	case "addEditor":
		return nil, p.AddEditor(tx, args[0].(common.Address))
	case "removeEditor":
		return nil, p.RemoveEditor(tx, args[0].(common.Address))
	case "addMember":
		return nil, p.AddMember(tx, args[0].(common.Address))
	case "removeMember":
		return nil, p.RemoveMember(tx, args[0].(common.Address))
	case "leaveSpace":
		return nil, p.LeaveSpace(tx)
	case "leaveSpaceAsEditor":
		return nil, p.LeaveSpaceAsEditor(tx)
	case "updateVotingSettings":
		settings, err := bindings.ToDomainVotingSettings(args[0])
		if err != nil {
			return nil, err
		}
		return nil, p.UpdateVotingSettings(tx, settings)
	case "proposeAddEditor", "proposeRemoveEditor", "proposeAddMember", "proposeRemoveMember":
		propose := map[string]func(*chain.Tx, []byte, common.Address) (uint64, error){
			"proposeAddEditor":    p.ProposeAddEditor,
			"proposeRemoveEditor": p.ProposeRemoveEditor,
			"proposeAddMember":    p.ProposeAddMember,
			"proposeRemoveMember": p.ProposeRemoveMember,
		}[method.Name]
		id, err := propose(tx, args[0].([]byte), args[1].(common.Address))
		if err != nil {
			return nil, err
		}
		return contract.PackOutputs(method.Name, new(big.Int).SetUint64(id))
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSelector, method.Name)
	}
}

func (p *Plugin) view(tx *chain.Tx, name string, args []any) ([]byte, error) {
	contract := bindings.MainVoting()
	switch name {
	case "isEditor":
		return contract.PackOutputs(name, p.IsEditor(args[0].(common.Address)))
	case "isMember":
		return contract.PackOutputs(name, p.IsMember(args[0].(common.Address)))
	case "canExecute":
		return contract.PackOutputs(name, p.CanExecute(proposalID(args[0]), tx.Timestamp()))
	case "canVote":
		ok := p.CanVote(proposalID(args[0]), args[1].(common.Address), domain.VoteOption(args[2].(uint8)), tx.Timestamp())
		return contract.PackOutputs(name, ok)
	case "totalVotingPower":
		block := args[0].(*big.Int)
		if !block.IsUint64() {
			return nil, fmt.Errorf("block %s out of range", block)
		}
		return contract.PackOutputs(name, new(big.Int).SetUint64(p.TotalVotingPower(block.Uint64())))
	case "proposalCount":
		return contract.PackOutputs(name, new(big.Int).SetUint64(p.ProposalCount()))
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSelector, name)
	}
}

// proposalID narrows a uint256 argument; ids that do not fit are never found
func proposalID(v any) uint64 {
	id := v.(*big.Int)
	if !id.IsUint64() {
		return math.MaxUint64
	}
	return id.Uint64()
}
