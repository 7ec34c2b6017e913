package bindings

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/domain"
)

// ABI definitions are kept by hand in abi/*.json, one file per contract.
var (
	//go:embed abi/DAO.json
	daoABI string
	//go:embed abi/MainVoting.json
	mainVotingABI string
	//go:embed abi/MemberAccess.json
	memberAccessABI string
	//go:embed abi/PermissionCondition.json
	permissionConditionABI string
)

// DAOMetaData contains all meta data concerning the DAO contract.
var DAOMetaData = bind.MetaData{ABI: daoABI, ID: "DAO"}

// MainVotingMetaData contains all meta data concerning the MainVoting plugin.
var MainVotingMetaData = bind.MetaData{ABI: mainVotingABI, ID: "MainVoting"}

// MemberAccessMetaData contains all meta data concerning the MemberAccess plugin.
var MemberAccessMetaData = bind.MetaData{ABI: memberAccessABI, ID: "MemberAccess"}

// PermissionConditionMetaData contains all meta data concerning permission conditions.
var PermissionConditionMetaData = bind.MetaData{ABI: permissionConditionABI, ID: "PermissionCondition"}

// Action mirrors the (address,uint256,bytes) tuple used on the wire
type Action struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// VotingSettings mirrors the (uint8,uint32,uint32,uint64) settings tuple
type VotingSettings struct {
	VotingMode       uint8
	SupportThreshold uint32
	MinParticipation uint32
	Duration         uint64
}

// MultisigSettings mirrors the (uint64) settings tuple
type MultisigSettings struct {
	ProposalDuration uint64
}

// Contract wraps a parsed ABI with pack/unpack helpers
type Contract struct {
	abi abi.ABI
}

func newContract(md *bind.MetaData) *Contract {
	parsed, err := md.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &Contract{abi: *parsed}
}

// ABI returns the parsed ABI
func (c *Contract) ABI() *abi.ABI {
	return &c.abi
}

// Selector returns the 4-byte id of a method
func (c *Contract) Selector(method string) [4]byte {
	var sel [4]byte
	m, ok := c.abi.Methods[method]
	if !ok {
		panic(fmt.Sprintf("method %s not in ABI", method))
	}
	copy(sel[:], m.ID)
	return sel
}

// Pack encodes a call to method
func (c *Contract) Pack(method string, args ...any) ([]byte, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return data, nil
}

// Unpack resolves the method of calldata and decodes its arguments. It never panics.
func (c *Contract) Unpack(input []byte) (method *abi.Method, args []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			method, args = nil, nil
			err = domain.DecodeErr{Reason: fmt.Sprintf("%v", r)}
		}
	}()
	if len(input) < 4 {
		return nil, nil, domain.DecodeErr{Reason: "calldata shorter than a selector"}
	}
	method, err = c.abi.MethodById(input[:4])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %x", domain.ErrUnknownSelector, input[:4])
	}
	args, err = method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, nil, domain.DecodeErr{Reason: fmt.Sprintf("%s: %v", method.Name, err)}
	}
	return method, args, nil
}

// PackOutputs encodes the return values of method
func (c *Contract) PackOutputs(method string, values ...any) ([]byte, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %s not in ABI", method)
	}
	return m.Outputs.Pack(values...)
}

// UnpackOutputs decodes the return data of method
func (c *Contract) UnpackOutputs(method string, data []byte) ([]any, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %s not in ABI", method)
	}
	return m.Outputs.Unpack(data)
}

var (
	daoContract        = newContract(&DAOMetaData)
	mainVotingContract = newContract(&MainVotingMetaData)
	memberAccess       = newContract(&MemberAccessMetaData)
	conditionContract  = newContract(&PermissionConditionMetaData)
)

// DAO returns the DAO binding
func DAO() *Contract { return daoContract }

// MainVoting returns the majority voting plugin binding
func MainVoting() *Contract { return mainVotingContract }

// MemberAccess returns the member approval plugin binding
func MemberAccess() *Contract { return memberAccess }

// PermissionCondition returns the condition binding
func PermissionCondition() *Contract { return conditionContract }

// FromDomainActions converts actions to their wire form
func FromDomainActions(actions []domain.Action) []Action {
	out := make([]Action, len(actions))
	for i, a := range actions {
		value := a.Value
		if value == nil {
			value = new(big.Int)
		}
		out[i] = Action{To: a.To, Value: value, Data: a.Data}
	}
	return out
}

// ToDomainActions converts a decoded (address,uint256,bytes)[] argument
func ToDomainActions(v any) (actions []domain.Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			actions = nil
			err = domain.DecodeErr{Reason: fmt.Sprintf("actions: %v", r)}
		}
	}()
	wire, ok := abi.ConvertType(v, new([]Action)).(*[]Action)
	if !ok {
		return nil, domain.DecodeErr{Reason: fmt.Sprintf("actions: unexpected type %T", v)}
	}
	actions = make([]domain.Action, len(*wire))
	for i, a := range *wire {
		actions[i] = domain.Action{To: a.To, Value: a.Value, Data: a.Data}
	}
	return actions, nil
}

// FromDomainVotingSettings converts settings to their wire form
func FromDomainVotingSettings(s domain.VotingSettings) VotingSettings {
	return VotingSettings{
		VotingMode:       uint8(s.VotingMode),
		SupportThreshold: s.SupportThreshold,
		MinParticipation: s.MinParticipation,
		Duration:         s.Duration,
	}
}

// ToDomainVotingSettings converts a decoded settings tuple
func ToDomainVotingSettings(v any) (settings domain.VotingSettings, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.DecodeErr{Reason: fmt.Sprintf("voting settings: %v", r)}
		}
	}()
	wire, ok := abi.ConvertType(v, new(VotingSettings)).(*VotingSettings)
	if !ok {
		return settings, domain.DecodeErr{Reason: fmt.Sprintf("voting settings: unexpected type %T", v)}
	}
	return domain.VotingSettings{
		VotingMode:       domain.VotingMode(wire.VotingMode),
		SupportThreshold: wire.SupportThreshold,
		MinParticipation: wire.MinParticipation,
		Duration:         wire.Duration,
	}, nil
}

// ToDomainMultisigSettings converts a decoded multisig settings tuple
func ToDomainMultisigSettings(v any) (settings domain.MultisigSettings, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.DecodeErr{Reason: fmt.Sprintf("multisig settings: %v", r)}
		}
	}()
	wire, ok := abi.ConvertType(v, new(MultisigSettings)).(*MultisigSettings)
	if !ok {
		return settings, domain.DecodeErr{Reason: fmt.Sprintf("multisig settings: unexpected type %T", v)}
	}
	return domain.MultisigSettings{ProposalDuration: wire.ProposalDuration}, nil
}
