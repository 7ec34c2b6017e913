package bindings

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/domain"
)

// DAOCall is one decoded call on the DAO. Exactly one of the concrete
// variants below implements it for a given selector.
type DAOCall interface {
	daoCall()
	Method() string
}

// ExecuteCall is execute(bytes32,(address,uint256,bytes)[],uint256)
type ExecuteCall struct {
	CallID          common.Hash
	Actions         []domain.Action
	AllowFailureMap *big.Int
}

// GrantCall is grant(address,address,bytes32)
type GrantCall struct {
	Where        common.Address
	Who          common.Address
	PermissionID common.Hash
}

// RevokeCall is revoke(address,address,bytes32)
type RevokeCall struct {
	Where        common.Address
	Who          common.Address
	PermissionID common.Hash
}

// GrantWithConditionCall is grantWithCondition(address,address,bytes32,address)
type GrantWithConditionCall struct {
	Where        common.Address
	Who          common.Address
	PermissionID common.Hash
	Condition    common.Address
}

// SetMetadataCall is setMetadata(bytes)
type SetMetadataCall struct {
	Metadata []byte
}

// SetSignatureValidatorCall is setSignatureValidator(address)
type SetSignatureValidatorCall struct {
	Validator common.Address
}

func (ExecuteCall) daoCall()               {}
func (GrantCall) daoCall()                 {}
func (RevokeCall) daoCall()                {}
func (GrantWithConditionCall) daoCall()    {}
func (SetMetadataCall) daoCall()           {}
func (SetSignatureValidatorCall) daoCall() {}

func (ExecuteCall) Method() string               { return "execute" }
func (GrantCall) Method() string                 { return "grant" }
func (RevokeCall) Method() string                { return "revoke" }
func (GrantWithConditionCall) Method() string    { return "grantWithCondition" }
func (SetMetadataCall) Method() string           { return "setMetadata" }
func (SetSignatureValidatorCall) Method() string { return "setSignatureValidator" }

// DecodeDAOCall decodes calldata addressed to the DAO. Short, malformed or
// unknown calldata yields an error, never a panic.
func DecodeDAOCall(data []byte) (call DAOCall, err error) {
	defer func() {
		if r := recover(); r != nil {
			call, err = nil, domain.DecodeErr{Reason: fmt.Sprintf("%v", r)}
		}
	}()

	method, args, err := DAO().Unpack(data)
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "execute":
		actions, err := ToDomainActions(args[1])
		if err != nil {
			return nil, err
		}
		return ExecuteCall{
			CallID:          common.Hash(args[0].([32]byte)),
			Actions:         actions,
			AllowFailureMap: args[2].(*big.Int),
		}, nil
	case "grant":
		return GrantCall{
			Where:        args[0].(common.Address),
			Who:          args[1].(common.Address),
			PermissionID: common.Hash(args[2].([32]byte)),
		}, nil
	case "revoke":
		return RevokeCall{
			Where:        args[0].(common.Address),
			Who:          args[1].(common.Address),
			PermissionID: common.Hash(args[2].([32]byte)),
		}, nil
	case "grantWithCondition":
		return GrantWithConditionCall{
			Where:        args[0].(common.Address),
			Who:          args[1].(common.Address),
			PermissionID: common.Hash(args[2].([32]byte)),
			Condition:    args[3].(common.Address),
		}, nil
	case "setMetadata":
		return SetMetadataCall{Metadata: args[0].([]byte)}, nil
	case "setSignatureValidator":
		return SetSignatureValidatorCall{Validator: args[0].(common.Address)}, nil
	default:
		return nil, domain.DecodeErr{Reason: fmt.Sprintf("%s is not a state-changing DAO call", method.Name)}
	}
}

// PackExecute encodes a DAO execute call
func PackExecute(callID common.Hash, actions []domain.Action, allowFailureMap *big.Int) ([]byte, error) {
	if allowFailureMap == nil {
		allowFailureMap = new(big.Int)
	}
	return DAO().Pack("execute", [32]byte(callID), FromDomainActions(actions), allowFailureMap)
}

// PackGrant encodes a DAO grant call
func PackGrant(where, who common.Address, permissionID common.Hash) ([]byte, error) {
	return DAO().Pack("grant", where, who, [32]byte(permissionID))
}

// PackRevoke encodes a DAO revoke call
func PackRevoke(where, who common.Address, permissionID common.Hash) ([]byte, error) {
	return DAO().Pack("revoke", where, who, [32]byte(permissionID))
}

// PackGrantWithCondition encodes a DAO grantWithCondition call
func PackGrantWithCondition(where, who common.Address, permissionID common.Hash, condition common.Address) ([]byte, error) {
	return DAO().Pack("grantWithCondition", where, who, [32]byte(permissionID), condition)
}

// PackIsGranted encodes a condition query
func PackIsGranted(where, who common.Address, permissionID common.Hash, data []byte) ([]byte, error) {
	if data == nil {
		data = []byte{}
	}
	return PermissionCondition().Pack("isGranted", where, who, [32]byte(permissionID), data)
}

// UnpackBool decodes a single bool return value; anything else is false
func UnpackBool(c *Contract, method string, ret []byte) bool {
	out, err := c.UnpackOutputs(method, ret)
	if err != nil || len(out) != 1 {
		return false
	}
	b, ok := out[0].(bool)
	return ok && b
}

// PackMemberChange encodes the single action a member approval proposal carries
func PackMemberChange(kind domain.MemberChangeKind, account common.Address) ([]byte, error) {
	method, err := MemberChangeMethod(kind)
	if err != nil {
		return nil, err
	}
	return MainVoting().Pack(method, account)
}

// MemberChangeMethod names the majority voting plugin method applying kind
func MemberChangeMethod(kind domain.MemberChangeKind) (string, error) {
	switch kind {
	case domain.MemberChangeAddMember:
		return "addMember", nil
	case domain.MemberChangeRemoveMember:
		return "removeMember", nil
	case domain.MemberChangeAddEditor:
		return "addEditor", nil
	case domain.MemberChangeRemoveEditor:
		return "removeEditor", nil
	default:
		return "", fmt.Errorf("%w: %d", domain.ErrInvalidMemberChange, kind)
	}
}
