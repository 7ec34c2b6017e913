// Package dao is the space's DAO: a permission manager plus a generic
// action executor. Plugins never hold state-changing power of their own;
// they ask the DAO to execute actions on their behalf.
package dao

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// DAO holds permissions, metadata and the treasury
type DAO struct {
	initialized        bool
	permissions        map[permissionKey]common.Address
	metadata           []byte
	signatureValidator common.Address
	guard              chain.ReentrancyGuard

	log *slog.Logger
}

var _ chain.Contract = (*DAO)(nil)

// New creates an uninitialized DAO
func New(log *slog.Logger) *DAO {
	return &DAO{
		permissions: make(map[permissionKey]common.Address),
		log:         log.With("component", "dao"),
	}
}

// Initialize sets the metadata and grants ROOT_PERMISSION on the DAO to initialOwner.
// tx must execute as the DAO.
func (d *DAO) Initialize(tx *chain.Tx, metadata []byte, initialOwner common.Address) error {
	if d.initialized {
		return domain.ErrAlreadyInitialized
	}
	chain.Set(tx.Journal(), &d.initialized, true)
	d.setMetadata(tx, metadata)
	return d.grant(tx, tx.Self(), initialOwner, domain.RootPermissionID, domain.AllowFlag)
}

// Call dispatches ABI calldata
func (d *DAO) Call(tx *chain.Tx, input []byte) ([]byte, error) {
	if len(input) == 0 {
		// plain deposit
		return nil, nil
	}
	if !d.initialized {
		return nil, domain.ErrNotInitialized
	}

	contract := bindings.DAO()
	method, args, err := contract.Unpack(input)
	if err != nil {
		return nil, err
	}
	if method.IsConstant() {
		return d.view(tx, method.Name, args)
	}
	if v := tx.Value(); v.Sign() != 0 {
		return nil, fmt.Errorf("%s is not payable", method.Name)
	}

	call, err := bindings.DecodeDAOCall(input)
	if err != nil {
		return nil, err
	}
	self := tx.Self()

	switch call := call.(type) {
	case bindings.ExecuteCall:
		results, failureMap, err := d.Execute(tx, call.CallID, call.Actions, call.AllowFailureMap)
		if err != nil {
			return nil, err
		}
		return contract.PackOutputs("execute", results, failureMap)
	case bindings.GrantCall:
		if err := d.auth(tx, self, domain.RootPermissionID); err != nil {
			return nil, err
		}
		return nil, d.grant(tx, call.Where, call.Who, call.PermissionID, domain.AllowFlag)
	case bindings.GrantWithConditionCall:
		if err := d.auth(tx, self, domain.RootPermissionID); err != nil {
			return nil, err
		}
		return nil, d.grant(tx, call.Where, call.Who, call.PermissionID, call.Condition)
	case bindings.RevokeCall:
		if err := d.auth(tx, self, domain.RootPermissionID); err != nil {
			return nil, err
		}
		d.revoke(tx, call.Where, call.Who, call.PermissionID)
		return nil, nil
	case bindings.SetMetadataCall:
		if err := d.auth(tx, self, domain.SetMetadataPermissionID); err != nil {
			return nil, err
		}
		d.setMetadata(tx, call.Metadata)
		return nil, nil
	case bindings.SetSignatureValidatorCall:
		if err := d.auth(tx, self, domain.SetSignatureValidatorPermissionID); err != nil {
			return nil, err
		}
		chain.Set(tx.Journal(), &d.signatureValidator, call.Validator)
		tx.Emit(&domain.SignatureValidatorSetEvent{Validator: call.Validator})
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSelector, method.Name)
	}
}

func (d *DAO) view(tx *chain.Tx, name string, args []any) ([]byte, error) {
	contract := bindings.DAO()
	switch name {
	case "hasPermission":
		granted := d.isGranted(tx,
			args[0].(common.Address),
			args[1].(common.Address),
			common.Hash(args[2].([32]byte)),
			args[3].([]byte))
		return contract.PackOutputs(name, granted)
	case "getMetadata":
		return contract.PackOutputs(name, common.CopyBytes(d.metadata))
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSelector, name)
	}
}

// Execute runs actions in order on behalf of the sender, which must hold
// EXECUTE_PERMISSION for the current calldata. Bit i of allowFailureMap lets
// action i fail; its writes are reverted and bit i is set in the returned map.
func (d *DAO) Execute(tx *chain.Tx, callID common.Hash, actions []domain.Action, allowFailureMap *big.Int) ([][]byte, *big.Int, error) {
	release, err := d.guard.Enter(tx)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	if err := d.auth(tx, tx.Self(), domain.ExecutePermissionID); err != nil {
		return nil, nil, err
	}
	if len(actions) > domain.MaxActions {
		return nil, nil, fmt.Errorf("%w: %d > %d", domain.ErrTooManyActions, len(actions), domain.MaxActions)
	}
	if allowFailureMap == nil {
		allowFailureMap = new(big.Int)
	}

	results := make([][]byte, len(actions))
	failureMap := new(big.Int)
	for i, action := range actions {
		ret, err := tx.Call(action.To, action.Value, action.Data)
		if err != nil {
			if allowFailureMap.Bit(i) == 0 {
				return nil, nil, domain.ActionFailedErr{Index: i, Cause: err}
			}
			d.log.Debug("action failed, allowed", "index", i, "to", action.To, "error", err)
			failureMap.SetBit(failureMap, i, 1)
			ret = []byte{}
		}
		if ret == nil {
			ret = []byte{}
		}
		results[i] = ret
	}

	tx.Emit(&domain.ExecutedEvent{
		Actor:      tx.Sender(),
		CallID:     callID,
		Actions:    domain.CopyActions(actions),
		FailureMap: new(big.Int).Set(failureMap),
		Results:    results,
	})
	d.log.Debug("executed", "actor", tx.Sender(), "call", callID, "actions", len(actions), "failures", failureMap)
	return results, failureMap, nil
}

func (d *DAO) setMetadata(tx *chain.Tx, metadata []byte) {
	chain.Set(tx.Journal(), &d.metadata, common.CopyBytes(metadata))
	tx.Emit(&domain.MetadataSetEvent{Metadata: common.CopyBytes(metadata)})
}

// Metadata returns the DAO metadata
func (d *DAO) Metadata() []byte {
	return common.CopyBytes(d.metadata)
}

// SignatureValidator returns the configured signature validator
func (d *DAO) SignatureValidator() common.Address {
	return d.signatureValidator
}

// HasPermission reports whether who holds id on where for data
func (d *DAO) HasPermission(tx *chain.Tx, where, who common.Address, id common.Hash, data []byte) bool {
	return d.isGranted(tx, where, who, id, data)
}
