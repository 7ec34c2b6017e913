// Package governance holds what both governance plugins share: permission
// checks against the DAO, execution through the DAO and settings bounds.
package governance

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

const (
	MinDuration uint64 = 60 * 60
	MaxDuration uint64 = 365 * 24 * 60 * 60
)

// CheckDuration validates a voting or proposal duration in seconds
func CheckDuration(seconds uint64) error {
	if seconds < MinDuration || seconds > MaxDuration {
		return fmt.Errorf("%w: %ds not in [%d, %d]", domain.ErrDurationOutOfBounds, seconds, MinDuration, MaxDuration)
	}
	return nil
}

// Auth asks the DAO whether the sender holds id on the executing plugin for the current calldata
func Auth(tx *chain.Tx, dao common.Address, id common.Hash) error {
	input := tx.Input()
	if input == nil {
		input = []byte{}
	}
	query, err := bindings.DAO().Pack("hasPermission", tx.Self(), tx.Sender(), [32]byte(id), input)
	if err != nil {
		return err
	}
	ret, err := tx.StaticCall(dao, query)
	if err != nil {
		return fmt.Errorf("permission check failed: %w", err)
	}
	if !bindings.UnpackBool(bindings.DAO(), "hasPermission", ret) {
		return domain.DaoUnauthorizedErr{
			DAO:          dao,
			Where:        tx.Self(),
			Who:          tx.Sender(),
			PermissionID: id,
		}
	}
	return nil
}

// ExecuteOnDAO asks the DAO to run actions under call id bytes32(proposalID)
func ExecuteOnDAO(tx *chain.Tx, dao common.Address, proposalID uint64, actions []domain.Action, allowFailureMap *big.Int) error {
	callID := common.BigToHash(new(big.Int).SetUint64(proposalID))
	data, err := bindings.PackExecute(callID, actions, allowFailureMap)
	if err != nil {
		return err
	}
	if _, err := tx.Call(dao, nil, data); err != nil {
		return fmt.Errorf("dao execute: %w", err)
	}
	return nil
}
