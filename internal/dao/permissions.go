package dao

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

type permissionKey struct {
	where common.Address
	who   common.Address
	id    common.Hash
}

// Permission is one entry of the permission table
type Permission struct {
	Where        common.Address `json:"where"`
	Who          common.Address `json:"who"`
	PermissionID common.Hash    `json:"permissionId"`
	Name         string         `json:"name"`
	Condition    common.Address `json:"condition,omitempty"`
}

// Conditional reports whether the grant is subject to a condition contract
func (p Permission) Conditional() bool {
	return p.Condition != domain.AllowFlag
}

// isGranted resolves a permission, consulting a condition contract when the
// grant is conditional. data is the calldata the permission is checked for.
func (d *DAO) isGranted(tx *chain.Tx, where, who common.Address, id common.Hash, data []byte) bool {
	for _, key := range []permissionKey{
		{where, who, id},
		{where, domain.AnyAddress, id},
		{domain.AnyAddress, who, id},
	} {
		flag, ok := d.permissions[key]
		if !ok {
			continue
		}
		if flag == domain.AllowFlag {
			return true
		}
		if d.checkCondition(tx, flag, where, who, id, data) {
			return true
		}
	}
	return false
}

func (d *DAO) checkCondition(tx *chain.Tx, condition, where, who common.Address, id common.Hash, data []byte) bool {
	query, err := bindings.PackIsGranted(where, who, id, data)
	if err != nil {
		return false
	}
	ret, err := tx.StaticCall(condition, query)
	if err != nil {
		d.log.Debug("condition call failed", "condition", condition, "error", err)
		return false
	}
	return bindings.UnpackBool(bindings.PermissionCondition(), "isGranted", ret)
}

// auth fails unless the sender holds id on where for the current calldata
func (d *DAO) auth(tx *chain.Tx, where common.Address, id common.Hash) error {
	if !d.isGranted(tx, where, tx.Sender(), id, tx.Input()) {
		return domain.DaoUnauthorizedErr{
			DAO:          tx.Self(),
			Where:        where,
			Who:          tx.Sender(),
			PermissionID: id,
		}
	}
	return nil
}

func (d *DAO) grant(tx *chain.Tx, where, who common.Address, id common.Hash, condition common.Address) error {
	if where == domain.AnyAddress && who == domain.AnyAddress {
		return fmt.Errorf("%w: where and who cannot both be ANY_ADDR", domain.ErrUnauthorized)
	}
	if id == domain.RootPermissionID && (where == domain.AnyAddress || who == domain.AnyAddress) {
		return fmt.Errorf("%w: ROOT_PERMISSION cannot be granted to ANY_ADDR", domain.ErrUnauthorized)
	}
	if condition == (common.Address{}) {
		return fmt.Errorf("%w: condition", domain.ErrInvalidAddress)
	}
	if condition != domain.AllowFlag {
		if _, ok := tx.Contract(condition); !ok {
			return fmt.Errorf("%w: condition %s", domain.ErrNoContract, condition.Hex())
		}
	}

	key := permissionKey{where, who, id}
	current, ok := d.permissions[key]
	if ok {
		if current != condition {
			return fmt.Errorf("%w: %s on %s for %s", domain.ErrPermissionConflict,
				domain.PermissionName(id), where.Hex(), who.Hex())
		}
		return nil
	}

	chain.MapSet(tx.Journal(), d.permissions, key, condition)
	tx.Emit(&domain.PermissionEvent{
		Type:         domain.EventTypeGranted,
		PermissionID: id,
		Here:         tx.Self(),
		Where:        where,
		Who:          who,
		Condition:    condition,
	})
	d.log.Debug("granted", "permission", domain.PermissionName(id), "where", where, "who", who, "condition", condition)
	return nil
}

func (d *DAO) revoke(tx *chain.Tx, where, who common.Address, id common.Hash) {
	key := permissionKey{where, who, id}
	if _, ok := d.permissions[key]; !ok {
		return
	}
	chain.MapDelete(tx.Journal(), d.permissions, key)
	tx.Emit(&domain.PermissionEvent{
		Type:         domain.EventTypeRevoked,
		PermissionID: id,
		Here:         tx.Self(),
		Where:        where,
		Who:          who,
	})
	d.log.Debug("revoked", "permission", domain.PermissionName(id), "where", where, "who", who)
}

// Permissions lists the permission table in a stable order
func (d *DAO) Permissions() []Permission {
	out := make([]Permission, 0, len(d.permissions))
	for key, flag := range d.permissions {
		out = append(out, Permission{
			Where:        key.where,
			Who:          key.who,
			PermissionID: key.id,
			Name:         domain.PermissionName(key.id),
			Condition:    flag,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Where != out[j].Where {
			return out[i].Where.Cmp(out[j].Where) < 0
		}
		return out[i].Who.Cmp(out[j].Who) < 0
	})
	return out
}
