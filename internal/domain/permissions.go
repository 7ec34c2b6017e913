package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ExecutePermissionID                = crypto.Keccak256Hash([]byte("EXECUTE_PERMISSION"))
	UpdateVotingSettingsPermissionID   = crypto.Keccak256Hash([]byte("UPDATE_VOTING_SETTINGS_PERMISSION"))
	UpdateAddressesPermissionID        = crypto.Keccak256Hash([]byte("UPDATE_ADDRESSES_PERMISSION"))
	UpgradePluginPermissionID          = crypto.Keccak256Hash([]byte("UPGRADE_PLUGIN_PERMISSION"))
	ProposerPermissionID               = crypto.Keccak256Hash([]byte("PROPOSER_PERMISSION"))
	UpdateMultisigSettingsPermissionID = crypto.Keccak256Hash([]byte("UPDATE_MULTISIG_SETTINGS_PERMISSION"))
	RootPermissionID                   = crypto.Keccak256Hash([]byte("ROOT_PERMISSION"))
	SetMetadataPermissionID            = crypto.Keccak256Hash([]byte("SET_METADATA_PERMISSION"))
	SetSignatureValidatorPermissionID  = crypto.Keccak256Hash([]byte("SET_SIGNATURE_VALIDATOR_PERMISSION"))
)

// AllowFlag marks an unconditional grant in the permission table.
// The zero address means "not granted".
var AllowFlag = common.HexToAddress("0x0000000000000000000000000000000000000002")

// AnyAddress can stand in for where or who in a grant
var AnyAddress = common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff")

var permissionNames = map[common.Hash]string{
	ExecutePermissionID:                "EXECUTE_PERMISSION",
	UpdateVotingSettingsPermissionID:   "UPDATE_VOTING_SETTINGS_PERMISSION",
	UpdateAddressesPermissionID:        "UPDATE_ADDRESSES_PERMISSION",
	UpgradePluginPermissionID:          "UPGRADE_PLUGIN_PERMISSION",
	ProposerPermissionID:               "PROPOSER_PERMISSION",
	UpdateMultisigSettingsPermissionID: "UPDATE_MULTISIG_SETTINGS_PERMISSION",
	RootPermissionID:                   "ROOT_PERMISSION",
	SetMetadataPermissionID:            "SET_METADATA_PERMISSION",
	SetSignatureValidatorPermissionID:  "SET_SIGNATURE_VALIDATOR_PERMISSION",
}

// PermissionName returns the readable name of a known permission id, or its hex form
func PermissionName(id common.Hash) string {
	if name, ok := permissionNames[id]; ok {
		return name
	}
	return id.Hex()
}

// PermissionByName resolves a permission name back to its id
func PermissionByName(name string) (common.Hash, bool) {
	for id, n := range permissionNames {
		if n == name {
			return id, true
		}
	}
	return common.Hash{}, false
}
