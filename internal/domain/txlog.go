package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TxLog is the recorded history of a space. Replaying it on top of the
// genesis rebuilds the exact same state.
type TxLog struct {
	GenesisHash common.Hash `json:"genesisHash"`
	// clock of the last command, which may be ahead of the last transaction
	Block uint64     `json:"block"`
	Time  uint64     `json:"time"`
	Txs   []TxRecord `json:"transactions"`
}

// TxRecord is one committed top-level transaction
type TxRecord struct {
	Block uint64         `json:"block"`
	Time  uint64         `json:"time"`
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value,omitempty"`
	Data  hexutil.Bytes  `json:"data"`
	Note  string         `json:"note,omitempty"`
}

// NewTxLog creates an empty log bound to a genesis
func NewTxLog(genesis common.Hash) *TxLog {
	return &TxLog{GenesisHash: genesis, Txs: []TxRecord{}}
}

// Empty reports whether nothing was recorded yet
func (l *TxLog) Empty() bool {
	return l == nil || (len(l.Txs) == 0 && l.Block == 0)
}
