package fs

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
)

func newTestTxLogStore(t *testing.T) *TxLogStoreAdapter {
	t.Helper()
	return NewTxLogStoreAdapter(&config.RuntimeConfig{DataDir: filepath.Join(t.TempDir(), ".spacegov")})
}

func TestTxLogStore_LoadMissing(t *testing.T) {
	store := newTestTxLogStore(t)

	log, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, log)
}

func TestTxLogStore_SaveAndLoad(t *testing.T) {
	store := newTestTxLogStore(t)
	ctx := context.Background()

	log := domain.NewTxLog(common.HexToHash("0xabc"))
	log.Block, log.Time = 7, 1_700_000_600
	log.Txs = append(log.Txs,
		domain.TxRecord{
			Block: 2,
			Time:  1_700_000_012,
			From:  common.HexToAddress("0x1000"),
			To:    common.HexToAddress("0x2000"),
			Data:  hexutil.Bytes{0xde, 0xad},
			Note:  "createProposal",
		},
		domain.TxRecord{
			Block: 3,
			Time:  1_700_000_024,
			From:  common.HexToAddress("0x1001"),
			To:    common.HexToAddress("0x2000"),
			Value: (*hexutil.Big)(big.NewInt(5)),
			Data:  hexutil.Bytes{},
		},
	)

	require.NoError(t, store.Save(ctx, log))
	assert.FileExists(t, store.Path())
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, log.GenesisHash, loaded.GenesisHash)
	assert.Equal(t, uint64(7), loaded.Block)
	require.Len(t, loaded.Txs, 2)
	assert.Equal(t, "createProposal", loaded.Txs[0].Note)
	assert.Equal(t, hexutil.Bytes{0xde, 0xad}, loaded.Txs[0].Data)
	assert.Nil(t, loaded.Txs[0].Value)
	assert.Equal(t, int64(5), loaded.Txs[1].Value.ToInt().Int64())
}

func TestTxLogStore_Reset(t *testing.T) {
	store := newTestTxLogStore(t)
	ctx := context.Background()

	// resetting nothing is fine
	require.NoError(t, store.Reset(ctx))

	require.NoError(t, store.Save(ctx, domain.NewTxLog(common.Hash{})))
	require.NoError(t, store.Reset(ctx))
	assert.NoFileExists(t, store.Path())
}

func TestTxLogStore_Corrupt(t *testing.T) {
	store := newTestTxLogStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse transaction log")
}
