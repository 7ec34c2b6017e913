package abi

import (
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

func newTestDecoder() *ActionDecoder {
	return NewActionDecoder(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestActionDecoder_DecodeAction(t *testing.T) {
	decoder := newTestDecoder()
	account := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	votingAddr := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	t.Run("member change on main voting", func(t *testing.T) {
		data, err := bindings.PackMemberChange(domain.MemberChangeAddMember, account)
		require.NoError(t, err)

		decoded := decoder.DecodeAction(domain.Action{To: votingAddr, Data: data}, "main-voting")
		assert.Equal(t, "main-voting", decoded.To)
		assert.Equal(t, "MainVoting", decoded.Contract)
		assert.Equal(t, "addMember", decoded.Method)
		require.Len(t, decoded.Args, 1)
		assert.Equal(t, domain.DecodedArg{Name: "_account", Type: "address", Value: account.Hex()}, decoded.Args[0])
		assert.NotEmpty(t, decoded.Raw)
		assert.Equal(t, int64(0), decoded.Value.Int64())
	})

	t.Run("target picks the abi for shared selectors", func(t *testing.T) {
		data, err := bindings.MemberAccess().Pack("execute", big.NewInt(7))
		require.NoError(t, err)

		decoded := decoder.DecodeAction(domain.Action{To: votingAddr, Data: data}, "member-access")
		assert.Equal(t, "MemberAccess", decoded.Contract)
		assert.Equal(t, "execute", decoded.Method)
		require.Len(t, decoded.Args, 1)
		assert.Equal(t, "7", decoded.Args[0].Value)
	})

	t.Run("metadata bytes render as text", func(t *testing.T) {
		data, err := bindings.DAO().Pack("setMetadata", []byte("ipfs://space"))
		require.NoError(t, err)

		decoded := decoder.DecodeAction(domain.Action{To: votingAddr, Data: data}, "")
		assert.Equal(t, votingAddr.Hex(), decoded.To)
		assert.Equal(t, "DAO", decoded.Contract)
		assert.Equal(t, "setMetadata", decoded.Method)
		require.Len(t, decoded.Args, 1)
		assert.Equal(t, `"ipfs://space"`, decoded.Args[0].Value)
	})

	t.Run("plain transfer", func(t *testing.T) {
		decoded := decoder.DecodeAction(domain.Action{To: account, Value: big.NewInt(5)}, "carol")
		assert.Equal(t, "transfer", decoded.Method)
		assert.Empty(t, decoded.Contract)
		assert.Empty(t, decoded.Raw)
	})

	t.Run("unknown calldata", func(t *testing.T) {
		decoded := decoder.DecodeAction(domain.Action{To: account, Data: []byte{0xde, 0xad, 0xbe, 0xef, 0x01}}, "carol")
		assert.Equal(t, "unknown", decoded.Method)
		assert.Empty(t, decoded.Contract)
		assert.Equal(t, "0xdeadbeef01", decoded.Raw)
	})
}

func TestFormatValue(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")
	assert.Equal(t, addr.Hex(), formatValue(addr))
	assert.Equal(t, "0x00ff", formatValue([]byte{0x00, 0xff}))
	assert.Equal(t, "42", formatValue(big.NewInt(42)))
	assert.Equal(t, "true", formatValue(true))

	actions := bindings.FromDomainActions([]domain.Action{{To: addr, Data: []byte{0x01}}})
	assert.Equal(t, "["+addr.Hex()+":0:0x01]", formatValue(actions))
}
