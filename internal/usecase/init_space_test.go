package usecase_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

// MockGenesisWriter is a mock implementation of GenesisWriter
type MockGenesisWriter struct {
	mock.Mock
}

func (m *MockGenesisWriter) GenesisExists(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockGenesisWriter) WriteGenesis(ctx context.Context, genesis *config.GenesisFile) (string, error) {
	args := m.Called(ctx, genesis)
	return args.String(0), args.Error(1)
}

// MockTxLogStore is a mock implementation of TxLogStore
type MockTxLogStore struct {
	mock.Mock
}

func (m *MockTxLogStore) Load(ctx context.Context) (*domain.TxLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TxLog), args.Error(1)
}

func (m *MockTxLogStore) Save(ctx context.Context, log *domain.TxLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockTxLogStore) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestInitSpace(t *testing.T) {
	ctx := context.Background()

	t.Run("writes defaults and resets history", func(t *testing.T) {
		writer := new(MockGenesisWriter)
		store := new(MockTxLogStore)
		writer.On("GenesisExists", ctx).Return(false)
		writer.On("WriteGenesis", ctx, mock.AnythingOfType("*config.GenesisFile")).Return("/tmp/space.toml", nil)
		store.On("Reset", ctx).Return(nil)

		res, err := usecase.NewInitSpace(writer, store).Run(ctx, usecase.InitSpaceParams{Members: []string{"dave"}})
		require.NoError(t, err)
		assert.Equal(t, "/tmp/space.toml", res.Path)

		g := res.Genesis
		assert.Equal(t, []string{"alice"}, g.Space.Editors)
		assert.Equal(t, []string{"dave"}, g.Space.Members)
		assert.Equal(t, "standard", g.Voting.Mode)
		assert.Equal(t, "168h", g.Multisig.ProposalDuration)
		assert.Equal(t, usecase.DevAccount("alice"), g.Accounts["alice"])
		assert.True(t, common.IsHexAddress(g.Accounts["dave"]))
		assert.NotEqual(t, g.Accounts["alice"], g.Accounts["dave"])

		writer.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		writer := new(MockGenesisWriter)
		writer.On("GenesisExists", ctx).Return(true)

		_, err := usecase.NewInitSpace(writer, new(MockTxLogStore)).Run(ctx, usecase.InitSpaceParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
		writer.AssertNotCalled(t, "WriteGenesis", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown mode before writing", func(t *testing.T) {
		writer := new(MockGenesisWriter)
		writer.On("GenesisExists", ctx).Return(true)

		_, err := usecase.NewInitSpace(writer, new(MockTxLogStore)).Run(ctx, usecase.InitSpaceParams{Mode: "chaos", Force: true})
		require.Error(t, err)
		writer.AssertNotCalled(t, "WriteGenesis", mock.Anything, mock.Anything)
	})
}

func TestDevAccount(t *testing.T) {
	assert.Equal(t, usecase.DevAccount("alice"), usecase.DevAccount("alice"))
	assert.NotEqual(t, usecase.DevAccount("alice"), usecase.DevAccount("bob"))
}

func TestResetSpace(t *testing.T) {
	ctx := context.Background()
	store := new(MockTxLogStore)
	store.On("Reset", ctx).Return(nil)

	require.NoError(t, usecase.NewResetSpace(store).Run(ctx))
	store.AssertExpectations(t)
}
