package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

type memConfigStore struct {
	cfg *config.LocalConfig
}

func (s *memConfigStore) Exists() bool { return s.cfg != nil }

func (s *memConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	if s.cfg == nil {
		return config.DefaultLocalConfig(), nil
	}
	c := *s.cfg
	return &c, nil
}

func (s *memConfigStore) Save(ctx context.Context, cfg *config.LocalConfig) error {
	c := *cfg
	s.cfg = &c
	return nil
}

func (s *memConfigStore) GetPath() string { return "/p/.spacegov/config.local.json" }

func TestLocalConfig(t *testing.T) {
	ctx := context.Background()
	store := &memConfigStore{}

	shown, err := usecase.NewShowConfig(&config.RuntimeConfig{}, store).Run(ctx)
	require.NoError(t, err)
	assert.False(t, shown.Exists)
	assert.Equal(t, usecase.SourceUnset, shown.Effective[0].Source)

	_, err = usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "from"})
	assert.ErrorContains(t, err, "no config file found")

	set, err := usecase.NewSetConfig(store).Run(ctx, usecase.SetConfigParams{Key: "SENDER", Value: "bob"})
	require.NoError(t, err)
	assert.Equal(t, config.ConfigKeyFrom, set.Key)
	assert.Equal(t, "bob", set.UpdatedConfig.From)

	_, err = usecase.NewSetConfig(store).Run(ctx, usecase.SetConfigParams{Key: "timeout", Value: "soon"})
	assert.ErrorContains(t, err, "invalid timeout")
	_, err = usecase.NewSetConfig(store).Run(ctx, usecase.SetConfigParams{Key: "from", Value: "0x1234"})
	assert.ErrorContains(t, err, "invalid address")
	_, err = usecase.NewSetConfig(store).Run(ctx, usecase.SetConfigParams{Key: "network", Value: "x"})
	assert.ErrorContains(t, err, "from (sender), timeout")

	_, err = usecase.NewSetConfig(store).Run(ctx, usecase.SetConfigParams{Key: "timeout", Value: "2m"})
	require.NoError(t, err)

	// viper hands the file values back through the runtime config; --from overrides
	runtime := &config.RuntimeConfig{Sender: "alice", Timeout: 2 * time.Minute}
	shown, err = usecase.NewShowConfig(runtime, store).Run(ctx)
	require.NoError(t, err)
	assert.True(t, shown.Exists)
	assert.Equal(t, &config.LocalConfig{From: "bob", Timeout: "2m"}, shown.Config)
	assert.Equal(t, []usecase.EffectiveValue{
		{Key: config.ConfigKeyFrom, Value: "alice", Source: usecase.SourceOverride},
		{Key: config.ConfigKeyTimeout, Value: "2m0s", Source: usecase.SourceConfigFile},
	}, shown.Effective)

	removed, err := usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "from"})
	require.NoError(t, err)
	assert.Equal(t, "bob", removed.RemovedValue)
	assert.Empty(t, store.cfg.From)
	assert.Equal(t, "2m", store.cfg.Timeout)
}
