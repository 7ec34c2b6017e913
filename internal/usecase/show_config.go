package usecase

import (
	"context"
	"time"

	"github.com/spacegov/spacegov/internal/domain/config"
)

// Where an effective setting comes from
const (
	SourceConfigFile = "config file"
	SourceOverride   = "flag or env"
	SourceUnset      = "not set"
)

// EffectiveValue is a setting as the current command sees it
type EffectiveValue struct {
	Key    config.ConfigKey `json:"key"`
	Value  string           `json:"value,omitempty"`
	Source string           `json:"source"`
}

// ShowConfigResult holds the stored config next to the values in effect
type ShowConfigResult struct {
	Config     *config.LocalConfig `json:"stored"`
	ConfigPath string              `json:"path"`
	Exists     bool                `json:"exists"`
	Effective  []EffectiveValue    `json:"effective"`
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	runtime *config.RuntimeConfig
	store   LocalConfigStore
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(runtime *config.RuntimeConfig, store LocalConfigStore) *ShowConfig {
	return &ShowConfig{runtime: runtime, store: store}
}

// Run loads the stored config and reports which values win for this command
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	stored, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var timeout string
	if uc.runtime.Timeout > 0 {
		timeout = uc.runtime.Timeout.String()
	}

	return &ShowConfigResult{
		Config:     stored,
		ConfigPath: uc.store.GetPath(),
		Exists:     uc.store.Exists(),
		Effective: []EffectiveValue{
			effective(config.ConfigKeyFrom, uc.runtime.Sender, stored.From, sameString),
			effective(config.ConfigKeyTimeout, timeout, stored.Timeout, sameDuration),
		},
	}, nil
}

func effective(key config.ConfigKey, inUse, stored string, same func(a, b string) bool) EffectiveValue {
	v := EffectiveValue{Key: key, Value: inUse}
	switch {
	case inUse == "":
		v.Source = SourceUnset
	case stored != "" && same(inUse, stored):
		v.Source = SourceConfigFile
	default:
		v.Source = SourceOverride
	}
	return v
}

func sameString(a, b string) bool { return a == b }

// sameDuration compares "1m0s" with "60s"
func sameDuration(a, b string) bool {
	da, errA := time.ParseDuration(a)
	db, errB := time.ParseDuration(b)
	return errA == nil && errB == nil && da == db
}
