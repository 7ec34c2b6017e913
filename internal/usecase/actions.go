package usecase

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/domain/ratio"
)

// ParseAction reads "to[:value[:0xcalldata]]". The target may be an account
// alias, a space role (dao, main-voting, member-access) or a hex address.
func ParseAction(s *Session, spec string) (domain.Action, error) {
	parts := strings.SplitN(strings.TrimSpace(spec), ":", 3)
	action := domain.Action{Value: new(big.Int), Data: []byte{}}

	to, err := s.resolveTarget(parts[0])
	if err != nil {
		return action, fmt.Errorf("action %q: %w", spec, err)
	}
	action.To = to

	if len(parts) > 1 && parts[1] != "" {
		value, ok := new(big.Int).SetString(parts[1], 10)
		if !ok || value.Sign() < 0 {
			return action, fmt.Errorf("action %q: invalid value %q", spec, parts[1])
		}
		action.Value = value
	}
	if len(parts) > 2 && parts[2] != "" {
		data, err := hexutil.Decode(parts[2])
		if err != nil {
			return action, fmt.Errorf("action %q: invalid calldata: %w", spec, err)
		}
		action.Data = data
	}
	return action, nil
}

// SettingsAction builds an action updating the main voting settings. Keys not
// present keep their current value.
func SettingsAction(s *Session, changes map[string]string) (domain.Action, error) {
	current := s.space.MainVoting.VotingSettings()
	section := config.VotingSection{
		Mode:             current.VotingMode.String(),
		SupportThreshold: fmt.Sprint(current.SupportThreshold),
		MinParticipation: fmt.Sprint(current.MinParticipation),
		Duration:         fmt.Sprint(current.Duration),
	}
	for key, value := range changes {
		switch strings.ReplaceAll(strings.ToLower(key), "-", "_") {
		case "mode", "voting_mode":
			section.Mode = value
		case "support_threshold", "support":
			section.SupportThreshold = value
		case "min_participation", "participation":
			section.MinParticipation = value
		case "duration":
			section.Duration = value
		default:
			return domain.Action{}, fmt.Errorf("unknown voting setting %q", key)
		}
	}

	settings, err := config.ParseVotingSection(section)
	if err != nil {
		return domain.Action{}, err
	}
	data, err := bindings.MainVoting().Pack("updateVotingSettings", bindings.FromDomainVotingSettings(settings))
	if err != nil {
		return domain.Action{}, err
	}
	return domain.Action{To: s.space.MainVotingAddress, Value: new(big.Int), Data: data}, nil
}

// MetadataAction builds an action replacing the DAO metadata
func MetadataAction(s *Session, metadata string) (domain.Action, error) {
	data, err := bindings.DAO().Pack("setMetadata", []byte(metadata))
	if err != nil {
		return domain.Action{}, err
	}
	return domain.Action{To: s.space.DAOAddress, Value: new(big.Int), Data: data}, nil
}

func (s *Session) resolveTarget(name string) (common.Address, error) {
	name = strings.TrimSpace(name)
	if addr, ok := s.space.Addresses()[name]; ok {
		return addr, nil
	}
	return s.ResolveAccount(name)
}

// FormatSettings renders voting settings the way space.toml spells them
func FormatSettings(v domain.VotingSettings) map[string]string {
	return map[string]string{
		"mode":              v.VotingMode.String(),
		"support_threshold": ratio.Format(v.SupportThreshold),
		"min_participation": ratio.Format(v.MinParticipation),
		"duration":          fmt.Sprintf("%ds", v.Duration),
	}
}
