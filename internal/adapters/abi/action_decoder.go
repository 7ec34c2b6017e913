package abi

import (
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
	"github.com/spacegov/spacegov/internal/usecase"
)

type knownContract struct {
	role     string
	name     string
	contract *bindings.Contract
}

// ActionDecoder decodes proposal actions against the space contract ABIs
type ActionDecoder struct {
	contracts []knownContract
	log       *slog.Logger
}

// NewActionDecoder creates a new action decoder
func NewActionDecoder(log *slog.Logger) *ActionDecoder {
	return &ActionDecoder{
		contracts: []knownContract{
			{role: "main-voting", name: "MainVoting", contract: bindings.MainVoting()},
			{role: "member-access", name: "MemberAccess", contract: bindings.MemberAccess()},
			{role: "dao", name: "DAO", contract: bindings.DAO()},
		},
		log: log.With("component", "ActionDecoder"),
	}
}

// DecodeAction decodes the calldata of action. When target names a space
// contract only that ABI is tried; otherwise the first ABI knowing the
// selector wins.
func (d *ActionDecoder) DecodeAction(action domain.Action, target string) *domain.DecodedAction {
	decoded := &domain.DecodedAction{
		To:    target,
		Value: action.Value,
	}
	if decoded.To == "" {
		decoded.To = action.To.Hex()
	}
	if decoded.Value == nil {
		decoded.Value = new(big.Int)
	}
	if len(action.Data) == 0 {
		if decoded.Value.Sign() > 0 {
			decoded.Method = "transfer"
		}
		return decoded
	}
	decoded.Raw = hexutil.Encode(action.Data)

	for _, c := range d.candidates(target) {
		method, args, err := c.contract.Unpack(action.Data)
		if err != nil {
			d.log.Debug("calldata does not match", "contract", c.name, "err", err)
			continue
		}
		decoded.Contract = c.name
		decoded.Method = method.RawName
		for i, input := range method.Inputs {
			if i >= len(args) {
				break
			}
			decoded.Args = append(decoded.Args, domain.DecodedArg{
				Name:  input.Name,
				Type:  input.Type.String(),
				Value: formatValue(args[i]),
			})
		}
		return decoded
	}
	decoded.Method = "unknown"
	return decoded
}

func (d *ActionDecoder) candidates(target string) []knownContract {
	for _, c := range d.contracts {
		if c.role == target {
			return []knownContract{c}
		}
	}
	return d.contracts
}

// formatValue renders a decoded ABI value for display
func formatValue(v any) string {
	switch val := v.(type) {
	case common.Address:
		return val.Hex()
	case []byte:
		if isPrintable(val) {
			return fmt.Sprintf("%q", string(val))
		}
		return hexutil.Encode(val)
	case [32]byte:
		return hexutil.Encode(val[:])
	case [4]byte:
		return hexutil.Encode(val[:])
	case *big.Int:
		return val.String()
	case bool:
		return fmt.Sprintf("%t", val)
	case string:
		return fmt.Sprintf("%q", val)
	default:
		if actions, err := bindings.ToDomainActions(v); err == nil {
			return formatActions(actions)
		}
		if settings, err := bindings.ToDomainVotingSettings(v); err == nil {
			return fmt.Sprintf("{mode: %s, support: %d, participation: %d, duration: %ds}",
				settings.VotingMode, settings.SupportThreshold, settings.MinParticipation, settings.Duration)
		}
		return fmt.Sprintf("%v", v)
	}
}

func formatActions(actions []domain.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("%s:%s:%s", a.To.Hex(), a.Value, hexutil.Encode(a.Data))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func isPrintable(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// Ensure ActionDecoder implements ActionDecoder
var _ usecase.ActionDecoder = (*ActionDecoder)(nil)
