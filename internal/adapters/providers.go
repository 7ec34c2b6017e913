package adapters

import (
	"github.com/google/wire"

	"github.com/spacegov/spacegov/internal/adapters/abi"
	"github.com/spacegov/spacegov/internal/adapters/fs"
	"github.com/spacegov/spacegov/internal/adapters/interactive"
	"github.com/spacegov/spacegov/internal/adapters/progress"
	"github.com/spacegov/spacegov/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewTxLogStoreAdapter,
	wire.Bind(new(usecase.TxLogStore), new(*fs.TxLogStoreAdapter)),

	fs.NewGenesisStoreAdapter,
	wire.Bind(new(usecase.GenesisLoader), new(*fs.GenesisStoreAdapter)),
	wire.Bind(new(usecase.GenesisWriter), new(*fs.GenesisStoreAdapter)),

	fs.NewScenarioLoaderAdapter,
	wire.Bind(new(usecase.ScenarioLoader), new(*fs.ScenarioLoaderAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),
)

// ABISet provides calldata decoding
var ABISet = wire.NewSet(
	abi.NewActionDecoder,
	wire.Bind(new(usecase.ActionDecoder), new(*abi.ActionDecoder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.NewSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ABISet,
	InteractiveSet,
	ProgressSet,
)
