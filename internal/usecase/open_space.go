package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/space"
)

// OpenSpace installs the genesis space and replays the transaction log.
// The session is built once per process.
type OpenSpace struct {
	cfg     *config.RuntimeConfig
	genesis GenesisLoader
	store   TxLogStore
	sink    ProgressSink
	log     *slog.Logger

	mu      sync.Mutex
	session *Session
}

// NewOpenSpace creates a new OpenSpace use case
func NewOpenSpace(cfg *config.RuntimeConfig, genesis GenesisLoader, store TxLogStore, sink ProgressSink, log *slog.Logger) *OpenSpace {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &OpenSpace{
		cfg:     cfg,
		genesis: genesis,
		store:   store,
		sink:    sink,
		log:     log,
	}
}

// Run returns the session, building it on first use
func (uc *OpenSpace) Run(ctx context.Context) (*Session, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.session != nil {
		return uc.session, nil
	}

	spaceCfg, hash, err := uc.genesis.LoadGenesis(ctx)
	if err != nil {
		return nil, err
	}

	txlog, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction log: %w", err)
	}
	if txlog == nil {
		txlog = domain.NewTxLog(hash)
	}
	if txlog.GenesisHash != hash {
		return nil, fmt.Errorf("%w: run 'spacegov reset' to start over", domain.ErrGenesisChanged)
	}

	rt := chain.NewRuntime(spaceCfg.GenesisTime, uc.log)
	s, err := space.Install(rt, spaceCfg, uc.log)
	if err != nil {
		return nil, fmt.Errorf("failed to install space: %w", err)
	}

	session := NewSession(rt, s, spaceCfg, txlog, uc.store, uc.cfg.Sender, uc.log)
	if err := session.replay(ctx, uc.sink); err != nil {
		uc.sink.Error("Replay failed")
		return nil, err
	}
	if n := len(txlog.Txs); n > 0 {
		uc.log.Debug("replayed transaction log", "transactions", n, "block", txlog.Block)
	}

	uc.session = session
	return session, nil
}
