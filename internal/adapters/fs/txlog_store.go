package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

// TxLogFileName is the transaction log inside the data directory
const TxLogFileName = "txlog.json"

// TxLogStoreAdapter implements TxLogStore using the file system
type TxLogStoreAdapter struct {
	logPath string
}

// NewTxLogStoreAdapter creates a new TxLogStoreAdapter
func NewTxLogStoreAdapter(cfg *config.RuntimeConfig) *TxLogStoreAdapter {
	return &TxLogStoreAdapter{
		logPath: filepath.Join(cfg.DataDir, TxLogFileName),
	}
}

// Load reads the transaction log from disk. Returns nil if the file does not exist.
func (s *TxLogStoreAdapter) Load(_ context.Context) (*domain.TxLog, error) {
	data, err := os.ReadFile(s.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read transaction log: %w", err)
	}

	var log domain.TxLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("failed to parse transaction log %s: %w", s.logPath, err)
	}
	if log.Txs == nil {
		log.Txs = []domain.TxRecord{}
	}
	return &log, nil
}

// Save writes the transaction log to disk, creating the directory if needed
func (s *TxLogStoreAdapter) Save(_ context.Context, log *domain.TxLog) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transaction log: %w", err)
	}
	if err := writeFileAtomic(s.logPath, data); err != nil {
		return fmt.Errorf("failed to write transaction log: %w", err)
	}
	return nil
}

// Reset removes the transaction log from disk.
func (s *TxLogStoreAdapter) Reset(_ context.Context) error {
	err := os.Remove(s.logPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete transaction log: %w", err)
	}
	return nil
}

// Path returns the location of the log file
func (s *TxLogStoreAdapter) Path() string {
	return s.logPath
}

// Ensure TxLogStoreAdapter implements TxLogStore
var _ usecase.TxLogStore = (*TxLogStoreAdapter)(nil)
