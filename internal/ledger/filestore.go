package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/types"
)

// FileStore keeps the ledger as one JSON document. Saves go through a temp
// file and a rename so readers never see a partial write.
type FileStore struct {
	path string
}

var _ interfaces.TradeStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load returns an empty ledger when the file does not exist yet.
func (s *FileStore) Load(ctx context.Context) ([]types.Trade, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []types.Trade{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return []types.Trade{}, nil
	}

	var trades []types.Trade
	if err := json.Unmarshal(b, &trades); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return trades, nil
}

func (s *FileStore) Save(ctx context.Context, trades []types.Trade) error {
	if trades == nil {
		trades = []types.Trade{}
	}
	b, err := json.MarshalIndent(trades, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
