package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/etnz/loanbook"
)

// DefaultKey is the key the loan book snapshot is stored under.
const DefaultKey = "loans.json"

// Snapshots persists the whole loan book as one JSON blob.
type Snapshots struct {
	Blob Blob
	Key  string
}

var _ loanbook.Persister = Snapshots{}

func (s Snapshots) key() string {
	if s.Key == "" {
		return DefaultKey
	}
	return s.Key
}

// Load reads the snapshot. A missing snapshot is an empty book.
func (s Snapshots) Load(ctx context.Context) ([]*loanbook.Loan, error) {
	data, err := s.Blob.Get(ctx, s.key())
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loanbook.DecodeLoans(bytes.NewReader(data))
}

// Save replaces the snapshot with loans.
func (s Snapshots) Save(ctx context.Context, loans []*loanbook.Loan) error {
	var buf bytes.Buffer
	if err := loanbook.EncodeLoans(&buf, loans); err != nil {
		return err
	}
	if err := s.Blob.Put(ctx, s.key(), buf.Bytes()); err != nil {
		return fmt.Errorf("cannot store snapshot %q: %w", s.key(), err)
	}
	return nil
}
