package results

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
)

// Archive stores experiment records in Pebble as JSON, keyed
// <experiment>/<category>/<8-byte sequence>.
type Archive struct {
	db *pebble.DB
}

// OpenArchive opens (or creates) an archive at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the archive.
func (a *Archive) Close() error { return a.db.Close() }

func categoryPrefix(exp uuid.UUID, category string) []byte {
	return []byte(exp.String() + "/" + category + "/")
}

func recordKey(exp uuid.UUID, category string, seq uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return append(categoryPrefix(exp, category), b[:]...)
}

// keyUpperBound returns the smallest key greater than every key with prefix.
func keyUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// Save writes every category of s in one batch.
func (a *Archive) Save(s *Set) error {
	b := a.db.NewBatch()
	defer b.Close()

	for _, c := range s.Categories() {
		for i, r := range c.Rows {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("marshal %s record: %w", c.Name, err)
			}
			if err := b.Set(recordKey(s.Experiment, c.Name, uint64(i)), data, nil); err != nil {
				return fmt.Errorf("stage %s record: %w", c.Name, err)
			}
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit archive batch: %w", err)
	}
	return nil
}

// Load returns the raw JSON records of one category in insertion order.
func (a *Archive) Load(exp uuid.UUID, category string) ([]json.RawMessage, error) {
	prefix := categoryPrefix(exp, category)
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("iterate %s: %w", category, err)
	}
	defer iter.Close()

	var out []json.RawMessage
	for iter.First(); iter.Valid(); iter.Next() {
		out = append(out, append(json.RawMessage(nil), iter.Value()...))
	}
	return out, iter.Error()
}

// LoadTrades decodes the trade records of an experiment.
func (a *Archive) LoadTrades(exp uuid.UUID) ([]TradeRecord, error) {
	raw, err := a.Load(exp, CategoryTrade)
	if err != nil {
		return nil, err
	}
	out := make([]TradeRecord, 0, len(raw))
	for _, m := range raw {
		var r TradeRecord
		if err := json.Unmarshal(m, &r); err != nil {
			return nil, fmt.Errorf("unmarshal trade: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}
