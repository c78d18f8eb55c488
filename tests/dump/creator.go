package dump

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// Creator dumps state of the Subscription contract. Output file format:
//
//	'<label>-<block>-contract.json': JSON contract state
//	'<label>-<block>-storage.csv': CSV of the contract storage
//
// Storage CSV are 'kind,key,value' where kind is one of Kind* constants and
// binary key-value are base64-encoded.
//
// Use IterateDumps to access existing dumps.
type Creator struct {
	dumpStreams

	storageItemsCSV *csv.Writer
}

// NewCreator returns Creator which dumps the contract into given directory.
// The dump is identified by specified ID. Resulting Creator should be closed
// when finished working with it.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	var res Creator

	err := initDumpStreams(&res.dumpStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.storageItemsCSV = csv.NewWriter(res.dumpStreams.storageItems)

	return &res, nil
}

// Write saves given binary key-value into the dump as storage item.
func (x *Creator) Write(key, value []byte) error {
	err := x.storageItemsCSV.Write([]string{
		itemKind(key, value),
		_encoding.EncodeToString(key),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write storage item as CSV data: %w", err)
	}

	return nil
}

// Flush saves contract state and flushes accumulated storage items to the
// file system.
func (x *Creator) Flush(st state.Contract) error {
	jEnc := json.NewEncoder(x.dumpStreams.contract)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(st)
	if err != nil {
		return fmt.Errorf("encode contract state to JSON: %w", err)
	}

	x.storageItemsCSV.Flush()

	err = x.storageItemsCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}
