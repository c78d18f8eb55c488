package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
)

// IterateDumps iterates over all dumps collected by the Creator model in the
// specified directory, and passes ID and Reader of each dump into f.
func IterateDumps(dir string, f func(ID, *Reader)) error {
	var id ID
	var r Reader
	var streams dumpStreams

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}
		if e != nil {
			return e
		}

		if d.IsDir() {
			return nil
		}

		name := d.Name()

		if !strings.HasSuffix(name, sep+stateFileSuffix) {
			return nil
		}

		err := id.decodeString(name)
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", name, err)
		}

		err = initDumpStreams(&streams, filepath.Dir(path), id, true)
		if err != nil {
			return fmt.Errorf("init dump streams ('%s'): %w", name, err)
		}

		err = r.fromDumpStreams(streams.contract, streams.storageItems)
		streams.close()
		if err != nil {
			return fmt.Errorf("init dump reader ('%s'): %w", name, err)
		}

		f(id, &r)

		return nil
	})
}

type item struct {
	kind string
	k, v []byte
}

// Reader reads contract collected in the superior dump.
type Reader struct {
	state state.Contract
	items []item
}

func (x *Reader) fromDumpStreams(rContract, rStorageItems io.Reader) error {
	x.state = state.Contract{}
	x.items = x.items[:0]

	err := json.NewDecoder(rContract).Decode(&x.state)
	if err != nil {
		return fmt.Errorf("decode contract state from JSON: %w", err)
	}

	var rec []string
	var it item

	_csv := csv.NewReader(rStorageItems)
	_csv.FieldsPerRecord = 3
	_csv.ReuseRecord = true

	for {
		rec, err = _csv.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		it.kind = rec[0]

		it.k, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		it.v, err = _encoding.DecodeString(rec[2])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.items = append(x.items, it)
	}
}

// ContractState returns state of the dumped contract.
func (x *Reader) ContractState() state.Contract {
	return x.state
}

// IterateStorage passes all storage items of the dumped contract into f.
func (x *Reader) IterateStorage(f func(kind string, key, value []byte)) {
	for i := range x.items {
		f(x.items[i].kind, x.items[i].k, x.items[i].v)
	}
}

// Records decodes all dumped contract records. Service entries are skipped.
func (x *Reader) Records() ([]*subscription.Record, error) {
	var res []*subscription.Record

	for i := range x.items {
		if x.items[i].kind == KindService {
			continue
		}

		r, err := subscription.DecodeRecord(x.items[i].k, x.items[i].v)
		if err != nil {
			return nil, fmt.Errorf("decode storage item #%d: %w", i, err)
		}

		res = append(res, r)
	}

	return res, nil
}
