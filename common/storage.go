package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetTagged serializes data and puts it into contract storage prepended by
// the one-byte tag.
func SetTagged(ctx storage.Context, key []byte, tag byte, value any) {
	data := append([]byte{tag}, std.Serialize(value)...)
	storage.Put(ctx, key, data)
}

// GetTagged reads value stored by SetTagged. It returns nil if there is no
// value and panics with panicMsg if the stored tag differs.
func GetTagged(ctx storage.Context, key []byte, tag byte, panicMsg string) any {
	data := storage.Get(ctx, key)
	if data == nil {
		return nil
	}

	raw := data.([]byte)
	if len(raw) < 2 || raw[0] != tag {
		panic(panicMsg)
	}

	return std.Deserialize(raw[1:])
}

// GetInt returns integer stored by the key or def if there is no value.
func GetInt(ctx storage.Context, key []byte, def int) int {
	data := storage.Get(ctx, key)
	if data == nil {
		return def
	}

	return data.(int)
}
