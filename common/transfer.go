package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
)

// TransferGAS transfers amount of GAS and panics with panicMsg if the
// transfer is rejected. Zero amount is a no-op.
func TransferGAS(from, to interop.Hash160, amount int, data any, panicMsg string) {
	if amount == 0 {
		return
	}

	if !gas.Transfer(from, to, amount, data) {
		panic(panicMsg)
	}
}
