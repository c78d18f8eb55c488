package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// CheckWitnessWithMessage checks witness of the passed account and panics
// with the given message on fail.
func CheckWitnessWithMessage(acc interop.Hash160, panicMsg string) {
	if len(acc) != interop.Hash160Len || !runtime.CheckWitness(acc) {
		panic(panicMsg)
	}
}
