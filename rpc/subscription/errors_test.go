package subscription

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFault(t *testing.T) {
	require.NoError(t, ParseFault(nil))

	other := errors.New("connection refused")
	require.Equal(t, other, ParseFault(other))

	for _, e := range faults {
		invokeErr := errors.New(`at instruction 1042 (THROW): unhandled exception: "` + e.Error() + `"`)

		err := ParseFault(invokeErr)
		require.ErrorIs(t, err, e)
		require.ErrorIs(t, err, invokeErr)

		for _, other := range faults {
			if other != e {
				require.NotErrorIs(t, err, other)
			}
		}

		require.Equal(t, err, ParseFault(err))
	}
}

func TestParseFaultException(t *testing.T) {
	require.NoError(t, ParseFaultException(""))

	err := ParseFaultException(`at instruction 77 (THROW): unhandled exception: "subscription already paused"`)
	require.ErrorIs(t, err, ErrAlreadyPaused)

	err = ParseFaultException("gas limit exceeded")
	require.EqualError(t, err, "gas limit exceeded")
}
