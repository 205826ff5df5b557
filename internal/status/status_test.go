package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLegalTransitions(t *testing.T) {
	legal := []struct{ from, to Status }{
		{Pending, Preparing},
		{Pending, Cancelled},
		{Preparing, Ready},
		{Preparing, Cancelled},
		{Ready, Completed},
		{Ready, Cancelled},
	}
	for _, tc := range legal {
		require.NoError(t, Transition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}
}

func TestIllegalTransitions(t *testing.T) {
	illegal := []struct{ from, to Status }{
		{Pending, Ready},
		{Pending, Completed},
		{Preparing, Pending},
		{Preparing, Completed},
		{Ready, Pending},
		{Ready, Preparing},
		{Cancelled, Pending},
	}
	for _, tc := range illegal {
		require.Error(t, Transition(tc.from, tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []Status{Completed, Cancelled} {
		require.True(t, Terminal(terminal))
		for _, to := range []Status{Pending, Preparing, Ready, Completed, Cancelled} {
			require.Error(t, Transition(terminal, to), "%s must not leave terminal state", to)
		}
	}
	for _, open := range []Status{Pending, Preparing, Ready} {
		require.False(t, Terminal(open))
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	require.False(t, Valid("shipped"))
	require.Error(t, Transition(Pending, "shipped"))
}
