package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_RegistersAllSubcommands(t *testing.T) {
	root := NewRootCmd()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"record", "play", "list", "cleanup", "copy", "analyze", "config"} {
		require.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}

func TestArgumentError_UnwrapsToUnderlyingError(t *testing.T) {
	err := argErrorf("bad flag: %s", "--foo")
	require.EqualError(t, err, "bad flag: --foo")
	require.EqualError(t, errors.Unwrap(err), "bad flag: --foo")
}
