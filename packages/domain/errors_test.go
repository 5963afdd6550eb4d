package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOfThroughWrapping(t *testing.T) {
	base := NewFault(ParseFault, "find title", "h1", ErrNotFound)
	wrapped := fmt.Errorf("extract: %w", base)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	require.Equal(t, ParseFault, kind)
	require.ErrorIs(t, wrapped, ErrNotFound)

	_, ok = KindOf(errors.New("plain"))
	require.False(t, ok)
}

func TestFaultError(t *testing.T) {
	f := NewFault(NetworkFault, "fetch", "http://x", ErrBadStatus)
	require.Equal(t, `network fault: fetch "http://x": bad status code`, f.Error())

	f = NewFault(FilesystemFault, "write transcript", "", ErrInvalidFilename)
	require.Equal(t, "filesystem fault: write transcript: invalid filename", f.Error())
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{NewFault(NetworkFault, "fetch", "", ErrBadStatus), 2},
		{fmt.Errorf("run: %w", NewFault(ParseFault, "find", "", ErrNotFound)), 3},
		{NewFault(FilesystemFault, "write", "", ErrInvalidFilename), 4},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, ExitCode(tc.err))
	}
}
