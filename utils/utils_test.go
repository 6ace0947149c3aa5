// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestToID(t *testing.T) {
	require := require.New(t)

	a := ToID([]byte("exchange"))
	require.Equal(a, ToID([]byte("exchange")))
	require.NotEqual(a, ToID([]byte("exchange2")))
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	p, err := InitSubDirectory(root, "logs")
	require.NoError(err)
	require.Equal(filepath.Join(root, "logs"), p)

	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())

	// idempotent
	_, err = InitSubDirectory(root, "logs")
	require.NoError(err)
}

func TestParseAmount(t *testing.T) {
	require := require.New(t)

	v, err := ParseAmount("1000000")
	require.NoError(err)
	require.Equal(uint256.NewInt(1_000_000), v)

	_, err = ParseAmount("-1")
	require.ErrorIs(err, ErrInvalidAmount)
	_, err = ParseAmount("1.5")
	require.ErrorIs(err, ErrInvalidAmount)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals uint8
		out      string
	}{
		{1_500_000, 6, "1.5"},
		{1_000_000, 6, "1"},
		{42, 6, "0.000042"},
		{0, 6, "0"},
		{42, 0, "42"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.out, FormatAmount(uint256.NewInt(tt.amount), tt.decimals))
	}
}

func TestHostPort(t *testing.T) {
	require := require.New(t)

	hp, err := HostPort("http://127.0.0.1:9650/ext/amm")
	require.NoError(err)
	require.Equal("127.0.0.1:9650", hp)

	_, err = HostPort("http://localhost")
	require.Error(err)
}
