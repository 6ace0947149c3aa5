// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package safemath

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		out     string
		wantErr bool
	}{
		{in: "1", out: "1"},
		{in: "0.01", out: "0.01"},
		{in: "2.50", out: "2.5"},
		{in: "0", out: "0"},
		{in: "0.000000000000000001", out: "0.000000000000000001"},
		{in: "0.0000000000000000001", wantErr: true},
		{in: "", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require := require.New(t)

			d, err := ParseDecimal(tt.in)
			if tt.wantErr {
				require.ErrorIs(err, ErrInvalidDecimal)
				return
			}
			require.NoError(err)
			require.Equal(tt.out, d.String())
		})
	}
}

func TestRatio(t *testing.T) {
	require := require.New(t)

	r, err := Ratio(u(105), u(100))
	require.NoError(err)
	require.Equal("1.05", r.String())

	// truncated, not rounded
	r, err = Ratio(u(2), u(3))
	require.NoError(err)
	require.Equal("0.666666666666666666", r.String())

	_, err = Ratio(u(1), u(0))
	require.ErrorIs(err, ErrDivisionByZero)
	var merr *Error
	require.ErrorAs(err, &merr)
	require.Equal("ratio", merr.Op)
}

func TestMulTruncate(t *testing.T) {
	require := require.New(t)

	r, err := Ratio(u(105), u(100))
	require.NoError(err)
	tol, err := ParseDecimal("0.01")
	require.NoError(err)
	keep := decimal.NewFromInt(1).Sub(tol)
	require.Equal("0.99", keep.String())

	adj := MulTruncate(r, keep)
	require.Equal("1.0395", adj.String())
	require.True(adj.GreaterThan(decimal.NewFromInt(1)))

	third, err := Ratio(u(1), u(3))
	require.NoError(err)
	require.Equal("0.111111111111111111", MulTruncate(third, third).String())
}

func TestDecimalJSON(t *testing.T) {
	require := require.New(t)

	type wrapper struct {
		Tolerance *decimal.Decimal `json:"tolerance,omitempty"`
	}

	var w wrapper
	require.NoError(json.Unmarshal([]byte(`{"tolerance":"0.05"}`), &w))
	require.NotNil(w.Tolerance)
	require.Equal("0.05", w.Tolerance.String())

	b, err := json.Marshal(w)
	require.NoError(err)
	require.JSONEq(`{"tolerance":"0.05"}`, string(b))
}
