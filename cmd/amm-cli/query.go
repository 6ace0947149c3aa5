// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperamm/api"
	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/simulator"
	"github.com/ava-labs/hyperamm/utils"
)

// jsonValue prints any reply as indented JSON in both output modes.
type jsonValue struct {
	v any
}

func (j jsonValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.v)
}

func (j jsonValue) String() string {
	b, err := json.MarshalIndent(j.v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", j.v)
	}
	return string(b)
}

type exchangesResult struct {
	Height    uint64   `json:"height"`
	Exchanges []string `json:"exchanges"`
}

func (e exchangesResult) String() string {
	return fmt.Sprintf("height=%d\n%s", e.Height, strings.Join(e.Exchanges, "\n"))
}

func newClient(cmd *cobra.Command) (*api.JSONRPCClient, error) {
	endpoint, err := getConfigValue(cmd, "endpoint")
	if err != nil {
		return nil, err
	}
	return api.NewJSONRPCClient(endpoint), nil
}

func exchangeArg(args []string) (codec.Address, error) {
	return codec.ParseAddress(consts.HRP, args[0])
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query exchanges served at the configured endpoint",
}

var exchangesCmd = &cobra.Command{
	Use:   "exchanges",
	Short: "List hosted exchanges",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		height, exchanges, err := client.Exchanges(cmd.Context())
		if err != nil {
			return err
		}
		return printValue(cmd, exchangesResult{Height: height, Exchanges: exchanges})
	},
}

var pairInfoCmd = &cobra.Command{
	Use:   "pair-info <exchange>",
	Short: "Show the pair, status, share token and reserves of an exchange",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		addr, err := exchangeArg(args)
		if err != nil {
			return err
		}
		reply, err := client.PairInfo(cmd.Context(), addr)
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{reply})
	},
}

var registryInfoCmd = &cobra.Command{
	Use:   "registry-info <exchange>",
	Short: "Show the registry an exchange announced itself to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		addr, err := exchangeArg(args)
		if err != nil {
			return err
		}
		registry, err := client.RegistryInfo(cmd.Context(), addr)
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{registry})
	},
}

var reservesCmd = &cobra.Command{
	Use:   "reserves <exchange>",
	Short: "Show pool reserves and total shares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		addr, err := exchangeArg(args)
		if err != nil {
			return err
		}
		reply, err := client.PoolReserves(cmd.Context(), addr)
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{reply})
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <exchange>",
	Short: "Simulate a swap without executing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		addr, err := exchangeArg(args)
		if err != nil {
			return err
		}
		offer, err := offerAsset(cmd)
		if err != nil {
			return err
		}
		s, err := cmd.Flags().GetString("amount")
		if err != nil {
			return err
		}
		amount, err := utils.ParseAmount(s)
		if err != nil {
			return err
		}
		reply, err := client.SimulateSwap(cmd.Context(), addr, offer, amount)
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{reply})
	},
}

// offerAsset reads --denom for a native coin or --token and --code-hash for
// a custodied token.
func offerAsset(cmd *cobra.Command) (asset.Asset, error) {
	denom, err := cmd.Flags().GetString("denom")
	if err != nil {
		return nil, err
	}
	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return nil, err
	}
	switch {
	case denom != "" && token == "":
		return asset.Native{Denom: denom}, nil
	case token != "" && denom == "":
		addr, err := codec.ParseAddress(consts.HRP, token)
		if err != nil {
			return nil, err
		}
		codeHash, err := cmd.Flags().GetString("code-hash")
		if err != nil {
			return nil, err
		}
		return asset.Custodied{Contract: asset.ContractRef{Address: addr, CodeHash: codeHash}}, nil
	default:
		return nil, fmt.Errorf("exactly one of --denom and --token is required")
	}
}

func init() {
	simulateCmd.Flags().String("denom", "", "Offer a native coin of this denomination")
	simulateCmd.Flags().String("token", "", "Offer the token at this address")
	simulateCmd.Flags().String("code-hash", simulator.TokenCodeHash, "Code hash of --token")
	simulateCmd.Flags().String("amount", "", "Amount offered")
	_ = simulateCmd.MarkFlagRequired("amount")

	queryCmd.AddCommand(exchangesCmd, pairInfoCmd, registryInfoCmd, reservesCmd, simulateCmd)
	rootCmd.AddCommand(queryCmd)
}
