// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperamm/api"
)

type endpointResult struct {
	Endpoint string `json:"endpoint"`
	Alive    bool   `json:"alive"`
}

func (e endpointResult) String() string {
	return fmt.Sprintf("endpoint=%s alive=%t", e.Endpoint, e.Alive)
}

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Show and ping the current endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := getConfigValue(cmd, "endpoint")
		if err != nil {
			return err
		}
		alive, err := api.NewJSONRPCClient(endpoint).Ping(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to ping %s: %w", endpoint, err)
		}
		return printValue(cmd, endpointResult{Endpoint: endpoint, Alive: alive})
	},
}

var endpointSetCmd = &cobra.Command{
	Use:   "set <endpoint>",
	Short: "Persist the endpoint used by query commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setConfigValue("endpoint", args[0]); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, endpointResult{Endpoint: args[0]})
	},
}

func init() {
	endpointCmd.AddCommand(endpointSetCmd)
	rootCmd.AddCommand(endpointCmd)
}
