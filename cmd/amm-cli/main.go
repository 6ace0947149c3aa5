// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "amm-cli" prices swaps, runs an in-memory exchange host and queries it.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "amm-cli",
	Short:         "Constant-product exchange CLI",
	Long:          `A CLI for pricing swaps, hosting exchanges in a local simulator and querying them over JSON-RPC.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the default endpoint")
	rootCmd.PersistentFlags().String("config", "", "Path to a JSON or YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("amm-cli failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
