// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperamm/cli"
)

var prometheusCmd = &cobra.Command{
	Use: "prometheus",
}

var generatePrometheusCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a prometheus config scraping the configured endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		endpoint, err := getConfigValue(cmd, "endpoint")
		if err != nil {
			return err
		}
		opts := cli.PrometheusOptions{
			Endpoints: []string{endpoint},
			Namespace: c.MetricsNamespace,
		}
		flags := cmd.Flags()
		if opts.BaseURI, err = flags.GetString("prometheus-base-uri"); err != nil {
			return err
		}
		if opts.ConfigFile, err = flags.GetString("prometheus-file"); err != nil {
			return err
		}
		if opts.DataDir, err = flags.GetString("prometheus-data"); err != nil {
			return err
		}
		if opts.OpenBrowser, err = flags.GetBool("prometheus-open-browser"); err != nil {
			return err
		}
		if opts.Start, err = flags.GetBool("prometheus-start"); err != nil {
			return err
		}
		return cli.GeneratePrometheus(cmd.Context(), opts)
	},
}

func init() {
	flags := generatePrometheusCmd.Flags()
	flags.String("prometheus-base-uri", "http://localhost:9090", "prometheus server location")
	flags.String("prometheus-file", "/tmp/prometheus.yaml", "prometheus file location")
	flags.String("prometheus-data", "/tmp/prometheus-data", "prometheus data location")
	flags.Bool("prometheus-open-browser", true, "open browser to prometheus dashboard")
	flags.Bool("prometheus-start", true, "start prometheus")
	prometheusCmd.AddCommand(generatePrometheusCmd)
	rootCmd.AddCommand(prometheusCmd)
}
