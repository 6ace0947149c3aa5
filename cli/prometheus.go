// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//nolint:gosec
package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/pkg/browser"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/hyperamm/server"
	"github.com/ava-labs/hyperamm/utils"
)

const MetricsPath = server.BaseURL + "/metrics"

type PrometheusStaticConfig struct {
	Targets []string `yaml:"targets"`
}

type PrometheusScrapeConfig struct {
	JobName       string                    `yaml:"job_name"`
	StaticConfigs []*PrometheusStaticConfig `yaml:"static_configs"`
	MetricsPath   string                    `yaml:"metrics_path"`
}

type PrometheusConfig struct {
	Global struct {
		ScrapeInterval     string `yaml:"scrape_interval"`
		EvaluationInterval string `yaml:"evaluation_interval"`
	} `yaml:"global"`
	ScrapeConfigs []*PrometheusScrapeConfig `yaml:"scrape_configs"`
}

type PrometheusOptions struct {
	// BaseURI is where the prometheus UI is served
	BaseURI string
	// Endpoints are the API URIs to scrape, e.g. "http://127.0.0.1:9650"
	Endpoints []string
	// Namespace prefixes the exchange metrics
	Namespace   string
	ConfigFile  string
	DataDir     string
	OpenBrowser bool
	// Start runs /tmp/prometheus with the generated config
	Start bool
}

// Panels returns the dashboard expressions for exchange activity.
func Panels(namespace string) []string {
	rate := func(name string) string {
		return fmt.Sprintf("increase(%s_%s[5s])/5", namespace, name)
	}
	return []string{
		rate("swaps"),
		rate("liquidity_added"),
		rate("liquidity_removed"),
		rate("failed_requests"),
		namespace + "_instantiations",
		namespace + "_share_token_registrations",
		"pebble_read_latency_sum/pebble_read_latency_count",
		"pebble_active_compactions",
	}
}

// NewPrometheusConfig scrapes the metrics route of every endpoint each second.
func NewPrometheusConfig(endpoints []string) (*PrometheusConfig, error) {
	targets := make([]string, len(endpoints))
	for i, uri := range endpoints {
		target, err := utils.HostPort(uri)
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint %q: %w", uri, err)
		}
		targets[i] = target
	}
	var c PrometheusConfig
	c.Global.ScrapeInterval = "1s"
	c.Global.EvaluationInterval = "1s"
	c.ScrapeConfigs = []*PrometheusScrapeConfig{
		{
			JobName: "hyperamm",
			StaticConfigs: []*PrometheusStaticConfig{
				{
					Targets: targets,
				},
			},
			MetricsPath: MetricsPath,
		},
	}
	return &c, nil
}

// DashboardURL links to a graph page showing [panels].
//
// We must manually encode the params because prometheus skips any panels
// that are not numerically sorted and `url.params` only sorts
// lexicographically.
func DashboardURL(baseURI string, panels []string) string {
	dashboard := baseURI + "/graph"
	for i, panel := range panels {
		appendChar := "&"
		if i == 0 {
			appendChar = "?"
		}
		dashboard = fmt.Sprintf("%s%sg%d.expr=%s&g%d.tab=0&g%d.step_input=1&g%d.range_input=5m", dashboard, appendChar, i, url.QueryEscape(panel), i, i, i)
	}
	return dashboard
}

func GeneratePrometheus(ctx context.Context, opts PrometheusOptions) error {
	c, err := NewPrometheusConfig(opts.Endpoints)
	if err != nil {
		return err
	}
	yamlData, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.ConfigFile, yamlData, perms.ReadWrite); err != nil {
		return err
	}
	dashboard := DashboardURL(opts.BaseURI, Panels(opts.Namespace))

	if !opts.Start {
		if !opts.OpenBrowser {
			utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
			utils.Outf("{{green}}prometheus cmd:{{/}} /tmp/prometheus --config.file=%s --storage.tsdb.path=%s\n", opts.ConfigFile, opts.DataDir)
			return nil
		}
		return browser.OpenURL(dashboard)
	}

	cmd := exec.CommandContext(ctx, "/tmp/prometheus", "--config.file="+opts.ConfigFile, "--storage.tsdb.path="+opts.DataDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	errChan := make(chan error, 1)
	go func() {
		select {
		case <-errChan:
			return
		case <-time.After(5 * time.Second):
			if !opts.OpenBrowser {
				utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
				return
			}
			utils.Outf("{{cyan}}opening dashboard{{/}}\n")
			if err := browser.OpenURL(dashboard); err != nil {
				utils.Outf("{{red}}unable to open dashboard:{{/}} %s\n", err.Error())
			}
		}
	}()

	utils.Outf("{{cyan}}starting prometheus (/tmp/prometheus) in background{{/}}\n")
	if err := cmd.Run(); err != nil {
		errChan <- err
		utils.Outf("{{orange}}prometheus exited with error:{{/}} %v\n", err)
		return err
	}
	utils.Outf("{{cyan}}prometheus exited{{/}}\n")
	return nil
}
