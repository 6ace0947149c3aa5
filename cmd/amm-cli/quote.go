// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/utils"
)

type quoteResult struct {
	Fee        string `json:"fee"`
	Return     string `json:"return"`
	Spread     string `json:"spread"`
	Commission string `json:"commission"`
	// Capped is the result an exchange would execute
	Capped struct {
		Return     string `json:"return"`
		Spread     string `json:"spread"`
		Commission string `json:"commission"`
	} `json:"capped"`
}

func (q quoteResult) String() string {
	return fmt.Sprintf(
		"fee=%s return=%s spread=%s commission=%s\nexecuted: return=%s spread=%s commission=%s",
		q.Fee, q.Return, q.Spread, q.Commission,
		q.Capped.Return, q.Capped.Spread, q.Capped.Commission,
	)
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a swap against the given reserves",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		fee := c.Exchange.Fee
		if cmd.Flags().Changed("fee") {
			s, err := cmd.Flags().GetString("fee")
			if err != nil {
				return err
			}
			fee, err = pricing.ParseFee(s)
			if err != nil {
				return err
			}
		}

		var values [3]string
		for i, name := range []string{"offer-reserve", "ask-reserve", "amount"} {
			values[i], err = cmd.Flags().GetString(name)
			if err != nil {
				return err
			}
		}
		offerReserve, err := utils.ParseAmount(values[0])
		if err != nil {
			return err
		}
		askReserve, err := utils.ParseAmount(values[1])
		if err != nil {
			return err
		}
		amount, err := utils.ParseAmount(values[2])
		if err != nil {
			return err
		}

		raw, err := pricing.ComputeSwap(offerReserve, askReserve, amount, fee)
		if err != nil {
			return err
		}
		capped, err := pricing.NewConstantProduct(offerReserve, askReserve, fee).Swap(amount)
		if err != nil {
			return err
		}
		q := quoteResult{
			Fee:        fee.String(),
			Return:     raw.Return.Dec(),
			Spread:     raw.Spread.Dec(),
			Commission: raw.Commission.Dec(),
		}
		q.Capped.Return = capped.Return.Dec()
		q.Capped.Spread = capped.Spread.Dec()
		q.Capped.Commission = capped.Commission.Dec()
		return printValue(cmd, q)
	},
}

func init() {
	quoteCmd.Flags().String("offer-reserve", "", "Pool reserve of the offered asset")
	quoteCmd.Flags().String("ask-reserve", "", "Pool reserve of the asked asset")
	quoteCmd.Flags().String("amount", "", "Amount offered")
	quoteCmd.Flags().String("fee", "", "Commission as numerator/denominator, e.g. 3/1000")
	_ = quoteCmd.MarkFlagRequired("offer-reserve")
	_ = quoteCmd.MarkFlagRequired("ask-reserve")
	_ = quoteCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(quoteCmd)
}
