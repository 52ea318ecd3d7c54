package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"swapEngine/internal/amm"
	"swapEngine/internal/model"
)

func runPoolID(cmd *cobra.Command, _ []string) error {
	assetAInput, _ := cmd.Flags().GetString("asset-a")
	assetBInput, _ := cmd.Flags().GetString("asset-b")
	fee, _ := cmd.Flags().GetUint32("fee")

	assetA, err := model.ParseAsset(assetAInput)
	if err != nil {
		return err
	}
	assetB, err := model.ParseAsset(assetBInput)
	if err != nil {
		return err
	}

	poolID, token0, token1, err := model.ComputePoolID(assetA, assetB, fee)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pool_id: %s\ntoken0: %s\ntoken1: %s\nfee: %d\n",
		poolID.Hex(), token0, token1, fee)
	return nil
}

func runQuoteSwap(cmd *cobra.Command, _ []string) error {
	reserveInInput, _ := cmd.Flags().GetString("reserve-in")
	reserveOutInput, _ := cmd.Flags().GetString("reserve-out")
	fee, _ := cmd.Flags().GetUint32("fee")
	inputInput, _ := cmd.Flags().GetString("input")

	reserveIn, err := parseDecimal("reserve-in", reserveInInput)
	if err != nil {
		return err
	}
	reserveOut, err := parseDecimal("reserve-out", reserveOutInput)
	if err != nil {
		return err
	}
	input, err := parseDecimal("input", inputInput)
	if err != nil {
		return err
	}

	out, err := amm.QuoteSwap(reserveIn, reserveOut, fee, input, new(uint256.Int))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "output: %s\n", out.Dec())
	return nil
}

func parseDecimal(name, input string) (*uint256.Int, error) {
	if input == "" {
		return nil, fmt.Errorf("%s is required", name)
	}
	value, err := uint256.FromDecimal(input)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, input, err)
	}
	return value, nil
}
