// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/jcodagnone/distcalc/spatial"
	"github.com/spf13/cobra"
)

var distanceCmd = &cobra.Command{
	Use:   "distance <lat1,lng1> <lat2,lng2>",
	Short: "Distance between two coordinates, without geocoding",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := spatial.ParseCoordinate(args[0])
		if err != nil {
			return err
		}

		to, err := spatial.ParseCoordinate(args[1])
		if err != nil {
			return err
		}

		calc, err := newCalculator()
		if err != nil {
			return err
		}

		d := calc.Distance(from, to)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%.2f km (%s)\n", d.Kilometers, d.Method)
		fmt.Fprintln(out, newLinker().DirectionsURL(from, to))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}
