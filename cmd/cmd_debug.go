// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/jcodagnone/distcalc/spatial"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var cellResolutions []int

var debugCellCmd = &cobra.Command{
	Use:   "cell <lat,lng>",
	Short: "Print the H3 cells containing a coordinate",
	Long: `Prints one line per resolution with the H3 cell index and its center.

$ distcalc debug cell 37.5665,126.978 --res 5,9
5	855a3b4ffffffff	37.55...,126.98...
9	895a3b4e1c7ffff	37.56...,126.97...
`,
	Args: cobra.ExactArgs(1),
	// Pure computation; no configuration needed.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := spatial.ParseCoordinate(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		for _, res := range cellResolutions {
			cell, err := c.Cell(res)
			if err != nil {
				return fmt.Errorf("resolution %d: %w", res, err)
			}

			center, err := cell.LatLng()
			if err != nil {
				return fmt.Errorf("resolution %d: %w", res, err)
			}

			fmt.Fprintf(out, "%d\t%s\t%.6f,%.6f\n", res, cell, center.Lat, center.Lng)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugCellCmd)
	debugCellCmd.Flags().IntSliceVar(&cellResolutions, "res", []int{5, 7, 9}, "H3 resolutions to print")
}
