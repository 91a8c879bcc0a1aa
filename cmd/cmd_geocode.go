// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <query>",
	Short: "Resolve a place name into coordinates",
	Long: `Prints the address and coordinates of the best match for the query.

$ distcalc geocode --lang ko 서울역
서울역, 한강대로, 용산구, 서울특별시	37.5559,126.9723
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, err := newRouter(cmd.Context())
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")

		place, found, err := router.Geocoder().Resolve(cmd.Context(), query, cfg.Language)
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("location not found: %q", query)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", place.Address, place.Coordinate)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
