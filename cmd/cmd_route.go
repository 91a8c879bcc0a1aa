// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

var openInBrowser bool

var routeCmd = &cobra.Command{
	Use:   "route <from> <to>",
	Short: "Geocode two places and measure the distance between them",
	Long: `Each argument is either a place name or a "lat,lng" pair. Quote names with
spaces.

$ distcalc route 서울 부산
From: 서울특별시 (37.5667,126.9784)
To:   부산광역시 (35.1799,129.0752)
Distance: 324.92 km
Map: https://www.openstreetmap.org/directions?engine=graphhopper_car&route=37.5667,126.9784;35.1799,129.0752
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, err := newRouter(cmd.Context())
		if err != nil {
			return err
		}

		trip, err := router.Route(cmd.Context(), args[0], args[1], cfg.Language)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "From: %s (%s)\n", trip.Origin.Address, trip.Origin.Coordinate)
		fmt.Fprintf(out, "To:   %s (%s)\n", trip.Destination.Address, trip.Destination.Coordinate)
		fmt.Fprintf(out, "Distance: %.2f km\n", trip.Distance.Kilometers)
		fmt.Fprintf(out, "Map: %s\n", trip.MapURL)

		if openInBrowser {
			if err := openURL(trip.MapURL); err != nil {
				log.Printf("Could not open browser: %v", err)
			}
		}

		return nil
	},
}

func openURL(url string) error {
	var c *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", url)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		c = exec.Command("xdg-open", url)
	}

	return c.Start()
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.Flags().BoolVar(&openInBrowser, "open", false, "Open the map link in a browser")
}
