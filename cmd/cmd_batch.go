// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/jcodagnone/distcalc/route"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var batchMaxProcs int

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Measure many routes read from stdin",
	Long: `Reads one route per line as "from<TAB>to" and prints, in input order,
"from<TAB>to<TAB>distance_km<TAB>map_url". Failed lines print the error in place
of the distance and an empty map link; the command keeps going.

$ printf '서울\t부산\n' | distcalc batch
서울	부산	324.92	https://www.openstreetmap.org/directions?...
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		router, err := newRouter(cmd.Context())
		if err != nil {
			return err
		}

		input := os.Stdin
		if isatty.IsTerminal(input.Fd()) {
			fmt.Fprintln(os.Stderr, "Enter routes as from<TAB>to, one per line…")
		}

		return runBatch(cmd.Context(), router, input, cmd.OutOrStdout(), batchOptions{
			MaxProcs: batchMaxProcs,
			Language: cfg.Language,
			Progress: isatty.IsTerminal(os.Stderr.Fd()),
		})
	},
}

type batchOptions struct {
	MaxProcs int
	Language string
	Progress bool
}

type batchLine struct {
	from, to string
	result   string
}

var errBatchFormat = errors.New(`expected "from<TAB>to"`)

func readBatch(r io.Reader) ([]*batchLine, error) {
	var lines []*batchLine

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		from, to, ok := strings.Cut(text, "\t")
		line := &batchLine{from: from, to: to}

		if !ok {
			line.result = "error: " + errBatchFormat.Error() + "\t"
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return lines, nil
}

func runBatch(ctx context.Context, router *route.Router, in io.Reader, out io.Writer, options batchOptions) error {
	lines, err := readBatch(in)
	if err != nil {
		return err
	}

	maxProcs := options.MaxProcs
	if maxProcs <= 0 {
		maxProcs = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if options.Progress {
		bar = progressbar.NewOptions(len(lines),
			progressbar.OptionSetDescription("Measuring routes"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var (
		wg     sync.WaitGroup
		failed int
		mu     sync.Mutex
	)

	semaphore := make(chan struct{}, maxProcs)

	for _, line := range lines {
		if line.result != "" {
			mu.Lock()
			failed++
			mu.Unlock()

			continue
		}

		wg.Add(1)

		go func(line *batchLine) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			trip, err := router.Route(ctx, line.from, line.to, options.Language)
			if err != nil {
				line.result = "error: " + err.Error() + "\t"

				mu.Lock()
				failed++
				mu.Unlock()
			} else {
				line.result = strconv.FormatFloat(trip.Distance.Kilometers, 'f', 2, 64) + "\t" + trip.MapURL
			}

			if bar != nil {
				if err := bar.Add(1); err != nil {
					log.Printf("Updating progress bar: %v", err)
				}
			}
		}(line)
	}

	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
	}

	w := bufio.NewWriter(out)
	for _, line := range lines {
		fmt.Fprintf(w, "%s\t%s\t%s\n", line.from, line.to, line.result)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if failed > 0 {
		log.Printf("%d of %d routes failed", failed, len(lines))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVar(&batchMaxProcs, "max-procs", 0, "Concurrent routes. Defaults to the number of CPUs")
}
