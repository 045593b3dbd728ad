package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kerem-kaynak/legalname/pkg/legalname"
)

var (
	searchFile    string
	searchSuffix  bool
	searchPrefix  bool
	searchWorkers int
)

// searchOutput is one JSON line of search output.
type searchOutput struct {
	Name string `json:"name"`
	legalname.Result
}

var searchCmd = &cobra.Command{
	Use:   "search [name...]",
	Short: "Classify company names",
	Long:  "Classifies each name given as an argument, each line of --file, or each line of stdin, and prints one JSON object per name in input order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := searchInput(cmd, args)
		if err != nil {
			return err
		}

		c, err := newClassifier()
		if err != nil {
			return eris.Wrap(err, "search: build classifier")
		}

		workers := searchWorkers
		if workers <= 0 {
			workers = cfg.Batch.Workers
		}

		results, err := classifyAll(cmd.Context(), c, names, searchMode(), workers)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		for i, r := range results {
			if err := enc.Encode(searchOutput{Name: names[i], Result: r}); err != nil {
				return eris.Wrap(err, "search: write result")
			}
		}

		zap.L().Debug("search complete",
			zap.Int("names", len(names)),
			zap.Int("workers", workers),
			zap.Int("cached", c.CacheSize()),
		)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFile, "file", "", "read names from file, one per line")
	searchCmd.Flags().BoolVar(&searchSuffix, "suffix", true, "strip terms at the end of names")
	searchCmd.Flags().BoolVar(&searchPrefix, "prefix", true, "strip terms at the start of names")
	searchCmd.Flags().IntVar(&searchWorkers, "workers", 0, "concurrent workers (default batch.workers)")
	rootCmd.AddCommand(searchCmd)
}

func searchMode() legalname.Mode {
	var mode legalname.Mode
	if searchSuffix {
		mode |= legalname.StripSuffix
	}
	if searchPrefix {
		mode |= legalname.StripPrefix
	}
	return mode
}

func searchInput(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if searchFile != "" {
		f, err := os.Open(searchFile)
		if err != nil {
			return nil, eris.Wrapf(err, "search: open %s", searchFile)
		}
		defer f.Close()
		return readLines(f)
	}

	return readLines(cmd.InOrStdin())
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "search: read input")
	}
	return lines, nil
}

// classifyAll runs Search over names with at most workers goroutines. The
// results are index-aligned with names.
func classifyAll(ctx context.Context, c *legalname.Classifier, names []string, mode legalname.Mode, workers int) ([]legalname.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]legalname.Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := c.Search(name, mode)
			if err != nil {
				return eris.Wrapf(err, "search %q", name)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "search: cancelled")
	}
	return results, nil
}
