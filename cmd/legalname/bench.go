package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kerem-kaynak/legalname/pkg/legalname"
)

const (
	boxWidth = 62

	// ANSI color codes
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

var line = strings.Repeat("─", boxWidth)

var (
	benchData       string
	benchIterations int
	benchWarmup     int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure classification throughput",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprint(out, "Building term automaton... ")
		start := time.Now()
		c, err := newClassifier()
		if err != nil {
			return err
		}
		stats := c.Stats()
		fmt.Fprintf(out, "done (%d terms, %d tokens in %v)\n", stats.Terms, stats.Tokens, time.Since(start).Round(time.Millisecond))

		var names []string
		if benchData != "" {
			f, err := os.Open(benchData)
			if err != nil {
				return eris.Wrapf(err, "bench: open %s", benchData)
			}
			names, err = readLines(f)
			f.Close()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return eris.Errorf("bench: %s has no names", benchData)
			}
		}

		b := &bencher{out: out, iterations: benchIterations, warmup: benchWarmup}
		fmt.Fprintf(out, "Iterations: %d (warmup: %d)\n", b.iterations, b.warmup)
		fmt.Fprintln(out, "Reference: 1 second = 1,000,000,000 ns")
		fmt.Fprintln(out)

		runBenchmarks(b, c, names)
		return nil
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchData, "data", "", "file of names to cycle through, one per line")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 100000, "timed iterations per benchmark")
	benchCmd.Flags().IntVar(&benchWarmup, "warmup", 1000, "untimed iterations per benchmark")
	rootCmd.AddCommand(benchCmd)
}

func runBenchmarks(b *bencher, c *legalname.Classifier, names []string) {
	suffixName := "Hello World Oy"
	compoundName := "Germany gmbh & co. kg"
	cjkName := "广东步步高电子工业有限公司"
	plainName := "Acme Widgets International"

	// Full pipeline benchmarks
	b.header("FULL PIPELINE THROUGHPUT")
	c.ClearCache()
	b.run("Suffix (cache miss)", func() {
		c.ClearCache()
		c.Search(suffixName, legalname.DefaultMode)
	})
	b.run("Suffix (cache hit)", func() { c.Search(suffixName, legalname.DefaultMode) })
	b.run("Compound term", func() { c.Search(compoundName, legalname.DefaultMode) })
	b.run("CJK name", func() { c.Search(cjkName, legalname.DefaultMode) })
	b.run("No term", func() { c.Search(plainName, legalname.DefaultMode) })
	if len(names) > 0 {
		i := 0
		b.run(fmt.Sprintf("Data file (%d names)", len(names)), func() {
			c.Search(names[i%len(names)], legalname.DefaultMode)
			i++
		})
	}
	b.footer()
	fmt.Fprintln(b.out)

	// Component breakdown
	b.header("COMPONENT BREAKDOWN")
	norm := legalname.NewNormalizerNoCache()
	b.run("Normalizer (full)", func() { norm.Normalize("Spółka") })
	b.run("Split + normalize", func() { norm.Split(compoundName) })
	b.run("Token lookup", func() { c.HasToken("GmbH") })
	b.run("Term lookup", func() { c.Lookup("gmbh & co. kg") })
	b.footer()
	fmt.Fprintln(b.out)

	// Normalizer steps
	b.header("NORMALIZER STEPS BREAKDOWN")
	b.run("Case fold", func() { legalname.FoldCase("Spółka") })
	b.run("NFKD decompose", func() { legalname.NFKDDecompose("Spółka") })
	b.run("Remove combining marks", func() { legalname.RemoveCombiningMarks("Spółka") })
	b.run("Replace non-decomposable", func() { legalname.ReplaceNonDecomposable("społka") })
	b.run("Strip punctuation", func() { legalname.StripPunct("s.r.o.") })
	b.run("Trim edges", func() { legalname.TrimEdges(" Hello World, ltd. ") })
	b.run("CJK detection", func() { legalname.IsCJK(plainName) })
	b.footer()
}

// bencher prints timing rows inside a box.
type bencher struct {
	out        io.Writer
	iterations int
	warmup     int
}

func (b *bencher) run(name string, fn func()) {
	for i := 0; i < b.warmup; i++ {
		fn()
	}

	iterations := max(b.iterations, 1)
	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	elapsed := time.Since(start)

	opsPerSec := float64(iterations) / elapsed.Seconds()
	nsPerOp := float64(elapsed.Nanoseconds()) / float64(iterations)

	// Truncate name if too long
	displayName := name
	if len(displayName) > 26 {
		displayName = displayName[:26]
	}

	// Pad the plain string, then colorize
	plain := fmt.Sprintf("  %-26s %10.0f ops/sec %8.0f ns", displayName, opsPerSec, nsPerOp)
	padded := padLine(plain)

	colored := fmt.Sprintf("  %-26s %s%10.0f%s ops/sec %s%8.0f%s ns",
		displayName,
		colorGreen, opsPerSec, colorReset,
		colorYellow, nsPerOp, colorReset)

	if extraPad := len(padded) - len(plain); extraPad > 0 {
		colored += strings.Repeat(" ", extraPad)
	}

	fmt.Fprintln(b.out, colorDim+"│"+colorReset+colored+colorDim+"│"+colorReset)
}

func padLine(content string) string {
	if len(content) >= boxWidth {
		return content[:boxWidth]
	}
	return content + strings.Repeat(" ", boxWidth-len(content))
}

func (b *bencher) header(title string) {
	fmt.Fprintln(b.out, colorDim+"┌"+line+"┐"+colorReset)
	fmt.Fprintln(b.out, colorDim+"│"+colorReset+colorCyan+padLine("  "+title)+colorReset+colorDim+"│"+colorReset)
	fmt.Fprintln(b.out, colorDim+"├"+line+"┤"+colorReset)
}

func (b *bencher) footer() {
	fmt.Fprintln(b.out, colorDim+"└"+line+"┘"+colorReset)
}
