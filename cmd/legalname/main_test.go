package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem-kaynak/legalname/pkg/legalname"
)

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	// Reset flag state left behind by earlier runs.
	searchFile, searchSuffix, searchPrefix, searchWorkers = "", true, true, 0
	benchData, benchIterations, benchWarmup = "", 100000, 1000
	configPath = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func decodeLines(t *testing.T, out string) []searchOutput {
	t.Helper()
	var results []searchOutput
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r searchOutput
		require.NoError(t, dec.Decode(&r))
		results = append(results, r)
	}
	return results
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"search", "terms", "bench"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "legalname", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestSearchCommand_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("file")
	require.NotNil(t, flag, "search command should have --file flag")

	suffix := searchCmd.Flags().Lookup("suffix")
	require.NotNil(t, suffix)
	assert.Equal(t, "true", suffix.DefValue)

	prefix := searchCmd.Flags().Lookup("prefix")
	require.NotNil(t, prefix)
	assert.Equal(t, "true", prefix.DefValue)

	workers := searchCmd.Flags().Lookup("workers")
	require.NotNil(t, workers)
	assert.Equal(t, "0", workers.DefValue)
}

func TestTermsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range termsCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"stats", "contains", "lookup"} {
		assert.True(t, names[name], "expected terms subcommand %q not found", name)
	}
}

func TestSearch_Args(t *testing.T) {
	out, err := execute(t, "", "search", "Hello World Oy", "Germany gmbh & co. kg")
	require.NoError(t, err)

	results := decodeLines(t, out)
	require.Len(t, results, 2)

	assert.Equal(t, "Hello World Oy", results[0].Name)
	assert.Equal(t, "Hello World", results[0].BaseName)
	assert.Equal(t, []string{"Finland"}, results[0].Countries)

	assert.Equal(t, "Germany", results[1].BaseName)
	assert.Equal(t, []string{"Limited Partnership"}, results[1].Types)
	assert.Contains(t, out, "gmbh & co. kg", "output should not escape '&'")
}

func TestSearch_Stdin(t *testing.T) {
	out, err := execute(t, "Hello World Oy\n\n361度國際有限公司\n", "search")
	require.NoError(t, err)

	results := decodeLines(t, out)
	require.Len(t, results, 2)
	assert.Equal(t, "Hello World", results[0].BaseName)
	assert.Equal(t, "361度國際", results[1].BaseName)
}

func TestSearch_FilePreservesOrder(t *testing.T) {
	input := []string{
		"Hello World Oy",
		"Ab Oy Hello World",
		"Säätämö, Oy",
		"Acme Widgets",
		"Polsko spółka z o.o.",
	}
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(input, "\n")), 0644))

	out, err := execute(t, "", "search", "--file", path, "--workers", "3")
	require.NoError(t, err)

	results := decodeLines(t, out)
	require.Len(t, results, len(input))
	for i, r := range results {
		assert.Equal(t, input[i], r.Name)
	}
	assert.Equal(t, "Säätämö", results[2].BaseName)
	assert.Equal(t, "Acme Widgets", results[3].BaseName)
	assert.Equal(t, []string{}, results[3].Types)
	assert.Equal(t, "Polsko", results[4].BaseName)
}

func TestSearch_SuffixOnly(t *testing.T) {
	out, err := execute(t, "", "search", "--prefix=false", "Oy Hello World Oy")
	require.NoError(t, err)

	results := decodeLines(t, out)
	require.Len(t, results, 1)
	assert.Equal(t, "Oy Hello World", results[0].BaseName)
}

func TestSearch_MissingFile(t *testing.T) {
	_, err := execute(t, "", "search", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestTermsStats(t *testing.T) {
	out, err := execute(t, "", "terms", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Dictionary: built-in")
	assert.Contains(t, out, "Distinct terms:")
}

func TestTermsContains(t *testing.T) {
	out, err := execute(t, "", "terms", "contains", "GmbH")
	require.NoError(t, err)
	assert.Contains(t, out, "'GmbH' exists in dictionary")

	out, err = execute(t, "", "terms", "contains", "Hello")
	assert.Error(t, err)
	assert.Contains(t, out, "'Hello' NOT in dictionary")
}

func TestTermsLookup(t *testing.T) {
	out, err := execute(t, "", "terms", "lookup", "S.R.O.")
	require.NoError(t, err)
	assert.Contains(t, out, "Term: sro")
	assert.Contains(t, out, "Czech Republic")

	_, err = execute(t, "", "terms", "lookup", "hello")
	assert.Error(t, err)
}

func TestTerms_CustomDictionary(t *testing.T) {
	dir := t.TempDir()
	terms := filepath.Join(dir, "terms.yaml")
	require.NoError(t, os.WriteFile(terms, []byte("types:\n  Widget: [wdg]\ncountries:\n  Nowhere: [wdg]\n"), 0644))
	conf := filepath.Join(dir, "legalname.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("terms:\n  path: "+terms+"\nlog:\n  level: error\n"), 0644))

	out, err := execute(t, "", "--config", conf, "search", "Acme WDG", "Hello World Oy")
	require.NoError(t, err)

	results := decodeLines(t, out)
	require.Len(t, results, 2)
	assert.Equal(t, "Acme", results[0].BaseName)
	assert.Equal(t, []string{"Widget"}, results[0].Types)
	assert.Equal(t, "Hello World Oy", results[1].BaseName)
}

func TestClassifyAll(t *testing.T) {
	c, err := legalname.NewDefault()
	require.NoError(t, err)

	names := make([]string, 200)
	for i := range names {
		if i%2 == 0 {
			names[i] = "Hello World Oy"
		} else {
			names[i] = "Ab Oy Hello World"
		}
	}

	results, err := classifyAll(context.Background(), c, names, legalname.DefaultMode, 8)
	require.NoError(t, err)
	require.Len(t, results, len(names))
	for i, r := range results {
		assert.Equal(t, "Hello World", r.BaseName, "result %d", i)
	}
}

func TestClassifyAll_MiddleStripFails(t *testing.T) {
	c, err := legalname.NewDefault()
	require.NoError(t, err)

	_, err = classifyAll(context.Background(), c, []string{"Hello Oy World"}, legalname.StripMiddle, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, legalname.ErrMiddleStrip)
}

func TestClassifyAll_Cancelled(t *testing.T) {
	c, err := legalname.NewDefault()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = classifyAll(ctx, c, []string{"Hello World Oy"}, legalname.DefaultMode, 1)
	assert.Error(t, err)
}

func TestBench_SmallRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello World Oy\nAcme GmbH\n"), 0644))

	out, err := execute(t, "", "bench", "--data", path, "--iterations", "10", "--warmup", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "FULL PIPELINE THROUGHPUT")
	assert.Contains(t, out, "Data file (2 names)")
	assert.Contains(t, out, "NORMALIZER STEPS BREAKDOWN")
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("a\n\n  \nb c\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b c"}, lines)
}
