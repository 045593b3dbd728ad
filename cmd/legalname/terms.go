package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Inspect the term dictionary",
}

var termsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dictionary statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClassifier()
		if err != nil {
			return err
		}

		source := cfg.Terms.Path
		if source == "" {
			source = "built-in"
		}
		stats := c.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dictionary: %s\n", source)
		fmt.Fprintf(out, "Raw terms: %d\n", stats.RawTerms)
		fmt.Fprintf(out, "Distinct terms: %d\n", stats.Terms)
		fmt.Fprintf(out, "Distinct tokens: %d\n", stats.Tokens)
		fmt.Fprintf(out, "Skipped terms: %d\n", stats.Skipped)
		return nil
	},
}

var termsContainsCmd = &cobra.Command{
	Use:   "contains <token>...",
	Short: "Check whether tokens occur in any term",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClassifier()
		if err != nil {
			return err
		}

		var missing []string
		for _, tok := range args {
			if c.HasToken(tok) {
				fmt.Fprintf(cmd.OutOrStdout(), "'%s' exists in dictionary\n", tok)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "'%s' NOT in dictionary\n", tok)
				missing = append(missing, tok)
			}
		}
		if len(missing) > 0 {
			return eris.Errorf("%d of %d tokens not in dictionary", len(missing), len(args))
		}
		return nil
	},
}

var termsLookupCmd = &cobra.Command{
	Use:   "lookup <term>",
	Short: "Show the labels of a dictionary term",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClassifier()
		if err != nil {
			return err
		}

		term := strings.Join(args, " ")
		info, ok := c.Lookup(term)
		if !ok {
			return eris.Errorf("term %q not in dictionary", term)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Term: %s\n", strings.Join(info.Term, " "))
		fmt.Fprintf(out, "Types: %s\n", strings.Join(info.Types, ", "))
		fmt.Fprintf(out, "Countries: %s\n", strings.Join(info.Countries, ", "))
		return nil
	},
}

func init() {
	termsCmd.AddCommand(termsStatsCmd, termsContainsCmd, termsLookupCmd)
	rootCmd.AddCommand(termsCmd)
}
