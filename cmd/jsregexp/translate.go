package main

import (
	"encoding/json"
	"fmt"

	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"github.com/spf13/cobra"
)

var (
	translateDialect    string
	translateNoBOM      bool
	translateMultiline  bool
	translateIgnoreCase bool
	translateFormat     string
)

var translateCmd = &cobra.Command{
	Use:   "translate <pattern>",
	Short: "Translate a JavaScript pattern for an engine",
	Long: `Rewrite a JavaScript regular expression source in the syntax of an
engine dialect: dotnet (regexp2) or re2 (coregex and Hyperscan).`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVar(&translateDialect, "dialect", "dotnet", "Target dialect: dotnet, re2")
	translateCmd.Flags().BoolVar(&translateNoBOM, "no-bom", false, "Do not treat U+FEFF as whitespace in \\s")
	translateCmd.Flags().BoolVarP(&translateMultiline, "multiline", "m", false, "Translate with the multiline flag")
	translateCmd.Flags().BoolVarP(&translateIgnoreCase, "ignore-case", "i", false, "Translate with the ignoreCase flag (re2 only)")
	translateCmd.Flags().StringVar(&translateFormat, "format", "text", "Output format: text, json")
}

// translateOutput is the JSON form of a translation.
type translateOutput struct {
	Pattern      string         `json:"pattern"`
	Dialect      string         `json:"dialect"`
	Source       string         `json:"source"`
	GroupCount   int            `json:"group_count"`
	NegLookahead []int          `json:"neg_lookaround_groups,omitempty"`
	Names        map[int]string `json:"names,omitempty"`
}

func runTranslate(cmd *cobra.Command, args []string) error {
	d, err := dialect.ParseDialect(translateDialect)
	if err != nil {
		return err
	}

	tr := dialect.Translate(d, args[0], dialect.Options{
		BOMWhitespace: !translateNoBOM,
		Multiline:     translateMultiline,
		IgnoreCase:    translateIgnoreCase,
	})

	switch translateFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(translateOutput{
			Pattern:      args[0],
			Dialect:      d.String(),
			Source:       tr.Source,
			GroupCount:   tr.GroupCount,
			NegLookahead: tr.NegLookahead.Indexes(),
			Names:        tr.Names,
		})
	case "text":
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tr.Source)
		if verbose {
			fmt.Fprintf(out, "Groups: %d\n", tr.GroupCount)
			if idx := tr.NegLookahead.Indexes(); len(idx) > 0 {
				fmt.Fprintf(out, "Hidden groups: %v\n", idx)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", translateFormat)
	}
}
