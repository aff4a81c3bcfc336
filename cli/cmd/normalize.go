package cmd

import (
	"github.com/spf13/cobra"

	plsqlnorm "github.com/vegvisir-data/plsqlnorm"
)

var (
	normalizeIn     string
	normalizeOut    string
	noComments      bool
	noSpaces        bool
	uppercase       bool
	noLiterals      bool
	commentsOnly    bool
	fullFlags       bool
	normalizeLines  int

	normalizeCmd = &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a PL/SQL source file",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := plsqlnorm.FlagSet(0)
			if fullFlags {
				flags = plsqlnorm.CLIFullFlags()
			} else {
				if noComments {
					flags |= plsqlnorm.NoComments
				}
				if noSpaces {
					flags |= plsqlnorm.NoSpaces
				}
				if uppercase {
					flags |= plsqlnorm.Uppercase
				}
				if noLiterals {
					flags |= plsqlnorm.NoLiterals
				}
				if commentsOnly {
					flags |= plsqlnorm.CommentsOnly
				}
			}

			n := plsqlnorm.NewNormalizer()
			_, err := n.NormalizePath(normalizeIn, flags, normalizeLines, normalizeOut)
			return err
		},
	}
)

func init() {
	normalizeCmd.Flags().StringVar(&normalizeIn, "in", "", "input file path")
	normalizeCmd.Flags().StringVar(&normalizeOut, "out", "", "output file path")
	normalizeCmd.Flags().BoolVar(&noComments, "no-comments", false, "strip comments")
	normalizeCmd.Flags().BoolVar(&noSpaces, "no-spaces", false, "collapse all whitespace")
	normalizeCmd.Flags().BoolVar(&uppercase, "uppercase", false, "uppercase code outside literals")
	normalizeCmd.Flags().BoolVar(&noLiterals, "no-literals", false, "blank out literal contents")
	normalizeCmd.Flags().BoolVar(&commentsOnly, "comments-only", false, "emit only comment text")
	normalizeCmd.Flags().BoolVar(&fullFlags, "full", false, "use the fixed NO_COMMENTS|NO_SPACES|UPPERCASE set")
	normalizeCmd.Flags().IntVar(&normalizeLines, "lines", 0, "stop after this many physical lines (0 means no limit)")
	_ = normalizeCmd.MarkFlagRequired("in")
	_ = normalizeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(normalizeCmd)
}
