package cmd

import (
	"github.com/spf13/cobra"

	plsqlnorm "github.com/vegvisir-data/plsqlnorm"
)

var (
	unwrapIn  string
	unwrapOut string

	unwrapCmd = &cobra.Command{
		Use:   "unwrap",
		Short: "Decode an Oracle-wrapped PL/SQL source file",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := plsqlnorm.NewWrapper()
			_, err := w.UnwrapPath(unwrapIn, unwrapOut)
			return err
		},
	}
)

func init() {
	unwrapCmd.Flags().StringVar(&unwrapIn, "in", "", "input file path")
	unwrapCmd.Flags().StringVar(&unwrapOut, "out", "", "output file path")
	_ = unwrapCmd.MarkFlagRequired("in")
	_ = unwrapCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(unwrapCmd)
}
