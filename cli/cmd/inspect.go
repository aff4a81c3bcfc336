package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	plsqlnorm "github.com/vegvisir-data/plsqlnorm"
)

var (
	inspectIn string

	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Print is-sql/is-wrapped/is-wrappable verdicts for a source file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(inspectIn)
			if err != nil {
				return err
			}

			n := plsqlnorm.NewNormalizer()
			fmt.Printf("is-sql: %t\n", n.IsSQLBytes(raw))
			fmt.Printf("is-wrapped: %t\n", n.IsWrappedBytes(raw))
			fmt.Printf("is-wrappable: %t\n", n.IsWrappableBytes(raw))
			return nil
		},
	}
)

func init() {
	inspectCmd.Flags().StringVar(&inspectIn, "in", "", "input file path")
	_ = inspectCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(inspectCmd)
}
