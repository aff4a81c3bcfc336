package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	plsqlnorm "github.com/vegvisir-data/plsqlnorm"
	"github.com/vegvisir-data/plsqlnorm/internal/lex"
	"github.com/vegvisir-data/plsqlnorm/internal/verify"
)

var (
	verifyIn       string
	verifyDatabase string
	verifyConfig   string

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Deploy a normalized declaration into a scratch schema to confirm it is valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.StandardLogger()
			ctx := context.Background()

			cfg, err := verify.LoadConfig(verifyConfig)
			if err != nil {
				return err
			}
			dbcfg, ok := cfg.Databases[verifyDatabase]
			if !ok {
				return errors.New(fmt.Sprintf("database %q not present in %s", verifyDatabase, verifyConfig))
			}

			db, err := dbcfg.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			n := plsqlnorm.NewNormalizer()
			declaration, err := n.NormalizePath(verifyIn, plsqlnorm.FlagSet(plsqlnorm.NoComments|plsqlnorm.Uppercase), 0, "")
			if err != nil {
				return err
			}

			pos := lex.Pos{File: lex.FileRef(verifyIn), Line: 1, Col: 1}
			if err := verify.Deploy(ctx, db, declaration, pos); err != nil {
				return err
			}
			fmt.Println("verify: declaration deployed and torn down cleanly")
			return nil
		},
	}
)

func init() {
	verifyCmd.Flags().StringVar(&verifyIn, "in", "", "input file path")
	verifyCmd.Flags().StringVar(&verifyDatabase, "database", "", "database name from plsqlnorm.yaml")
	verifyCmd.Flags().StringVar(&verifyConfig, "config", "plsqlnorm.yaml", "path to the database configuration file")
	_ = verifyCmd.MarkFlagRequired("in")
	_ = verifyCmd.MarkFlagRequired("database")
	rootCmd.AddCommand(verifyCmd)
}
