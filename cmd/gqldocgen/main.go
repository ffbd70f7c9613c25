package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/vvakame/typeddoc/internal/codegen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "gqldocgen",
		Short:         "Generate typed GraphQL document registries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", codegen.DefaultConfigFile, "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	setup := func(cmd *cobra.Command) (context.Context, *codegen.Config, error) {
		if verbose {
			stdr.SetVerbosity(1)
		}
		logger := stdr.New(log.New(cmd.ErrOrStderr(), "", log.LstdFlags))
		ctx := logr.NewContext(cmd.Context(), logger)

		cfg, err := codegen.LoadConfig(cfgFile)
		if err != nil {
			return nil, nil, err
		}
		return ctx, cfg, nil
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Write the registry package from the schema and the documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			res, err := codegen.Generate(ctx, cfg)
			if err != nil {
				return err
			}
			if err := res.Write(cfg); err != nil {
				return err
			}
			for _, f := range res.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s\n", cfg.Output, f.Name)
			}
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Fail when the registry package is stale or a call site uses the wrong types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			return codegen.Check(ctx, cfg)
		},
	})

	return rootCmd
}
