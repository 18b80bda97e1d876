package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stake-plus/veritas/src/config"
	"github.com/stake-plus/veritas/src/data"
	"github.com/stake-plus/veritas/src/factcheck"
	"github.com/stake-plus/veritas/src/logging"
)

func newDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "Print the effective trusted domain list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg := config.Load()
			log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			var al *factcheck.Allowlist
			var source config.DomainSource
			if dsn, ok := data.GetMySQLDSN(); ok {
				db, err := data.ConnectMySQL(dsn, log)
				if err != nil {
					return err
				}
				al, source, err = config.LoadAllowlist(db, cfg.TrustedDomainsFile)
				if err != nil {
					return err
				}
			} else {
				al, source, err = config.LoadAllowlist(nil, cfg.TrustedDomainsFile)
				if err != nil {
					return err
				}
			}

			log.Debug("allow-list resolved", zap.String("source", string(source)))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %d trusted domains (%s)\n", al.Len(), source)
			for _, d := range al.Entries() {
				fmt.Fprintln(out, d)
			}
			return nil
		},
	}
}
