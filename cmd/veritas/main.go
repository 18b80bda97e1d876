package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "veritas",
		Short:         "Check short claims against trusted news and fact-checking sources",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newCheckCmd(), newDomainsCmd(), newSmoketestCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
