package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:              "invograph",
		Short:            "Extract invocation chains and inheritance from Objective-C and Swift sources",
		Version:          version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbosity := 0
			if debug {
				verbosity = 2
			}
			commonlog.Configure(verbosity, nil)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log parse diagnostics")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
