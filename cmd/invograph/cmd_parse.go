package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/invograph/invograph/format"
	"github.com/invograph/invograph/grammar"
	"github.com/invograph/invograph/graph"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Extract invocation chains and inheritance from one source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read %s: %w", filename, err)
			}

			extractor := grammar.New(commonlog.GetLogger("invograph.grammar"))
			res := extractor.ExtractSource(data, filename)

			builder := graph.NewBuilder()
			builder.AddFile(res)

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "text":
				encoder = format.NewTextEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return encoder.Encode(format.NewReport(builder, nil))
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
