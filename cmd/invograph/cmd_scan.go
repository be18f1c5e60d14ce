package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/invograph/invograph/format"
	"github.com/invograph/invograph/scanner"
)

func newScanCmd() *cobra.Command {
	var (
		outputFormat string
		jobs         int
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Scan a directory tree and build the invocation graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			s := scanner.New(
				scanner.WithJobs(jobs),
				scanner.WithLogger(commonlog.GetLogger("invograph.scanner")),
			)

			emit := func(res *scanner.Result) error {
				switch outputFormat {
				case "dot":
					_, err := fmt.Fprint(os.Stdout, res.Graph.Dot())
					return err
				case "mermaid":
					_, err := fmt.Fprint(os.Stdout, res.Graph.Mermaid())
					return err
				case "json":
					return format.NewJSONEncoder(os.Stdout).Encode(format.NewReport(res.Graph, res.Errors))
				case "text":
					return format.NewTextEncoder(os.Stdout).Encode(format.NewReport(res.Graph, res.Errors))
				default:
					return fmt.Errorf("unknown format: %s", outputFormat)
				}
			}

			if watch {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				return s.Watch(ctx, root, func(res *scanner.Result) {
					if err := emit(res); err != nil {
						fmt.Fprintln(os.Stderr, err)
					}
				})
			}

			res, err := s.ScanDir(cmd.Context(), root)
			if err != nil {
				return err
			}
			return emit(res)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json, dot, mermaid)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "number of files to parse concurrently")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "watch the directory and rescan on changes")

	return cmd
}
