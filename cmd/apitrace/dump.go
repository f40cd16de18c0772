package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mysticbob/apitrace/internal/config"
	"github.com/mysticbob/apitrace/internal/msgpexport"
)

var (
	dumpURL    string
	dumpOnly   []string
	dumpFormat string
)

var dumpCmd = &cobra.Command{
	Use:   "dump [trace-file]",
	Short: "Print every call in a trace, one per line",
	Args:  cobra.MaximumNArgs(1),
	RunE: wrap(func(conf *config.Config, cmd *cobra.Command, args []string) error {
		var pathArg string
		if len(args) == 1 {
			pathArg = args[0]
		}
		path, cleanup, err := resolvePath(pathArg, dumpURL)
		if err != nil {
			return err
		}
		defer cleanup()

		calls, decodeErr := decodeAll(path, dumpOnly)

		switch dumpFormat {
		case "text", "":
			for _, c := range calls {
				fmt.Fprintln(cmd.OutOrStdout(), c.String())
			}
		case "msgpack":
			var buf []byte
			buf = msgpexport.AppendCalls(buf, calls)
			if _, err := cmd.OutOrStdout().Write(buf); err != nil {
				return err
			}
		default:
			return errors.Errorf("unknown --format %q", dumpFormat)
		}
		return decodeErr
	}),
}

func init() {
	dumpCmd.Flags().StringVar(&dumpURL, "url", "", "fetch the trace from this URL instead of a local file")
	dumpCmd.Flags().StringSliceVar(&dumpOnly, "only", nil, "only show calls to these function names")
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "text", "output format: text or msgpack")
}
