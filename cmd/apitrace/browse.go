package main

import (
	"github.com/spf13/cobra"

	"github.com/mysticbob/apitrace/internal/browse"
	"github.com/mysticbob/apitrace/internal/config"
)

var browseOnly []string

var browseCmd = &cobra.Command{
	Use:   "browse <trace-file>",
	Short: "Browse a trace's calls in a terminal UI",
	Args:  cobra.ExactArgs(1),
	RunE: wrap(func(conf *config.Config, cmd *cobra.Command, args []string) error {
		calls, decodeErr := decodeAll(args[0], browseOnly)
		if decodeErr != nil {
			return decodeErr
		}
		return browse.Run(calls)
	}),
}

func init() {
	browseCmd.Flags().StringSliceVar(&browseOnly, "only", nil, "only show calls to these function names")
}
