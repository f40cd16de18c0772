package main

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mysticbob/apitrace/internal/config"
)

var statsOnly []string

var statsCmd = &cobra.Command{
	Use:   "stats <trace-file>",
	Short: "Show a per-function call count table",
	Args:  cobra.ExactArgs(1),
	RunE: wrap(func(conf *config.Config, cmd *cobra.Command, args []string) error {
		calls, decodeErr := decodeAll(args[0], statsOnly)

		counts := map[string]int{}
		for _, c := range calls {
			counts[c.Name()]++
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		table := defaultTable(cmd.OutOrStdout())
		table.SetHeader([]string{"function", "calls"})
		for _, name := range names {
			table.Append([]string{name, strconv.Itoa(counts[name])})
		}
		table.Render()

		return decodeErr
	}),
}

func init() {
	statsCmd.Flags().StringSliceVar(&statsOnly, "only", nil, "only count calls to these function names")
}
