package main

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/mysticbob/apitrace/internal/config"
	"github.com/mysticbob/apitrace/trace"
)

var diffCmd = &cobra.Command{
	Use:   "diff <trace-a> <trace-b>",
	Short: "Show a unified diff between two traces' call sequences",
	Args:  cobra.ExactArgs(2),
	RunE: wrap(func(conf *config.Config, cmd *cobra.Command, args []string) error {
		a, errA := decodeAll(args[0], nil)
		if errA != nil {
			return errA
		}
		b, errB := decodeAll(args[1], nil)
		if errB != nil {
			return errB
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(joinCalls(a)),
			B:        difflib.SplitLines(joinCalls(b)),
			FromFile: args[0],
			ToFile:   args[1],
			Context:  3,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
		return nil
	}),
}

func joinCalls(calls []*trace.Call) string {
	s := ""
	for _, c := range calls {
		s += c.String() + "\n"
	}
	return s
}
