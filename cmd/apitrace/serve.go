package main

import (
	"context"
	"fmt"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/mysticbob/apitrace/internal/config"
	"github.com/mysticbob/apitrace/internal/httpserver"
	"github.com/mysticbob/apitrace/internal/render"
)

var (
	serveAddr      string
	serveOnly      []string
	serveNoBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve <trace-file>",
	Short: "Serve a trace's calls and timeline over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: wrap(func(conf *config.Config, cmd *cobra.Command, args []string) error {
		calls, decodeErr := decodeAll(args[0], serveOnly)
		if decodeErr != nil {
			return decodeErr
		}

		addr := serveAddr
		if addr == "" {
			addr = conf.ListenAddr
		}
		rule, ok := render.ColorRuleNames[conf.ColorRule]
		if !ok {
			rule = render.ColorByFunction
		}
		srv := httpserver.New(addr, calls, render.Colors{NColors: conf.ColorCount, Rule: rule})

		addrCh := make(chan string, 1)
		go func() {
			bound := <-addrCh
			url := fmt.Sprintf("http://%s", bound)
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", url)
			if !serveNoBrowser {
				if err := open.Run(url); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "apitrace: open browser: %v\n", err)
				}
			}
		}()
		return srv.Run(context.Background(), addrCh)
	}),
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (default from config)")
	serveCmd.Flags().StringSliceVar(&serveOnly, "only", nil, "only serve calls to these function names")
	serveCmd.Flags().BoolVarP(&serveNoBrowser, "no-browser", "b", false, "does not open web browser")
}
