package main

import (
	"github.com/spf13/cobra"

	"github.com/pccclearclinic/form-filling-template/internal/app"
	"github.com/pccclearclinic/form-filling-template/internal/observability"
	"github.com/pccclearclinic/form-filling-template/internal/server"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve document generation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd, root, app.WithMetrics(observability.NewMetrics(nil)))
			if err != nil {
				return err
			}
			defer closeApp(a)

			if cmd.Flags().Changed("addr") {
				a.Config.Server.Addr = addr
			}
			return server.New(a).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from FORMFILL_SERVER_ADDR or :8080)")
	return cmd
}
