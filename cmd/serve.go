package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner over a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{logLevel: "info", withLLM: true})
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.Serve.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}
		if e.cfg.Log.Mode == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}

		router := httpapi.NewRouter(httpapi.RouterConfig{
			Handler:      httpapi.NewHandler(e.log, e.svc, e.coach()),
			Log:          e.log,
			AllowOrigins: e.cfg.Serve.AllowOrigins,
		})
		fmt.Fprintf(cmd.OutOrStdout(), "Serving session %q on %s\n", e.svc.Key(), addr)
		return httpapi.NewServer(addr, router, e.log).Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides serve.addr, default :8080)")
}
