package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiger884/retro-pc-store/internal/app"
	"github.com/Tiger884/retro-pc-store/internal/gateway"
	"github.com/Tiger884/retro-pc-store/internal/server"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

var rootCmd = &cobra.Command{
	Use:           "retro-pc-store",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
			gateway.StartGateway,
		).Run()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Named("cmd").Errorf("command failed: %v", err)
		os.Exit(1)
	}
}
