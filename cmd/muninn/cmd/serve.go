package cmd

import (
	"github.com/spf13/cobra"

	"github.com/muninndb/muninn/pkg/api"
	"github.com/muninndb/muninn/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the codec HTTP API",
	Long: `Start the HTTP API exposing decode, encode and schema catalog
operations, plus prometheus metrics.

Examples:
  muninn serve --port 8080
  muninn serve --config ./muninn.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		lenient, _ := cmd.Flags().GetBool("lenient")
		configPath, _ := cmd.Flags().GetString("config")

		if configPath == "" && config.ConfigExists(config.GetDefaultConfigPath()) {
			configPath = config.GetDefaultConfigPath()
		}
		if configPath != "" {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Port
			}
			if !cmd.Flags().Changed("bind") {
				bind = cfg.Bind
			}
			if !cmd.Flags().Changed("lenient") {
				lenient = cfg.Codec.Lenient
			}
		}

		cat, err := catalogFromContext(cmd)
		if err != nil {
			return err
		}

		return api.StartServer(cat, api.ServerConfig{
			Bind:    bind,
			Port:    port,
			Lenient: lenient,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind")
	serveCmd.Flags().Bool("lenient", false, "Legacy-truncation encode mode for the encode endpoint")
	serveCmd.Flags().String("config", "", "Path to a muninn config file")
}
