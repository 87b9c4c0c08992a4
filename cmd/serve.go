package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/estatemarket/estate-frontend/internal/serve"
)

const envPrefix = "ESTATE_FRONTEND"

type serveCmd struct{}

func (c *serveCmd) Command() *cobra.Command {
	cfg := serve.Configs{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Estate Market web frontend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			v.SetEnvPrefix(envPrefix)
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("binding flags: %w", err)
			}

			cfg.Port = v.GetInt("port")
			cfg.NodeRPCURL = v.GetString("node-rpc-url")
			cfg.ContractAddress = v.GetString("contract-address")
			cfg.ContractABIPath = v.GetString("contract-abi-path")
			cfg.SessionSecret = v.GetString("session-secret")
			cfg.SessionTTL = v.GetDuration("session-ttl")

			logLevel := v.GetString("log-level")
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("parsing log level %q: %w", logLevel, err)
			}
			cfg.LogLevel = level

			if cfg.NodeRPCURL == "" {
				return fmt.Errorf("node-rpc-url is required")
			}
			if cfg.ContractAddress == "" {
				return fmt.Errorf("contract-address is required")
			}
			if cfg.SessionSecret == "" {
				return fmt.Errorf("session-secret is required")
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Run(cfg)
		},
	}

	cmd.Flags().Int("port", 8000, "Port to listen and serve on")
	cmd.Flags().String("node-rpc-url", "", "Blockchain node JSON-RPC endpoint URL")
	cmd.Flags().String("contract-address", "", "Address of the marketplace contract")
	cmd.Flags().String("contract-abi-path", "", "Path to a contract ABI JSON file overriding the built-in one")
	cmd.Flags().String("session-secret", "", "Secret used to sign session cookies")
	cmd.Flags().Duration("session-ttl", 0, "Session lifetime; 0 uses the default")
	cmd.Flags().String("log-level", "info", "Minimum log severity")

	return cmd
}

func (c *serveCmd) Run(cfg serve.Configs) error {
	err := serve.Serve(cfg)
	if err != nil {
		return fmt.Errorf("running serve: %w", err)
	}
	return nil
}
