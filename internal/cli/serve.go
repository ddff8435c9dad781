package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/config"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/pipeline"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/server"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/storage"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		storageDir string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scan HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := config.Load(".")
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			if storageDir != "" {
				cfg.StorageDir = storageDir
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if cfgPath != "" {
				logger.Info("loaded config", zap.String("path", cfgPath))
			}

			store, err := storage.New(cfg.StorageDir)
			if err != nil {
				return err
			}
			pipe := pipeline.New(store, cfg, logger)
			return server.New(store, pipe, cfg, logger).ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&storageDir, "storage", "", "Scan storage directory (overrides config)")
	return cmd
}
