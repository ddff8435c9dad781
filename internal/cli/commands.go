package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/config"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/ingest"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/pipeline"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/report"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/storage"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/tui"
)

func AddCommands(root *cobra.Command) {
	root.AddCommand(newScanCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newInitCmd())
}

func newScanCmd() *cobra.Command {
	var (
		format    string
		outFile   string
		useTUI    bool
		verbose   bool
		failUnder float64
	)
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a local Python project and print its quality report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			cfg, _, err := config.Load(path)
			if err != nil {
				return err
			}

			logger := zap.NewNop()
			if verbose {
				logger, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
			}

			// one-shot scans run in a throwaway workspace
			tmp, err := os.MkdirTemp("", "codescan-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(tmp)

			store, err := storage.New(tmp)
			if err != nil {
				return err
			}
			id, err := store.Create()
			if err != nil {
				return err
			}

			sum, err := ingest.CopyTree(path, store.InputDir(id), ingest.DefaultRules())
			if err != nil {
				return err
			}
			sum.Source = ingest.Source{Type: "local", Filename: path}
			if err := store.WriteJSON(id, storage.RawIngestion, sum); err != nil {
				return err
			}

			res, err := pipeline.New(store, cfg, logger).Run(cmd.Context(), id)
			if err != nil {
				return err
			}
			if res.Status == model.StatusFailed {
				return fmt.Errorf("no Python (.py) files found under %s", path)
			}

			for i := range res.Unified {
				res.Unified[i].File = store.RelPath(id, res.Unified[i].File)
			}

			if useTUI {
				return tui.Run(res.Score, res.Unified)
			}

			switch format {
			case "json":
				data, _ := json.MarshalIndent(map[string]any{
					"unified": res.Unified,
					"metrics": res.Metrics,
					"score":   res.Score,
				}, "", "  ")
				if err := writeOut(cmd, outFile, data); err != nil {
					return err
				}
			case "sarif":
				data, err := report.ToSARIF(res.Unified)
				if err != nil {
					return err
				}
				if err := writeOut(cmd, outFile, data); err != nil {
					return err
				}
			default:
				printTable(cmd, res)
			}

			if failUnder > 0 && res.Score.FinalScore < failUnder {
				return fmt.Errorf("score %.2f below threshold %.2f", res.Score.FinalScore, failUnder)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table|json|sarif")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write report to file instead of stdout")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Render interactive TUI output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stages")
	cmd.Flags().Float64Var(&failUnder, "fail-under", 0, "Exit non-zero when the final score is below this value")
	return cmd
}

func writeOut(cmd *cobra.Command, outFile string, data []byte) error {
	if outFile != "" {
		return os.WriteFile(outFile, data, 0o644)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printTable(cmd *cobra.Command, res pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Quality score: %.2f (penalty %.2f, %d LOC, %d issues)\n",
		res.Score.FinalScore, res.Score.Penalty, res.Score.LOC, res.Metrics.Totals.Issues)
	for _, it := range res.Unified {
		rule := it.RuleID
		if rule == "" {
			rule = "UNKNOWN"
		}
		fmt.Fprintf(out, "- %s:%s [%s] %s:%d %s\n", it.Tool, rule, it.Severity, it.File, it.Line, it.Message)
	}
	if len(res.Metrics.TopRefactorPriority) > 0 {
		fmt.Fprintln(out, "\nRefactor priority:")
		for _, fr := range res.Metrics.TopRefactorPriority {
			fmt.Fprintf(out, "  %s (risk %d: %d high, %d medium, %d low)\n",
				fr.File, fr.RiskScore, fr.High, fr.Medium, fr.Low)
		}
	}
}
