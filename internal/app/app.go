package app

import (
	"github.com/spf13/cobra"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/cli"
)

func BuildRoot() *cobra.Command {
	root := &cobra.Command{Use: "codescan", Short: "Static-analysis pipeline and quality scoring for Python codebases"}
	cli.AddCommands(root)
	return root
}
