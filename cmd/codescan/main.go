package main

import (
	"os"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/app"
)

func main() {
	if err := app.BuildRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
