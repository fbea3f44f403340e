// Command orbit is a small CLI front end for the orbit OpenRouter client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orbit-llm/orbit/pkg/debug"
)

var version = "dev"

func main() {
	debug.Init("", "")

	root := &cobra.Command{
		Use:     "orbit",
		Short:   "Resilient OpenRouter chat-completion client",
		Version: version,
	}

	root.PersistentFlags().String("config", "", "path to config file")
	root.PersistentFlags().String("model", "", "model identifier (overrides configured default)")
	root.PersistentFlags().Float64("temperature", -1, "sampling temperature in [0,2]")
	root.PersistentFlags().Int("max-tokens", 0, "completion token limit")

	root.AddCommand(
		newChatCmd(),
		newStreamCmd(),
		newExplainCmd(),
		newOptimizeCmd(),
		newGenCmd(),
		newModelsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
