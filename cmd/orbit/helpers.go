package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orbit-llm/orbit/pkg/api"
	"github.com/orbit-llm/orbit/pkg/client"
	"github.com/orbit-llm/orbit/pkg/config"
	"github.com/orbit-llm/orbit/pkg/openrouter"
)

// buildClient loads configuration and constructs the pipeline client for a
// command invocation.
func buildClient(cmd *cobra.Command) (*client.Client, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return client.New(*cfg), nil
}

// buildExecutor constructs a bare API client for commands that talk to the
// provider directly, without retries or caching.
func buildExecutor(cmd *cobra.Command) (*openrouter.Client, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return openrouter.New(openrouter.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Referer: cfg.API.Referer,
		Title:   cfg.API.Title,
		Timeout: cfg.API.Timeout,
	}), nil
}

// optionsFromFlags translates the generation flags into call options,
// leaving unset flags to the configured defaults.
func optionsFromFlags(cmd *cobra.Command) api.GenerationOptions {
	var opts api.GenerationOptions

	if model, _ := cmd.Flags().GetString("model"); model != "" {
		opts.Model = model
	}
	if temp, _ := cmd.Flags().GetFloat64("temperature"); temp >= 0 {
		opts.Temperature = api.Float64Ptr(temp)
	}
	if maxTokens, _ := cmd.Flags().GetInt("max-tokens"); maxTokens > 0 {
		opts.MaxTokens = api.IntPtr(maxTokens)
	}

	return opts
}

// promptFromArgs joins positional arguments into one prompt string.
func promptFromArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// printUsage reports token accounting after a completed call. Usage is
// explicit per-result state, aggregated here by the caller.
func printUsage(usage api.Usage) {
	fmt.Printf("\n[tokens: %d prompt + %d completion = %d total]\n",
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}
