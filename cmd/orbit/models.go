package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/orbit-llm/orbit/pkg/openrouter"
)

func newModelsCmd() *cobra.Command {
	var known bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			var models []openrouter.ModelInfo

			if known {
				models = openrouter.KnownModels()
			} else {
				c, err := buildExecutor(cmd)
				if err != nil {
					return err
				}
				defer func() { _ = c.Close() }()

				models, err = c.ListModels(cmd.Context())
				if err != nil {
					return err
				}
			}

			sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
			for _, m := range models {
				if m.ContextLength > 0 {
					fmt.Printf("%-45s %8d ctx\n", m.ID, m.ContextLength)
				} else {
					fmt.Println(m.ID)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&known, "known", false, "list the built-in model table without a network call")
	return cmd
}
