package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExplainCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Explain a piece of code",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := codeInput(file, args)
			if err != nil {
				return err
			}

			c, err := buildClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			result, err := c.ExplainCode(cmd.Context(), code, optionsFromFlags(cmd))
			if err != nil {
				return err
			}

			fmt.Println(result.Content)
			printUsage(result.Usage)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read code from file instead of arguments")
	return cmd
}

func newOptimizeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "optimize [code]",
		Short: "Suggest improvements for a piece of code",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := codeInput(file, args)
			if err != nil {
				return err
			}

			c, err := buildClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			result, err := c.OptimizeCode(cmd.Context(), code, optionsFromFlags(cmd))
			if err != nil {
				return err
			}

			fmt.Println(result.Content)
			printUsage(result.Usage)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read code from file instead of arguments")
	return cmd
}

func newGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen <description>",
		Short: "Generate code from a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			result, err := c.GenerateCode(cmd.Context(), promptFromArgs(args), optionsFromFlags(cmd))
			if err != nil {
				return err
			}

			fmt.Println(result.Content)
			printUsage(result.Usage)
			return nil
		},
	}
}

// codeInput reads the code to operate on from --file or the arguments.
func codeInput(file string, args []string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
	if code := promptFromArgs(args); code != "" {
		return code, nil
	}
	return "", fmt.Errorf("provide code as arguments or via --file")
}
