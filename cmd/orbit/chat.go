package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orbit-llm/orbit/pkg/api"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <prompt>",
		Short: "Send a prompt and print the completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			result, err := c.GenerateCompletion(cmd.Context(),
				[]api.Message{api.UserMessage(promptFromArgs(args))},
				optionsFromFlags(cmd))
			if err != nil {
				return err
			}

			fmt.Println(result.Content)
			printUsage(result.Usage)
			return nil
		},
	}
}

func newStreamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stream <prompt>",
		Short: "Send a prompt and print the completion as it is generated",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			chunks, errCh, err := c.StreamCompletion(cmd.Context(),
				[]api.Message{api.UserMessage(promptFromArgs(args))},
				optionsFromFlags(cmd))
			if err != nil {
				return err
			}

			for chunk := range chunks {
				fmt.Print(chunk)
			}
			fmt.Println()

			if streamErr := <-errCh; streamErr != nil {
				return streamErr
			}
			return nil
		},
	}
}
