package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samhotchkiss/biztask/internal/assistant"
)

func runAsk(cmd *cobra.Command, args []string) error {
	utterance := strings.TrimSpace(strings.Join(args, " "))
	if utterance == "" {
		return fmt.Errorf("utterance must not be empty")
	}

	bot := assistant.New(newModel(), assistant.Options{
		Model:   cfg.Assistant.Model,
		Timeout: cfg.Assistant.Timeout,
		Logger:  logger,
	})
	reply := bot.GetReply(cmd.Context(), utterance, nil)
	_, err := fmt.Fprintln(cmd.OutOrStdout(), reply)
	return err
}
