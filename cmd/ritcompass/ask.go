package main

import (
	"encoding/json"
	"strings"

	"ritcompass/internal/dto"
	"ritcompass/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func askCMD() *cobra.Command {
	var chatID string
	ask := &cobra.Command{
		Use:   "ask [question]",
		Short: "Run the pipeline once and print the response JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context(), prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer app.Close()

			if chatID == "" {
				chatID = uuid.NewString()
			}

			result, err := app.pipeline.Ask(cmd.Context(), service.AskRequest{
				Message: strings.Join(args, " "),
				ChatID:  chatID,
			})
			if err != nil {
				return err
			}

			categories := result.Categories
			if categories == nil {
				categories = []string{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.AskResponse{
				Status:     "categorized",
				Categories: categories,
				Data:       result.Data,
			})
		},
	}
	ask.Flags().StringVar(&chatID, "chat-id", "", "conversation id (default a random uuid)")

	return ask
}
