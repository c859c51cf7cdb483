package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/al-mudeer/inbox-agent/internal/model"
)

var (
	processMessage     string
	processMessageType string
	processSenderName  string
	processContact     string
	processHistory     string
	processPrefsFile   string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a single message and print the result as JSON",
	Long:  "Runs one message through the ingest/classify/extract/draft pipeline. The message comes from --message or stdin; preferences can be loaded from a JSON file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		message := processMessage
		if message == "" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return eris.Wrap(err, "process: read stdin")
			}
			message = strings.TrimSpace(string(data))
		}
		if message == "" {
			return eris.New("process: message is required (--message or stdin)")
		}

		var prefs *model.Preferences
		if processPrefsFile != "" {
			data, err := os.ReadFile(processPrefsFile)
			if err != nil {
				return eris.Wrap(err, "process: read preferences file")
			}
			prefs = &model.Preferences{}
			if err := json.Unmarshal(data, prefs); err != nil {
				return eris.Wrap(err, "process: parse preferences file")
			}
		}

		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		result := env.Orchestrator.Process(cmd.Context(), model.ProcessRequest{
			Message:             message,
			MessageType:         model.MessageType(processMessageType),
			SenderName:          processSenderName,
			SenderContact:       processContact,
			ConversationHistory: processHistory,
			Preferences:         prefs,
		})

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "process: encode result")
	},
}

func init() {
	processCmd.Flags().StringVarP(&processMessage, "message", "m", "", "message text (default: read from stdin)")
	processCmd.Flags().StringVar(&processMessageType, "type", "", "message channel: email, telegram, whatsapp, general")
	processCmd.Flags().StringVar(&processSenderName, "sender", "", "sender name, if known")
	processCmd.Flags().StringVar(&processContact, "contact", "", "sender email or phone, if known")
	processCmd.Flags().StringVar(&processHistory, "history", "", "prior conversation turns, plain text")
	processCmd.Flags().StringVar(&processPrefsFile, "preferences", "", "path to a JSON preferences file")
	rootCmd.AddCommand(processCmd)
}
