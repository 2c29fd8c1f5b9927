package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the cloud insights chatbot",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question is empty")
	}

	cfg := loadConfig()
	ctx, cancel := commandContext(cmd.Context(), consoleLogger(cfg))
	defer cancel()

	answer, err := newClient(cfg).Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("Failed to connect to chatbot: %w", err) //nolint:staticcheck // user-facing message
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		fmt.Println(answer)
		return nil
	}
	out, err := r.Render(answer)
	if err != nil {
		fmt.Println(answer)
		return nil
	}
	fmt.Print(out)
	return nil
}
