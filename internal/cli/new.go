package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgrote/treechat/internal/models"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Start a new conversation",
	Long: `Start a new, empty conversation with the given title.

Examples:
  treechat new "Trip planning"
  treechat new "Debugging the scheduler"`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	conv, err := api.CreateConversation(ctx, args[0])
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	id, err := models.RecordIDString(conv.ID)
	if err != nil {
		return fmt.Errorf("read conversation id: %w", err)
	}

	fmt.Printf("Created conversation: %s (%s)\n", conv.Title, id)
	return nil
}
