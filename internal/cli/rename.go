package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <conversation-id> <title>",
	Short: "Rename a conversation",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	conv, err := api.UpdateConversationTitle(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("rename conversation: %w", err)
	}

	fmt.Printf("Renamed conversation to %q.\n", conv.Title)
	return nil
}
