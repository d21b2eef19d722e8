package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteMessageID string

var deleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a conversation or a message subtree",
	Long: `Delete a conversation, or with --message a single message and all of
its descendants.

Deleting a message removes its whole subtree; if that covers every message
in the conversation, the conversation itself is deleted.

Examples:
  treechat delete 3f2a...
  treechat delete 3f2a... --message 9c41...`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteMessageID, "message", "m", "", "delete only this message and its descendants")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	convID := args[0]

	if deleteMessageID != "" {
		if err := api.DeleteMessage(ctx, convID, deleteMessageID); err != nil {
			return fmt.Errorf("delete message: %w", err)
		}
		fmt.Printf("Deleted message %s and its descendants.\n", deleteMessageID)
		return nil
	}

	if err := api.DeleteConversation(ctx, convID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	fmt.Printf("Deleted conversation %s.\n", convID)
	return nil
}
