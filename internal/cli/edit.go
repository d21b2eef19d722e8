package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var editRegenerate bool

var editCmd = &cobra.Command{
	Use:   "edit <conversation-id> <message-id> <content>",
	Short: "Edit a message, creating a new version",
	Long: `Edit a message by appending a new version with the given content.

Old versions are kept, along with any replies made against them; use
"treechat switch" to go back. With --regenerate, a fresh AI reply is
generated against the new version.

Examples:
  treechat edit 3f2a... 9c41... "Actually, make it three days"
  treechat edit 3f2a... 9c41... "Actually, make it three days" --regenerate`,
	Args: cobra.ExactArgs(3),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().BoolVarP(&editRegenerate, "regenerate", "r", false, "generate a new AI reply against the edited message")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	convID, msgID, content := args[0], args[1], args[2]

	result, err := api.EditMessage(ctx, convID, msgID, content, editRegenerate)
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}

	fmt.Printf("Message updated to %s.\n", result.UserMessage.CurrentVersion)

	if editRegenerate && result.AIMessage != nil {
		if reply := result.AIMessage.ActiveVersion(); reply != nil {
			fmt.Println()
			fmt.Println(reply.Content)
		}
	}
	return nil
}
