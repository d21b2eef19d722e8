package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var switchCmd = &cobra.Command{
	Use:   "switch <conversation-id> <message-id> <version>",
	Short: "Switch a message's active version",
	Long: `Switch which version of a message is active.

Versions are labelled v1, v2, ... in creation order. Replies stay attached
to the version they were made against, so switching back restores the old
branch of the conversation.

Examples:
  treechat switch 3f2a... 9c41... v1`,
	Args: cobra.ExactArgs(3),
	RunE: runSwitch,
}

func runSwitch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	convID, msgID, versionID := args[0], args[1], args[2]

	if _, err := api.SwitchVersion(ctx, convID, msgID, versionID); err != nil {
		return fmt.Errorf("switch version: %w", err)
	}

	fmt.Printf("Message %s now on %s.\n", msgID, versionID)
	return nil
}
