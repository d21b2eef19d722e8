package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	chatLanguage string
	chatPersona  string
)

var chatCmd = &cobra.Command{
	Use:   "chat <conversation-id> <message>",
	Short: "Send a message and print the AI reply",
	Long: `Send a message to a conversation and print the generated reply.

The reply is anchored to the latest AI message, so repeated calls continue
the active branch of the tree.

Examples:
  treechat chat 3f2a... "What should I pack for Iceland?"
  treechat chat 3f2a... "Explain it simply" --persona concise
  treechat chat 3f2a... "Wie funktioniert das?" --language German`,
	Args: cobra.ExactArgs(2),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatLanguage, "language", "l", "", "language the reply should be written in")
	chatCmd.Flags().StringVarP(&chatPersona, "persona", "p", "", "reply persona (general, technical, creative, concise)")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	convID, content := args[0], args[1]

	result, err := api.SendMessage(ctx, convID, content, chatLanguage, chatPersona)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	if result.AIMessage == nil {
		fmt.Println("Message stored, but no reply was generated.")
		return nil
	}

	reply := result.AIMessage.ActiveVersion()
	if reply == nil {
		return fmt.Errorf("reply message %s has no active version", result.AIMessage.ID)
	}

	fmt.Println(reply.Content)
	if verbose {
		fmt.Printf("\nuser message: %s\nai message:   %s\n", result.UserMessage.ID, result.AIMessage.ID)
	}
	return nil
}
