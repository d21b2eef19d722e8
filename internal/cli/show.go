package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mgrote/treechat/internal/models"
)

var showFull bool

var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Show a conversation tree",
	Long: `Show the full message tree of a conversation.

Each message is shown with its active version. Messages with multiple versions
are marked (e.g. v2/3); use "treechat switch" to change the active version.

Examples:
  treechat show 3f2a...
  treechat show 3f2a... --full`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showFull, "full", false, "print full message content instead of truncating")
}

var (
	userStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	aiStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	conv, err := api.GetConversation(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}

	fmt.Printf("%s\n\n", conv.Title)

	if len(conv.Messages) == 0 {
		fmt.Println("(empty conversation)")
		return nil
	}

	// Children grouped by parent, preserving creation order.
	children := make(map[models.MessageID][]*models.Message)
	var roots []*models.Message
	for i := range conv.Messages {
		msg := &conv.Messages[i]
		if msg.ParentID == nil {
			roots = append(roots, msg)
			continue
		}
		children[*msg.ParentID] = append(children[*msg.ParentID], msg)
	}

	for _, root := range roots {
		printMessageTree(root, children, 0)
	}
	return nil
}

func printMessageTree(msg *models.Message, children map[models.MessageID][]*models.Message, depth int) {
	indent := strings.Repeat("  ", depth)

	label := userStyle.Render("user")
	if msg.Sender == models.SenderAI {
		label = aiStyle.Render("ai")
	}

	content := "(missing version)"
	if v := msg.ActiveVersion(); v != nil {
		content = v.Content
	}
	if !showFull && len(content) > 80 {
		content = content[:77] + "..."
	}

	versions := ""
	if len(msg.Versions) > 1 {
		versions = dimStyle.Render(fmt.Sprintf(" [v%d/%d]", msg.CurrentVersion.Number(), len(msg.Versions)))
	}

	fmt.Printf("%s%s%s: %s\n", indent, label, versions, content)
	if verbose {
		fmt.Printf("%s%s\n", indent, dimStyle.Render("  id: "+string(msg.ID)))
	}

	for _, child := range children[msg.ID] {
		printMessageTree(child, children, depth+1)
	}
}
