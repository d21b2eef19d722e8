package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mgrote/treechat/internal/models"
)

var (
	listOffset int
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Long: `List conversations, most recently updated first.

Examples:
  treechat list
  treechat list --limit 10
  treechat list --offset 50`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "max results")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "pagination offset")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	convs, err := api.ListConversations(ctx, listOffset, listLimit)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	if len(convs) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	rows := make([][]string, 0, len(convs))
	for _, conv := range convs {
		id, err := models.RecordIDString(conv.ID)
		if err != nil {
			id = fmt.Sprintf("%v", conv.ID.ID)
		}
		rows = append(rows, []string{
			id,
			conv.Title,
			strconv.Itoa(len(conv.Messages)),
			conv.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers("ID", "Title", "Messages", "Updated").
		Rows(rows...)

	fmt.Println(t)
	return nil
}
