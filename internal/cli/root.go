// Package cli provides the command-line interface for treechat.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mgrote/treechat/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// API client, initialized before every command runs.
	api *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "treechat",
	Short: "Branching AI conversations from the terminal",
	Long: `Treechat is a client for the treechat server: multi-turn AI conversations
stored as versioned trees.

Every message keeps its full edit history, and editing a message branches the
conversation instead of destroying what came after it. Switch between versions
to explore alternative replies.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		api = client.New(serverURL)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default $TREECHAT_SERVER_URL or http://localhost:8686)")

	// Add subcommands
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
}
