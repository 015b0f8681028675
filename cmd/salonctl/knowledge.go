package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/beauteq/salon-assistant/pkg/db"
	"github.com/beauteq/salon-assistant/pkg/knowledge"
	gormstore "github.com/beauteq/salon-assistant/pkg/store/gorm"
)

// knowledgeCmd represents the knowledge command
var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage the retrieval corpus",
	Long:  `Import and watch the knowledge corpus the assistant retrieves answers from.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'knowledge' requires a subcommand (import, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// knowledgeImportCmd represents the knowledge import command
var knowledgeImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a corpus file into the database",
	Long: `Import a corpus file into the database.

YAML files hold a list of category/keywords/content entries. Markdown
files use level-2 headings as categories, with an optional "keywords:"
line in each section.

Entries replace existing entries with the same category.

Example:
  salonctl knowledge import corpus.yml
  salonctl knowledge import salon-faq.md`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		importer, err := newImporter()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		n, err := importer.ImportFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d entries from %s\n", n, args[0])
	},
}

// knowledgeWatchCmd represents the knowledge watch command
var knowledgeWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a corpus file and reimport it when it changes",
	Long: `Watch a corpus file and reimport it whenever it is modified.

Example:
  salonctl knowledge watch corpus.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		importer, err := newImporter()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Import once up front so the watch starts from a known state
		if n, err := importer.ImportFile(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Initial import failed: %v\n", err)
		} else {
			fmt.Printf("Imported %d entries from %s\n", n, args[0])
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := importer.Watch(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch corpus: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(knowledgeCmd)
	knowledgeCmd.AddCommand(knowledgeImportCmd)
	knowledgeCmd.AddCommand(knowledgeWatchCmd)
}

func newImporter() (*knowledge.Importer, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return knowledge.NewImporter(gormstore.NewKnowledgeStore(database)), nil
}
