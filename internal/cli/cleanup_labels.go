package cli

import (
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/labels"
)

// CleanupLabelsCommand deletes labels that no book carries.
type CleanupLabelsCommand struct {
	DatabasePath string
	DryRun       bool
}

func NewCleanupLabelsCommand() *CleanupLabelsCommand {
	return &CleanupLabelsCommand{}
}

func (cmd *CleanupLabelsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-labels", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", envOr("DATABASE_PATH", config.DefaultDatabasePath), "Path to the catalog database")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List orphan labels without deleting them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-labels [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete labels that are not attached to any book.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CleanupLabelsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel(logger.Silent))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := labels.NewRepository(db.DB)

	if cmd.DryRun {
		all, err := repo.ListLabels()
		if err != nil {
			return fmt.Errorf("failed to list labels: %w", err)
		}
		orphans := 0
		for _, l := range all {
			orphan, err := repo.IsLabelOrphan(l.ID)
			if err != nil {
				return fmt.Errorf("failed to check label %d: %w", l.ID, err)
			}
			if orphan {
				orphans++
				fmt.Printf("  %d\t%s\n", l.ID, l.Name)
			}
		}
		fmt.Printf("%d orphan label(s) would be deleted\n", orphans)
		return nil
	}

	deleted, err := repo.DeleteOrphanLabels()
	if err != nil {
		return fmt.Errorf("failed to delete orphan labels: %w", err)
	}
	fmt.Printf("Deleted %d orphan label(s)\n", deleted)
	return nil
}
