// Package cli implements the "chesslog db" admin commands
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"chesslog/internal/storage"
)

// Run is the entry point for the CLI mini-app
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, list, or query")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "list":
		return runList(args[1:])
	case "query":
		return runQuery(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func parsePath(name string, args []string, extra func(*flag.FlagSet)) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	if extra != nil {
		extra(fs)
	}

	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *path == "" {
		return "", fmt.Errorf("database path required")
	}
	return *path, nil
}

func runInit(args []string) error {
	path, err := parsePath("init", args, nil)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false, nil)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Printf("Database initialized at: %s\n", path)
	return nil
}

func runDelete(args []string) error {
	path, err := parsePath("delete", args, nil)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false, nil)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Printf("Database deleted: %s\n", path)
	return nil
}

func runList(args []string) error {
	path, err := parsePath("list", args, nil)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false, nil)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	records, err := store.Keys()
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No keys stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Key\tSize\tUpdated")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Key, len(r.Value), r.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()

	fmt.Printf("\nFound %d key(s)\n", len(records))
	return nil
}

func runQuery(args []string) error {
	var key *string
	var limit *int
	path, err := parsePath("query", args, func(fs *flag.FlagSet) {
		key = fs.String("key", "", "Key to filter (optional, * for all)")
		limit = fs.Int("limit", 50, "Maximum rows")
	})
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false, nil)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	records, err := store.QueryArchive(*key, *limit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No writes found")
		return nil
	}

	// Print results in tabular format
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKey\tSize\tWritten")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", r.ArchiveID, r.Key, r.Size, r.WrittenAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()

	fmt.Printf("\nFound %d write(s)\n", len(records))
	return nil
}
