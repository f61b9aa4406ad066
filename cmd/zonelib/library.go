package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries",
		RunE:  runList,
	}
	listCmd.Flags().StringP("query", "q", "", "Filter by title substring")
	listCmd.Flags().StringP("tag", "t", "", "Filter by tag")
	listCmd.Flags().Bool("fuzzy", false, "Rank by title similarity instead of exact filtering")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}

	renameCmd := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change an entry's title",
		Args:  cobra.ExactArgs(2),
		RunE:  runRename,
	}

	tagCmd := &cobra.Command{
		Use:   "tag <id> <tag>...",
		Short: "Add tags to an entry",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runTag,
	}

	untagCmd := &cobra.Command{
		Use:   "untag <id> <tag>...",
		Short: "Remove tags from an entry",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runUntag,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry and its media file",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}

	rootCmd.AddCommand(listCmd, getCmd, renameCmd, tagCmd, untagCmd, rmCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	tag, _ := cmd.Flags().GetString("tag")
	fuzzy, _ := cmd.Flags().GetBool("fuzzy")

	client := NewClient(serverURL, libraryPassword())

	var entries []EntryResponse
	var err error
	if fuzzy && query != "" {
		// Fetch everything (tag filter still applies server-side) and
		// rank locally by title similarity.
		entries, err = client.List("", tag)
		if err == nil {
			entries = rankFuzzy(entries, query)
		}
	} else {
		entries, err = client.List(query, tag)
	}
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if jsonOutput {
		printJSON(entries)
		return nil
	}
	printEntryTable(entries)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	e, err := client.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch entry: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	printEntry(e)
	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	title := args[1]
	e, err := client.Patch(args[0], &title, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to rename entry: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Renamed %s to %q\n", e.MediaID, e.Title)
	return nil
}

func runTag(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	e, err := client.Patch(args[0], nil, args[1:], nil)
	if err != nil {
		return fmt.Errorf("failed to tag entry: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Tags for %s: %v\n", e.MediaID, e.Tags)
	return nil
}

func runUntag(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	e, err := client.Patch(args[0], nil, nil, args[1:])
	if err != nil {
		return fmt.Errorf("failed to untag entry: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Tags for %s: %v\n", e.MediaID, e.Tags)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	e, err := client.Delete(args[0])
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Deleted %q (%s)\n", e.Title, e.MediaID)
	return nil
}
