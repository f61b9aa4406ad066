package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Check the configured password against the server",
		RunE:  runAuth,
	}

	limitCmd := &cobra.Command{
		Use:   "limit",
		Short: "Show the server's upload size limit",
		RunE:  runLimit,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent library mutations",
		RunE:  runHistory,
	}
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")

	rootCmd.AddCommand(authCmd, limitCmd, historyCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	resp, err := client.Auth()
	if err != nil {
		return fmt.Errorf("auth check failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Println("Authorized")
	return nil
}

func runLimit(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	resp, err := client.Limit()
	if err != nil {
		return fmt.Errorf("failed to fetch limit: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Printf("Upload limit: %d MB\n", resp.Limit/(1<<20))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	client := NewClient(serverURL, libraryPassword())
	events, err := client.History(limit)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if jsonOutput {
		printJSON(events)
		return nil
	}

	if len(events) == 0 {
		fmt.Println("No events")
		return nil
	}

	fmt.Printf("  %-20s %-10s %-36s\n", "TIME", "EVENT", "MEDIA")
	fmt.Println("  " + strings.Repeat("-", 70))
	for _, e := range events {
		fmt.Printf("  %-20s %-10s %-36s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Event, e.MediaID)
	}
	return nil
}
