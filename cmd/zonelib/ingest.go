package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a media file",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}
	uploadCmd.Flags().String("title", "", "Entry title (default: derived from filename)")

	subsCmd := &cobra.Command{
		Use:   "subs <id> <file>",
		Short: "Attach a subtitle track (.vtt or .srt) to an entry",
		Args:  cobra.ExactArgs(2),
		RunE:  runSubs,
	}

	ytCmd := &cobra.Command{
		Use:   "yt <video-id>",
		Short: "Import a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE:  runYouTube,
	}

	tweetCmd := &cobra.Command{
		Use:   "tweet <url>",
		Short: "Import a tweet's video",
		Args:  cobra.ExactArgs(1),
		RunE:  runTweet,
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Import media files dropped in the server's dump directory",
		RunE:  runScan,
	}

	rootCmd.AddCommand(uploadCmd, subsCmd, ytCmd, tweetCmd, scanCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")

	client := NewClient(serverURL, libraryPassword())
	e, err := client.Upload(args[0], title)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Uploaded %q (%s)\n", e.Title, e.MediaID)
	return nil
}

func runSubs(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	e, err := client.PutSubtitles(args[0], args[1])
	if err != nil {
		return fmt.Errorf("subtitle upload failed: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Subtitles attached to %q: %s\n", e.Title, e.Subtitle)
	return nil
}

func runYouTube(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	e, err := client.GetYouTube(args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Imported %q (%s)\n", e.Title, e.MediaID)
	return nil
}

func runTweet(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	e, err := client.GetTweet(args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Imported %q (%s)\n", e.Title, e.MediaID)
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, libraryPassword())
	entries, err := client.UpdateLocal()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if jsonOutput {
		printJSON(entries)
		return nil
	}
	if len(entries) == 0 {
		fmt.Println("Nothing to import")
		return nil
	}
	fmt.Printf("Imported %d entries:\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %s  %s\n", e.MediaID, e.Title)
	}
	return nil
}
