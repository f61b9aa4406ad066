package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// formatDuration renders a millisecond duration as m:ss or h:mm:ss.
func formatDuration(millis int64) string {
	if millis <= 0 {
		return "-"
	}
	d := time.Duration(millis) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func printEntryTable(entries []EntryResponse) {
	if len(entries) == 0 {
		fmt.Println("No entries")
		return
	}

	fmt.Printf("  %-36s %-8s %-40s %s\n", "ID", "LENGTH", "TITLE", "TAGS")
	fmt.Println("  " + strings.Repeat("-", 95))
	for _, e := range entries {
		title := e.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("  %-36s %-8s %-40s %s\n",
			e.MediaID, formatDuration(e.Duration), title, strings.Join(e.Tags, ","))
	}
}

func printEntry(e *EntryResponse) {
	fmt.Printf("ID:       %s\n", e.MediaID)
	fmt.Printf("Title:    %s\n", e.Title)
	fmt.Printf("File:     %s\n", e.Filename)
	fmt.Printf("Length:   %s\n", formatDuration(e.Duration))
	fmt.Printf("Source:   %s\n", e.Src)
	if e.Subtitle != "" {
		fmt.Printf("Subtitle: %s\n", e.Subtitle)
	}
	if len(e.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(e.Tags, ", "))
	}
}
