package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/history"
)

// HistoryCmd prints recent build records.
type HistoryCmd struct {
	Limit int `name:"limit" default:"10" help:"Number of records to show"`
}

func (h *HistoryCmd) Run(_ *Global, _ *CLI) error {
	store, err := history.Open(history.DefaultPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded yet")
		return nil
	}

	for _, rec := range records {
		line := fmt.Sprintf("%s  %-8s  posts: %-3d pages: %-3d %s",
			rec.Started.Format(time.RFC3339), rec.Outcome, rec.Posts, rec.Pages,
			rec.Duration.Round(time.Millisecond))
		if rec.Error != "" {
			line += "  error: " + rec.Error
		}
		fmt.Println(line)
	}
	return nil
}
