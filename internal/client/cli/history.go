package cli

import (
	"context"
	"fmt"
)

// History lists past check-ins recorded on this device, newest first.
func (a *App) History(ctx context.Context) error {
	records, err := a.history.List(ctx)
	if err != nil {
		printlnFn("Could not read check-in history:", err.Error())
		return err
	}
	if len(records) == 0 {
		printlnFn("No check-ins recorded yet.")
		return nil
	}

	for _, r := range records {
		line := fmt.Sprintf("%s  %-22s mood: %s", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.CourseTitle, r.Mood)
		if r.ActivityName != "" {
			line += "  activity: " + r.ActivityName
		}
		printlnFn(line)
	}
	return nil
}
