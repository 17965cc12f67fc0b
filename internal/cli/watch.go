package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/services"
)

// watch refreshes a course's quiz list on an interval and prints every store event
// the refreshes cause. It stops after n events when n is positive, or when ctx ends.
func (cli *CommandLine) watch(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("watch")
	course := fs.String("course", "", "The course to watch.")
	interval := fs.Duration("interval", 30*time.Second, "How often to refresh.")
	limit := fs.Int("n", 0, "Stop after this many events.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, *course); err != nil {
		return err
	}
	if cli.bus == nil {
		return errors.New("events are disabled, set EVENTS_ENABLED=true")
	}
	if *interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", *interval)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := cli.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	refresh := func() error {
		if _, err := cli.svc.Quiz().Refresh(ctx, *course); err != nil && ctx.Err() == nil {
			return fail(err, services.MsgFetchQuizzesFailed)
		}
		return nil
	}
	if err := refresh(); err != nil {
		return err
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := refresh(); err != nil {
				fmt.Fprintln(cli.out, err)
			}
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			msg.Ack()
			event, err := events.DecodeEvent(msg)
			if err != nil {
				fmt.Fprintln(cli.out, err)
				continue
			}
			data, _ := json.Marshal(event.Data)
			fmt.Fprintf(cli.out, "%s %s %s\n", event.Timestamp.Local().Format(time.TimeOnly), event.Type, data)

			seen++
			if *limit > 0 && seen >= *limit {
				return nil
			}
		}
	}
}
