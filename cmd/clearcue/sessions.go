package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
)

func runSessions(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) > 0 && args[0] == "delete" {
		return runSessionsDelete(ctx, args[1:], stdout)
	}

	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print sessions as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := a.sessions.List(ctx, cliOwner)
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(stdout, sessions)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(stdout, "No saved sessions.")
		return nil
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSCORE\tVERDICT\tTITLE")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.AnalysisResult.OverallScore(), s.AnalysisResult.Verdict(), s.VideoTitle)
	}
	return tw.Flush()
}

func runSessionsDelete(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: clearcue sessions delete <id>")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	before, err := a.sessions.List(ctx, cliOwner)
	if err != nil {
		return err
	}
	after, err := a.sessions.Delete(ctx, cliOwner, args[0])
	if err != nil {
		return err
	}
	if len(after) == len(before) {
		return fmt.Errorf("no session with id %s", args[0])
	}
	fmt.Fprintf(stdout, "Deleted session %s (%d remaining)\n", args[0], len(after))
	return nil
}
