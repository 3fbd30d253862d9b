package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meetingkit/pkg/clients/meeting"
)

// meetingCommand creates the meeting API command.
func (c *CLI) meetingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meeting",
		Short: "Query meetings",
	}

	cmd.AddCommand(c.meetingGetCommand())
	cmd.AddCommand(c.meetingListCommand())

	return cmd
}

// meetingGetCommand creates the "meeting get" subcommand.
func (c *CLI) meetingGetCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "get <meeting-id>",
		Short: "Show one meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := c.meetingClient()
			if err != nil {
				return err
			}
			defer closeFn()

			spinner := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching meeting...")
			spinner.Start()
			m, err := client.Get(cmd.Context(), args[0], userID)
			spinner.Stop()
			if err != nil {
				return err
			}

			printMeeting(cmd, m)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id to query as (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// meetingListCommand creates the "meeting list" subcommand.
func (c *CLI) meetingListCommand() *cobra.Command {
	var (
		userID  string
		pos     int
		showAll bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's meetings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := c.meetingClient()
			if err != nil {
				return err
			}
			defer closeFn()

			spinner := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Listing meetings...")
			spinner.Start()
			list, err := client.List(cmd.Context(), userID, meeting.ListOptions{Pos: pos, ShowAll: showAll})
			spinner.Stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list.Meetings) == 0 {
				printInfo(out, "No meetings")
				return nil
			}
			for i := range list.Meetings {
				m := &list.Meetings[i]
				printInfo(out, "%s  %s  %s", StyleValue.Render(m.MeetingID), m.Subject, StyleDim.Render(formatTime(m.Start())))
			}
			if list.HasNext() {
				printDetail(out, "%d more, continue with --pos %d", list.Remaining, list.NextPos)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id whose meetings to list (required)")
	cmd.Flags().IntVar(&pos, "pos", 0, "page cursor from a previous listing")
	cmd.Flags().BoolVar(&showAll, "all", false, "include recurring sub-meetings")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// meetingClient builds the meeting client through the registry.
func (c *CLI) meetingClient() (*meeting.Client, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	reg, respCache, err := c.newRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := reg.Meeting()
	if err != nil {
		respCache.Close()
		return nil, nil, err
	}
	return client, func() { respCache.Close() }, nil
}

func printMeeting(cmd *cobra.Command, m *meeting.Meeting) {
	out := cmd.OutOrStdout()
	printKeyValue(out, "meeting_id", m.MeetingID)
	printKeyValue(out, "code", m.MeetingCode)
	printKeyValue(out, "subject", m.Subject)
	printKeyValue(out, "start", formatTime(m.Start()))
	printKeyValue(out, "end", formatTime(m.End()))
	if m.JoinURL != "" {
		printKeyValue(out, "join_url", m.JoinURL)
	}
	for _, h := range m.Hosts {
		printKeyValue(out, "host", h.UserID)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}
