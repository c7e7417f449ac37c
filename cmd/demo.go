package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/srad/channelnotify/models"
	"github.com/srad/channelnotify/patterns"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the CoderArmy example: two subscribers, two uploads, one unsubscribe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	}
}

func runDemo(out io.Writer) error {
	channel := patterns.NewChannel("CoderArmy", patterns.WithAnnouncer(func(channel, title string) {
		fmt.Fprintf(out, "\n[%s uploaded \"%s\"]\n", channel, title)
	}))

	varun := models.NewPrintSubscriber("Varun", out)
	tarun := models.NewPrintSubscriber("Tarun", out)

	channel.Subscribe(varun)
	channel.Subscribe(tarun)

	if err := channel.Upload("Observer Pattern Tutorial"); err != nil {
		return err
	}

	channel.Unsubscribe(varun)

	return channel.Upload("Decorator Pattern Tutorial")
}
