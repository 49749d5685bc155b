package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room helpers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "code",
		Short: "Generate a new room code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.roomCodes.Generate())
			return err
		},
	})

	return cmd
}
