package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Inspect and vacate rooms",
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every room with its dormer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		printer(cmd, a).PrintRooms()
		return nil
	},
}

var roomsVacateCmd = &cobra.Command{
	Use:   "vacate <room>",
	Short: "Remove the dormer from a room",
	Long:  `Marks the room Vacant and removes its dormer. Payment records are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.VacateRoom(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Room %s vacated successfully!\n", args[0])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(roomsCmd)
	roomsCmd.AddCommand(roomsListCmd, roomsVacateCmd)
}
