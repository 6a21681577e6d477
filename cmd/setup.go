package cmd

import (
	"fmt"

	"dormitory-manager/feature/dormitory/models"
	"dormitory-manager/feature/shell"

	"github.com/spf13/cobra"
)

var setupFlags models.Dormitory

// setupCmd stores the dormitory setup and generates its rooms.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the dormitory and generate its rooms",
	Long: `Stores the dormitory name, address and layout. Rooms are numbered
<floor><2-digit slot>, e.g. 101..110 for the first floor of a 10-room layout.
Running setup again keeps existing rooms.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.Setup(cmd.Context(), setupFlags); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Dormitory setup completed!")
		fmt.Fprintf(cmd.OutOrStdout(), "Available rooms: %d\n", a.svc.Engine().AvailableRooms())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVar(&setupFlags.Name, "name", "", "Dormitory name")
	setupCmd.Flags().StringVar(&setupFlags.Address, "address", "", "Dormitory address")
	setupCmd.Flags().IntVar(&setupFlags.Floors, "floors", 0, "Number of floors")
	setupCmd.Flags().IntVar(&setupFlags.RoomsPerFloor, "rooms", 0, "Number of rooms per floor")
	_ = setupCmd.MarkFlagRequired("name")
	_ = setupCmd.MarkFlagRequired("address")
}

// printer renders tables the way the interactive console does.
func printer(cmd *cobra.Command, a *app) *shell.Shell {
	return shell.New(a.svc, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
}
