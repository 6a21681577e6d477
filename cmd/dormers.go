package cmd

import (
	"errors"
	"fmt"
	"time"

	"dormitory-manager/core/utils"
	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/dormitory/models"

	"github.com/spf13/cobra"
)

var (
	dormerDetails  models.DormerDetails
	dormerUpdate   models.DormerUpdate
	dormerRoom     string
	dormerBirthday string
	dormerEntry    string
	dormerBalance  string
	searchRoom     string
	searchName     string
)

var dormersCmd = &cobra.Command{
	Use:   "dormers",
	Short: "List, search, assign and update dormers",
}

var dormersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every dormer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		printer(cmd, a).PrintDormers(a.svc.Engine().Dormers())
		return nil
	},
}

var dormersSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search dormers by room number or name",
	Long: `Searches by exact room number (--room) or by a case-insensitive
fragment of the first or last name (--name).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (searchRoom == "") == (searchName == "") {
			return errors.New("exactly one of --room or --name is required")
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if searchRoom != "" {
			found := a.svc.Engine().SearchByRoom(searchRoom)
			if len(found) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No dormer found with the Room Number: %s\n", searchRoom)
				return nil
			}
			printer(cmd, a).PrintDormers(found)
			return nil
		}

		found := a.svc.Engine().SearchByName(searchName)
		if len(found) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No dormer found with the Name: %s\n", searchName)
			return nil
		}
		printer(cmd, a).PrintDormers(found)
		return nil
	},
}

var dormersAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a new dormer to a vacant room",
	Example: `  dormitory-manager dormers assign --room 101 --first Alice --last Reyes \
    --birthday 01/02/2000 --balance 500 --entry 01/15/2024`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		balance, err := utils.ParseAmount(dormerBalance)
		if err != nil {
			return fmt.Errorf("%w: %v", dormitory.ErrInvalidAmount, err)
		}
		if dormerBirthday != "" {
			if dormerDetails.Birthday, err = utils.ParseDate(dormerBirthday); err != nil {
				return err
			}
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		entry := a.svc.Engine().Now()
		if dormerEntry != "" {
			if entry, err = utils.ParseDate(dormerEntry); err != nil {
				return err
			}
		}
		entry = time.Date(entry.Year(), entry.Month(), entry.Day(), 0, 0, 0, 0, time.Local)

		if _, err := a.svc.AssignRoom(cmd.Context(), dormerRoom, dormerDetails, balance, entry); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Room %s assigned successfully!\n", dormerRoom)
		return nil
	},
}

var dormersUpdateCmd = &cobra.Command{
	Use:   "update <room>",
	Short: "Update the contact details of a room's dormer",
	Long:  `Only the given flags change; omitted fields keep their current value.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.UpdateDormer(cmd.Context(), args[0], dormerUpdate); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Dormer information updated successfully.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dormersCmd)
	dormersCmd.AddCommand(dormersListCmd, dormersSearchCmd, dormersAssignCmd, dormersUpdateCmd)

	dormersSearchCmd.Flags().StringVar(&searchRoom, "room", "", "Room number")
	dormersSearchCmd.Flags().StringVar(&searchName, "name", "", "Name fragment")

	f := dormersAssignCmd.Flags()
	f.StringVar(&dormerRoom, "room", "", "Vacant room number")
	f.StringVar(&dormerDetails.UserID, "id", "", "ID number")
	f.StringVar(&dormerDetails.FirstName, "first", "", "First name")
	f.StringVar(&dormerDetails.LastName, "last", "", "Last name")
	f.StringVar(&dormerDetails.Address, "address", "", "Home address")
	f.StringVar(&dormerBirthday, "birthday", "", "Birthday (MM/DD/YYYY)")
	f.StringVar(&dormerDetails.Email, "email", "", "Email")
	f.StringVar(&dormerDetails.Phone, "phone", "", "Phone number")
	f.StringVar(&dormerBalance, "balance", "0", "Starting balance")
	f.StringVar(&dormerEntry, "entry", "", "Entry date (MM/DD/YYYY), today when empty")
	_ = dormersAssignCmd.MarkFlagRequired("room")
	_ = dormersAssignCmd.MarkFlagRequired("first")
	_ = dormersAssignCmd.MarkFlagRequired("last")

	u := dormersUpdateCmd.Flags()
	u.StringVar(&dormerUpdate.FirstName, "first", "", "First name")
	u.StringVar(&dormerUpdate.LastName, "last", "", "Last name")
	u.StringVar(&dormerUpdate.Address, "address", "", "Home address")
	u.StringVar(&dormerUpdate.Email, "email", "", "Email")
	u.StringVar(&dormerUpdate.Phone, "phone", "", "Phone number")
}
