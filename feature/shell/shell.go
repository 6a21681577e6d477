package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/dormitory/models"

	"go.uber.org/zap"
)

// Shell is the interactive console over a dormitory service.
type Shell struct {
	svc    *dormitory.Service
	in     *bufio.Reader
	out    io.Writer
	theme  Theme
	logger *zap.Logger
}

// New creates a shell reading answers from in and writing to out.
func New(svc *dormitory.Service, in io.Reader, out io.Writer, logger *zap.Logger) *Shell {
	return &Shell{
		svc:    svc,
		in:     bufio.NewReader(in),
		out:    out,
		theme:  DefaultTheme(out),
		logger: logger,
	}
}

// Run shows the dashboard until the operator exits, resets the dormitory or
// the input ends.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, s.theme.Title.Render("Welcome to Dormitory Management System"))

	err := s.run(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) run(ctx context.Context) error {
	if !s.svc.IsConfigured() {
		if err := s.setup(ctx); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.renderDashboard()
		choice, err := s.choose("Dashboard: Choose an option",
			"Manage Rooms", "Manage Dormers", "Manage Payments", "Reset", "Exit the System")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = s.manageRooms(ctx)
		case 2:
			err = s.manageDormers(ctx)
		case 3:
			err = s.managePayments(ctx)
		case 4:
			var reset bool
			reset, err = s.reset(ctx)
			if err == nil && reset {
				return nil
			}
		case 5:
			fmt.Fprintln(s.out, "Exiting System...")
			return nil
		default:
			s.printError("Invalid choice, please try again.")
		}
		if err != nil {
			return err
		}
	}
}

// setup asks for the dormitory details until they are accepted.
func (s *Shell) setup(ctx context.Context) error {
	fmt.Fprintln(s.out, s.theme.Title.Render("Dormitory Setup"))
	for {
		var d models.Dormitory
		var err error
		if d.Name, err = s.askRequired("Enter Dormitory Name: "); err != nil {
			return err
		}
		if d.Address, err = s.askRequired("Enter Dormitory Address: "); err != nil {
			return err
		}
		if d.Floors, err = s.askCount("Enter Number of Floors: "); err != nil {
			return err
		}
		if d.RoomsPerFloor, err = s.askCount("Enter Number of Rooms per Floor: "); err != nil {
			return err
		}

		err = s.svc.Setup(ctx, d)
		if err == nil {
			s.printSuccess("Dormitory setup completed!")
			return nil
		}
		if !errors.Is(err, dormitory.ErrInvalidDetails) {
			return err
		}
		s.printError(err.Error())
	}
}

// reset erases everything after confirmation and reports whether it did.
func (s *Shell) reset(ctx context.Context) (bool, error) {
	ok, err := s.askYesNo("Do you want to reset the dormitory setup? (y/n): ")
	if err != nil || !ok {
		return false, err
	}
	if err := s.svc.Reset(ctx); err != nil {
		s.printError(err.Error())
		return false, nil
	}
	s.printSuccess("Dormitory setup has been reset.")
	return true, nil
}

// report prints an operation error. I/O failures are logged as well; the
// engine state was rolled back so the shell keeps running.
func (s *Shell) report(err error) {
	s.printError(err.Error())
	if errors.Is(err, dormitory.ErrIOFailure) {
		s.logger.Error("Operation failed", zap.Error(err))
	}
}

func (s *Shell) printError(msg string) {
	fmt.Fprintln(s.out, s.theme.Error.Render(msg))
}

func (s *Shell) printSuccess(msg string) {
	fmt.Fprintln(s.out, s.theme.Success.Render(msg))
}
