package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dormitory-manager/core/utils"
)

// maxAnswerBytes bounds one answer. Longer lines are discarded.
const maxAnswerBytes = 4 << 10

var errAnswerTooLong = errors.New("answer too long")

// ask prints label and reads one trimmed line, prompting again when the line
// is too long. End of input yields io.EOF.
func (s *Shell) ask(label string) (string, error) {
	for {
		fmt.Fprint(s.out, label)
		line, err := s.readLine()
		if errors.Is(err, errAnswerTooLong) {
			s.printError(fmt.Sprintf("Input is longer than %d characters.", maxAnswerBytes))
			continue
		}
		if err != nil {
			fmt.Fprintln(s.out)
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

// readLine reads up to the next newline. An overlong line is consumed whole
// and reported as errAnswerTooLong.
func (s *Shell) readLine() (string, error) {
	var (
		buf  []byte
		long bool
	)
	for {
		chunk, more, err := s.in.ReadLine()
		if err != nil {
			return "", err
		}
		if !long {
			if len(buf)+len(chunk) > maxAnswerBytes {
				long, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !more {
			break
		}
	}
	if long {
		return "", errAnswerTooLong
	}
	return string(buf), nil
}

// askRequired re-prompts until the answer is not empty.
func (s *Shell) askRequired(label string) (string, error) {
	for {
		v, err := s.ask(label)
		if err != nil || v != "" {
			return v, err
		}
		s.printError("This field is required.")
	}
}

// askCount re-prompts until the answer is a non-negative whole number.
func (s *Shell) askCount(label string) (int, error) {
	v, err := s.ask(label)
	for err == nil {
		n, perr := utils.ParseCount(v)
		if perr == nil {
			return n, nil
		}
		v, err = s.ask("Invalid input. " + label)
	}
	return 0, err
}

// askAmount re-prompts until the answer is a non-negative amount.
func (s *Shell) askAmount(label string) (float64, error) {
	v, err := s.ask(label)
	for err == nil {
		amount, perr := utils.ParseAmount(v)
		if perr == nil {
			return amount, nil
		}
		v, err = s.ask("Invalid input. Enter Payment Amount: ")
	}
	return 0, err
}

// askDate re-prompts until the answer is a MM/DD/YYYY date. An empty answer
// returns fallback when it is not zero.
func (s *Shell) askDate(label string, fallback time.Time) (time.Time, error) {
	v, err := s.ask(label)
	for err == nil {
		if v == "" && !fallback.IsZero() {
			return fallback, nil
		}
		t, perr := utils.ParseDate(v)
		if perr == nil {
			return t, nil
		}
		v, err = s.ask("Invalid date format. " + label)
	}
	return time.Time{}, err
}

// askYesNo accepts y/yes and n/no in any case.
func (s *Shell) askYesNo(label string) (bool, error) {
	for {
		v, err := s.ask(label)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(v) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		s.printError("Please answer y or n.")
	}
}

// choose prints a numbered menu and returns the 1-based choice, or 0 when
// the answer is not one of the options.
func (s *Shell) choose(title string, options ...string) (int, error) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.theme.Title.Render(title))
	for i, o := range options {
		fmt.Fprintln(s.out, s.theme.Menu.Render(fmt.Sprintf("%d. %s", i+1, o)))
	}
	v, err := s.ask("Choose an option: ")
	if err != nil {
		return 0, err
	}
	n, perr := strconv.Atoi(v)
	if perr != nil || n < 1 || n > len(options) {
		return 0, nil
	}
	return n, nil
}
