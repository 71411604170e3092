package sim

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const consoleHelp = "Available commands: start, stop, status, reset, step, faster, slower, log, exit"

// RunConsole reads one command per line from in and applies it through c,
// writing replies to out. It returns nil on "exit" or end of input.
func RunConsole(ctx context.Context, c *Controller, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprintln(out, "Console session started. "+consoleHelp)
	prompt := func() { fmt.Fprint(out, "> ") }
	prompt()

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.Done():
			fmt.Fprintln(out, "Simulation finished.")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			select {
			case err := <-scanErr:
				if err != nil {
					return fmt.Errorf("reading console input: %w", err)
				}
			default:
			}
			return nil
		}

		word := strings.ToLower(strings.TrimSpace(line))
		switch word {
		case "":
		case "exit", "quit":
			fmt.Fprintln(out, "Exiting console session.")
			return nil
		case "help":
			fmt.Fprintln(out, consoleHelp)
		case "log":
			for _, e := range c.Logs() {
				fmt.Fprintln(out, e)
			}
		default:
			cmd, err := ParseCommand(word)
			if err != nil {
				fmt.Fprintf(out, "Unknown command: %s\n", word)
				break
			}
			st, err := c.Send(ctx, cmd)
			if errors.Is(err, ErrControllerDone) {
				fmt.Fprintln(out, "Simulation finished.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, st)
		}
		prompt()
	}
}
