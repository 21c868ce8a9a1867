package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/scenario"
	"github.com/aouyang1/go-linfit/session"
)

const interactiveHelp = `Commands:
  add x y          add a point
  move i x y       move point i, bounded to the range
  drag x0 y0 x y   move the point under (x0, y0) to (x, y)
  del i            delete point i
  method m         switch estimator: manual, gonum or qr
  predict x        predict y at x
  random           replace the points with a seeded random sample
  reset            restore the example points
  stats            show the points and their summary
  save name        store the current model
  plot path        write the current chart to an html file
  help             show this message
  quit             leave
`

var errBadArgs = errors.New("bad arguments")

func (a *app) runInteractive(ctx context.Context, sc *scenario.Scenario) error {
	s, err := session.New(ctx,
		session.WithScenario(sc),
		session.WithMethod(a.method),
		session.WithRange(a.cfg.Range()),
		session.WithSeed(a.cfg.Seed),
		session.WithLogger(a.log.Named("session")),
		session.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "INTERACTIVE LINEAR REGRESSION\n%s\n", rule)
	fmt.Fprint(a.out, interactiveHelp)
	a.printStatus(s)

	for {
		line, err := a.readLine("\n> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := strings.ToLower(fields[0]), fields[1:]
		if cmd == "quit" || cmd == "exit" || cmd == "q" {
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		}
		if err := a.interactiveCommand(ctx, s, cmd, args); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

func (a *app) interactiveCommand(ctx context.Context, s *session.Session, cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		fmt.Fprint(a.out, interactiveHelp)
		return nil

	case "add":
		vals, err := floatArgs(args, 2)
		if err != nil {
			return fmt.Errorf("usage: add x y, %w", err)
		}
		return a.afterEdit(s, s.Add(ctx, vals[0], vals[1]))

	case "move":
		if len(args) != 3 {
			return fmt.Errorf("usage: move i x y, %w", errBadArgs)
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: move i x y, %w", errBadArgs)
		}
		vals, err := floatArgs(args[1:], 2)
		if err != nil {
			return fmt.Errorf("usage: move i x y, %w", err)
		}
		return a.afterEdit(s, s.Move(ctx, i, vals[0], vals[1]))

	case "drag":
		vals, err := floatArgs(args, 4)
		if err != nil {
			return fmt.Errorf("usage: drag x0 y0 x y, %w", err)
		}
		i, err := s.Drag(ctx, vals[0], vals[1], vals[2], vals[3])
		if i < 0 {
			return err
		}
		x, y := s.Points().XY(i)
		fmt.Fprintf(a.out, "Moved point %d to (%g, %g)\n", i, x, y)
		return a.afterEdit(s, err)

	case "del":
		if len(args) != 1 {
			return fmt.Errorf("usage: del i, %w", errBadArgs)
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: del i, %w", errBadArgs)
		}
		return a.afterEdit(s, s.Remove(ctx, i))

	case "method":
		if len(args) != 1 {
			return fmt.Errorf("usage: method manual|gonum|qr, %w", errBadArgs)
		}
		method, err := linearmodel.ParseMethod(args[0])
		if err != nil {
			return err
		}
		return a.afterEdit(s, s.SetMethod(ctx, method))

	case "predict":
		vals, err := floatArgs(args, 1)
		if err != nil {
			return fmt.Errorf("usage: predict x, %w", err)
		}
		y, clamped, err := s.Predict(ctx, vals[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Prediction at x=%g: y=%.2f", vals[0], y)
		if clamped {
			r := s.Range()
			fmt.Fprintf(a.out, " (bounded to [%g, %g])", r.Lo, r.Hi)
		}
		fmt.Fprintln(a.out)
		return nil

	case "random":
		return a.afterEdit(s, s.Randomize(ctx))

	case "reset":
		return a.afterEdit(s, s.Reset(ctx))

	case "stats":
		ps := s.Points()
		if err := a.printPoints(s.Scenario(), ps); err != nil {
			return err
		}
		if ps.Len() > 0 {
			if err := a.printSummary(s.Scenario(), ps); err != nil {
				return err
			}
		}
		a.printStatus(s)
		return nil

	case "save":
		if len(args) != 1 {
			return fmt.Errorf("usage: save name, %w", errBadArgs)
		}
		m, err := s.Model()
		if err != nil {
			return err
		}
		if _, err := a.store.Save(args[0], m); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Model saved as %q in %s\n", args[0], a.store.Dir())
		return nil

	case "plot":
		if len(args) != 1 {
			return fmt.Errorf("usage: plot path, %w", errBadArgs)
		}
		return a.plotSession(s, args[0])

	default:
		return fmt.Errorf("%q, %w, type help for the list", cmd, errUnknownCommand)
	}
}

// afterEdit reports the outcome of an edit. Too few points is not an error for the loop, the
// session simply waits for more.
func (a *app) afterEdit(s *session.Session, err error) error {
	if err != nil && !errors.Is(err, linearmodel.ErrInvalidInput) {
		return err
	}
	a.printStatus(s)
	return nil
}

func (a *app) printStatus(s *session.Session) {
	n := s.Points().Len()
	line, err := s.Line()
	if err != nil {
		fmt.Fprintf(a.out, "Points: %d, need at least %d points to fit a line\n", n, linearmodel.MinObservations)
		return
	}
	scores, err := s.Scores()
	if err != nil {
		fmt.Fprintf(a.out, "Points: %d, %s\n", n, line.Equation())
		return
	}
	fmt.Fprintf(a.out, "Points: %d, %s, R2 = %.4f (%s)\n", n, line.Equation(), scores.R2, s.Method())
}

func (a *app) plotSession(s *session.Session, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create plot directory, %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create chart file, %w", err)
	}
	if err := s.Plot(file, nil); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Chart written to %s\n", path)
	return nil
}

func floatArgs(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, errBadArgs
	}
	vals := make([]float64, n)
	for i, arg := range args {
		v, err := parseFloat(arg)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid number, %w", arg, errBadArgs)
		}
		vals[i] = v
	}
	return vals, nil
}
