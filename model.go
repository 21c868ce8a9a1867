package linfit

import (
	"fmt"
	"io"

	"github.com/aouyang1/go-linfit/linearmodel"
)

// Model represents a serializeable format of a fit storing the options, the fitted line and
// the training scores.
type Model struct {
	Options   *Options                `json:"options"`
	Line      linearmodel.LinearModel `json:"line"`
	Scores    *linearmodel.Scores     `json:"scores"`
	TrainSize int                     `json:"train_size"`
}

// Equation returns the fitted line as y = mx + b
func (m Model) Equation() string {
	return m.Line.Equation()
}

// TablePrint writes a human readable description of the model
func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sLinear Fit:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}

	if m.Options != nil {
		if _, err := fmt.Fprintf(w, "%s%sMethod: %s\n", prefix, indentExpand(indent, 1), m.Options.Method); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sRange: [%.3f, %.3f]\n",
			prefix, indentExpand(indent, 1), m.Options.Range.Lo, m.Options.Range.Hi); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s%sTraining Size: %d\n", prefix, indentExpand(indent, 1), m.TrainSize); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sEquation: %s\n", prefix, indentExpand(indent, 1), m.Equation()); err != nil {
		return err
	}

	if m.Scores != nil {
		if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, indentExpand(indent, 0)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sR2: %.4f    MSE: %.3f    MAPE: %.3f\n",
			prefix, indentExpand(indent, 1),
			m.Scores.R2,
			m.Scores.MSE,
			m.Scores.MAPE,
		); err != nil {
			return err
		}
	}
	return nil
}

func indentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}
