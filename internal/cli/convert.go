package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/kadavr95/spoiler/pkg/conversion"
	"github.com/kadavr95/spoiler/pkg/model"
)

// Conversion targets.
const (
	TargetData    = "data"
	TargetEditing = "editing"
	TargetModel   = "model"
)

// Convert loads markup and writes it to w in the target representation.
func (a *App) Convert(w io.Writer, markup, target string) (conversion.UpcastStats, error) {
	ed, err := a.NewEditor()
	if err != nil {
		return conversion.UpcastStats{}, err
	}
	defer ed.Destroy()

	stats, err := ed.SetData(markup)
	if err != nil {
		return stats, err
	}

	var out string
	switch target {
	case "", TargetData:
		out, err = ed.GetData()
	case TargetEditing:
		out, err = ed.EditingHTML()
	case TargetModel:
		out = model.Stringify(ed.Document().Root())
	default:
		return stats, fmt.Errorf("unknown target %q", target)
	}
	if err != nil {
		return stats, err
	}

	a.Logger.Debug("converted", "target", target, "converted", stats.Converted, "skipped", stats.Skipped)
	_, err = fmt.Fprintln(w, out)
	return stats, err
}

// RoundTrip loads markup, serializes it back and writes the differences to w.
// It reports whether the output equals the input.
func (a *App) RoundTrip(w io.Writer, markup string) (bool, error) {
	ed, err := a.NewEditor()
	if err != nil {
		return false, err
	}
	defer ed.Destroy()

	markup = strings.TrimSpace(markup)
	if _, err := ed.SetData(markup); err != nil {
		return false, err
	}
	out, err := ed.GetData()
	if err != nil {
		return false, err
	}

	if out == markup {
		fmt.Fprintln(w, "Round trip is lossless.")
		return true, nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(markup, out, false))
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(w, "- %q\n", diff.Text)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(w, "+ %q\n", diff.Text)
		case diffmatchpatch.DiffEqual:
			// Don't print unchanged parts for brevity
			if len(diff.Text) > 50 {
				fmt.Fprintf(w, "  %q...\n", diff.Text[:47])
			} else {
				fmt.Fprintf(w, "  %q\n", diff.Text)
			}
		}
	}
	return false, nil
}

// Insert loads markup, puts the caret at path and runs the insert command. The
// resulting markup is written to w.
func (a *App) Insert(w io.Writer, markup string, path []int, commandName string) error {
	ed, err := a.NewEditor()
	if err != nil {
		return err
	}
	defer ed.Destroy()

	if _, err := ed.SetData(markup); err != nil {
		return err
	}
	if len(path) > 0 {
		if err := ed.SetSelection(path...); err != nil {
			return fmt.Errorf("invalid selection: %w", err)
		}
	}
	if _, err := ed.Execute(commandName); err != nil {
		return err
	}

	out, err := ed.GetData()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
