package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/kadavr95/spoiler/internal/presentation/outline"
	"github.com/kadavr95/spoiler/pkg/schema"
)

// Output formats.
const (
	FormatYAML    = "yaml"
	FormatJSON    = "json"
	FormatOutline = "outline"
	FormatMermaid = "mermaid"
)

// SchemaDump is the serialized form of the compiled schema.
type SchemaDump struct {
	Plugins  []string            `yaml:"plugins" json:"plugins"`
	Commands []string            `yaml:"commands" json:"commands"`
	Items    []schema.Definition `yaml:"items" json:"items"`
}

// Schema writes the compiled schema of a configured editor to w.
func (a *App) Schema(w io.Writer, format string) error {
	ed, err := a.NewEditor()
	if err != nil {
		return err
	}
	defer ed.Destroy()

	reg := ed.Schema()
	dump := SchemaDump{Plugins: ed.Plugins(), Commands: ed.Commands().Names()}
	for _, name := range reg.Names() {
		if def, ok := reg.Definition(name); ok {
			dump.Items = append(dump.Items, def)
		}
	}

	switch format {
	case "", FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(dump); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Inspect loads markup, places the caret at path and writes the model tree in format
// followed by the command states. profile colours the outline.
func (a *App) Inspect(w io.Writer, markup string, path []int, format string, profile termenv.Profile) error {
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

	doc := ed.Document()
	switch format {
	case "", FormatOutline:
		fmt.Fprint(w, outline.Render(doc.Root(), ed.Schema(), doc.Selection(), profile))
	case FormatMermaid:
		fmt.Fprint(w, outline.GenerateMermaid(doc.Root(), ed.Schema(), &outline.Overlay{Caret: doc.Selection()}))
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	states := ed.Commands().States()
	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "\ncaret: %v\n", doc.Selection().Path())
	for _, name := range names {
		state := "disabled"
		if states[name] {
			state = "enabled"
		}
		fmt.Fprintf(w, "%s: %s\n", name, state)
	}
	return nil
}
