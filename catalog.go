package spoiler

import (
	"fmt"

	"github.com/kadavr95/spoiler/pkg/editor"
	"github.com/kadavr95/spoiler/pkg/essentials"
)

// DefaultPlugins returns the essentials followed by the spoiler configured with opts.
func DefaultPlugins(opts ...Option) []editor.Plugin {
	return append(essentials.All(), New(opts...))
}

// Plugins resolves plugin names, as found in configuration files, in the given
// order. No names means DefaultPlugins.
func Plugins(names []string, opts ...Option) ([]editor.Plugin, error) {
	if len(names) == 0 {
		return DefaultPlugins(opts...), nil
	}

	known := make(map[string]editor.Plugin)
	for _, p := range DefaultPlugins(opts...) {
		known[p.Name()] = p
	}

	plugins := make([]editor.Plugin, 0, len(names))
	for _, name := range names {
		p, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q", name)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// NewEditor creates an editor with DefaultPlugins. Options may add more plugins.
func NewEditor(opts ...editor.Option) (*editor.Editor, error) {
	return editor.New(append([]editor.Option{editor.WithPlugins(DefaultPlugins()...)}, opts...)...)
}
