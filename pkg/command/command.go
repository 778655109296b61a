package command

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrCommandNotFound is returned when no command is registered under a name.
var ErrCommandNotFound = errors.New("command not found")

// Command is an editor operation whose availability follows the document state.
type Command interface {
	// IsEnabled reports the state computed by the last Refresh.
	IsEnabled() bool
	// Refresh recomputes IsEnabled from the current document and selection.
	Refresh()
	// Execute runs the command and returns what it produced.
	Execute() (any, error)
}

// Destroyer is implemented by commands holding subscriptions.
type Destroyer interface {
	Destroy()
}

// DisabledCommandError is returned when a disabled command is executed.
type DisabledCommandError struct {
	Command string
}

func (e *DisabledCommandError) Error() string {
	return fmt.Sprintf("command %q is disabled", e.Command)
}

// DuplicateCommandError is returned when a name is registered twice.
type DuplicateCommandError struct {
	Command string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %q is already registered", e.Command)
}

// Collection manages the commands of an editor.
type Collection struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewCollection creates a new empty collection.
func NewCollection() *Collection {
	return &Collection{
		commands: make(map[string]Command),
	}
}

// Add registers a command under name.
func (c *Collection) Add(name string, cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.commands[name]; exists {
		return &DuplicateCommandError{Command: name}
	}
	c.commands[name] = cmd
	return nil
}

// Get looks up a command by name.
func (c *Collection) Get(name string) (Command, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmd, ok := c.commands[name]
	return cmd, ok
}

// Names returns the registered names in sorted order.
func (c *Collection) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// States returns the enablement of every command.
func (c *Collection) States() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	states := make(map[string]bool, len(c.commands))
	for name, cmd := range c.commands {
		states[name] = cmd.IsEnabled()
	}
	return states
}

// Execute looks up a command by name and executes it.
func (c *Collection) Execute(name string) (any, error) {
	cmd, ok := c.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}
	return cmd.Execute()
}

// RefreshAll refreshes every command.
func (c *Collection) RefreshAll() {
	c.mu.RLock()
	cmds := make([]Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		cmds = append(cmds, cmd)
	}
	c.mu.RUnlock()

	for _, cmd := range cmds {
		cmd.Refresh()
	}
}

// Destroy releases every command implementing Destroyer.
func (c *Collection) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cmd := range c.commands {
		if d, ok := cmd.(Destroyer); ok {
			d.Destroy()
		}
	}
}
