package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/bronystylecrazy/swagsummary/meta"
	"github.com/spf13/cobra"
)

type Root struct {
	*cobra.Command
}

func New(cmd *cobra.Command) *Root {
	defaultCmd := &cobra.Command{
		Use:           meta.Name,
		Short:         meta.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if cmd != nil {
		defaultCmd = cmd
	}
	defaultCmd.PersistentFlags().StringP(ConfigFlag, "c", "", "config file (yaml, toml or json)")

	return &Root{
		Command: defaultCmd,
	}
}

// NewRoot is the fx constructor of the default root command.
func NewRoot() *Root {
	return New(nil)
}

func (r *Root) Start(ctx context.Context) error {
	return r.ExecuteContext(ctx)
}

func (r *Root) Register(commands ...Commander) error {
	for _, command := range commands {
		if err := r.RegisterOne(command); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOne adds the command of c under the root. Command names must be
// unique.
func (r *Root) RegisterOne(c Commander) error {
	if r == nil || r.Command == nil {
		return fmt.Errorf("root command is nil")
	}
	if c == nil {
		return fmt.Errorf("commander is nil")
	}
	cmd := c.Command()
	if cmd == nil {
		return fmt.Errorf("command is nil")
	}
	name := strings.TrimSpace(cmd.Name())
	if name == "" {
		return fmt.Errorf("command name is empty")
	}
	for _, child := range r.Commands() {
		if child.Name() == name {
			return fmt.Errorf("command %q is already registered", name)
		}
	}
	r.AddCommand(cmd)
	return nil
}
