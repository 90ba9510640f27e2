package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/CTAG07/markovjson/pkg/flavor"
	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		inline string
		list   bool
		models []string
	)

	cmd := &cobra.Command{
		Use:   "render [template]",
		Short: "Render a flavor-text template with the model",
		Long: `Render executes a text template from the configured template directory.
The model from the state file is registered as "default"; --model name=path
registers more. With no template name, a random template is rendered.

Examples:
  markovjson render rumor.tmpl
  markovjson render --inline '{{ sentence "default" 2 }}'
  markovjson render --model tavern=./tavern.json --inline '{{ words "tavern" 5 }}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc := flavor.DefaultConfig()
			fc.TemplateDir = a.cfg.Flavor.TemplateDir
			if a.cfg.Flavor.Pattern != "" {
				fc.Pattern = a.cfg.Flavor.Pattern
			}
			mgr, err := flavor.NewManager(a.logger, fc)
			if err != nil {
				return fmt.Errorf("failed to create template manager: %w", err)
			}

			mgr.Register("default", a.loadModel())
			for _, arg := range models {
				name, path, ok := strings.Cut(arg, "=")
				if !ok || name == "" || path == "" {
					return fmt.Errorf("invalid --model %q: want name=path", arg)
				}
				if _, err = os.Stat(path); err != nil {
					return fmt.Errorf("invalid --model %q: %w", arg, err)
				}
				mgr.Register(name, newModelAt(a, path))
			}

			w := cmd.OutOrStdout()
			if list {
				for _, name := range mgr.TemplateNames() {
					_, _ = fmt.Fprintln(w, name)
				}
				return nil
			}
			if inline != "" {
				err = mgr.ExecuteString(w, inline, nil)
			} else {
				name := mgr.RandomTemplate()
				if len(args) > 0 {
					name = args[0]
				}
				err = mgr.Execute(w, name, nil)
			}
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}
			_, _ = fmt.Fprintln(w)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&inline, "inline", "", "render this template text instead of a file")
	flags.BoolVar(&list, "list", false, "list the available templates")
	flags.StringArrayVar(&models, "model", nil, "register an extra model as name=path (repeatable)")
	return cmd
}
