// Package hooks runs the shell commands attached to build events.
package hooks

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/logfields"
)

const (
	PreBuild  = "pre_build"
	PostBuild = "post_build"
)

// Command starts one hook command. The default runs it through sh -c.
type Command func(ctx context.Context, command string, env []string) error

func shell(ctx context.Context, command string, env []string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Runner executes the hooks shared by every locale build.
type Runner struct {
	hooks   *config.Hooks
	command Command
	log     *slog.Logger
}

func NewRunner(hooks *config.Hooks, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{hooks: hooks, command: shell, log: log}
}

// WithCommand replaces the command starter.
func (r *Runner) WithCommand(c Command) *Runner {
	r.command = c
	return r
}

// Run executes the hooks registered for event in declaration order. locale is
// empty for the root build.
func (r *Runner) Run(ctx context.Context, event string, cfg *config.Config, locale string) error {
	for _, hook := range r.hooks.For(event) {
		env := []string{
			"SITE_DIR=" + cfg.SiteDir,
			"DOCS_DIR=" + cfg.DocsDir,
			"I18N_LOCALE=" + locale,
		}
		r.log.Info("Running hook", logfields.Event(event), logfields.Locale(locale), slog.String("command", hook.Command))
		if err := r.command(ctx, hook.Command, env); err != nil {
			return errors.Wrapf(err, "%s hook %q", event, hook.Command)
		}
	}
	return nil
}
