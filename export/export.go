// Package export combines the pages of a build into one printable document.
package export

import (
	"fmt"
	"html"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/structure"
)

const Name = "with-pdf"

const DefaultOutputPath = "pdf/document.pdf"

// Runner executes the converter command.
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s: %s", name, strings.TrimSpace(string(out)))
	}
	return nil
}

// Plugin collects the rendered pages of a build in navigation order and
// writes them as one document below output_path.
type Plugin struct {
	outputPath string
	command    string
	run        Runner
	log        *slog.Logger

	siteDir  string
	siteName string
	nav      *structure.Navigation
	pages    map[*structure.File]*structure.Page
}

// NewPlugin decodes the options output_path and command. command may use the
// {input} and {output} placeholders.
func NewPlugin(opts config.Map, log *slog.Logger) (*Plugin, error) {
	if log == nil {
		log = slog.Default()
	}
	p := &Plugin{
		outputPath: DefaultOutputPath,
		run:        execRunner,
		log:        log,
		pages:      map[*structure.File]*structure.Page{},
	}
	for _, item := range opts {
		text, ok := config.Text(item.Value)
		if !ok {
			return nil, errors.Wrapf(config.ErrInvalidConfig, "plugins.%s.%s must be a string", Name, item.Key)
		}
		switch item.Key {
		case "output_path":
			p.outputPath = text
		case "command":
			if len(strings.Fields(text)) == 0 {
				return nil, errors.Wrapf(config.ErrInvalidConfig, "plugins.%s.command must not be empty", Name)
			}
			p.command = text
		default:
			return nil, errors.Wrapf(config.ErrInvalidConfig, "plugins.%s: unknown option %q", Name, item.Key)
		}
	}
	return p, nil
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) OutputPath() string {
	return p.outputPath
}

// SetOutputPath retargets the document of the next build.
func (p *Plugin) SetOutputPath(outputPath string) {
	p.outputPath = outputPath
}

// SetRunner replaces the converter runner.
func (p *Plugin) SetRunner(run Runner) {
	p.run = run
}

func (p *Plugin) OnConfig(cfg *config.Config) error {
	p.siteDir = cfg.SiteDir
	p.siteName = cfg.SiteName
	return nil
}

func (p *Plugin) OnNav(nav *structure.Navigation, cfg *config.Config, files *structure.Files) error {
	p.nav = nav
	return nil
}

func (p *Plugin) OnPostPage(output string, page *structure.Page, cfg *config.Config) (string, error) {
	p.pages[page.File] = page
	return output, nil
}

// OnPostBuild writes the combined document of the pages of the current nav
// and runs the converter when one is configured.
func (p *Plugin) OnPostBuild(cfg *config.Config) error {
	if p.nav == nil {
		return nil
	}

	var body strings.Builder
	count := 0
	for _, node := range p.nav.PageNodes() {
		page, ok := p.pages[node.File]
		if !ok {
			continue
		}
		fmt.Fprintf(&body, "<section id=\"%s\">\n<h1>%s</h1>\n%s\n</section>\n",
			html.EscapeString(node.File.URL), html.EscapeString(node.DisplayTitle()), page.Content)
		delete(p.pages, node.File)
		count++
	}

	output := filepath.Join(p.siteDir, filepath.FromSlash(p.outputPath))
	input := strings.TrimSuffix(output, filepath.Ext(output)) + ".html"
	doc := fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(p.siteName), body.String())

	if err := os.MkdirAll(filepath.Dir(input), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(input, []byte(doc), 0644); err != nil {
		return errors.WithStack(err)
	}
	p.log.Info("Wrote print document", logfields.Path(input), logfields.Count(count))

	if p.command == "" {
		return nil
	}
	args := strings.Fields(p.command)
	for i, a := range args {
		a = strings.ReplaceAll(a, "{input}", input)
		args[i] = strings.ReplaceAll(a, "{output}", output)
	}
	if err := p.run(args[0], args[1:]...); err != nil {
		return errors.Wrap(err, "error converting print document")
	}
	p.log.Info("Converted print document", logfields.Path(output))
	return nil
}
