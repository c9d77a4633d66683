// Package minify minifies site assets and bundles javascript targets with
// esbuild.
package minify

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/logfields"
)

const Name = "minify"

type Options struct {
	MinifyJS  bool
	MinifyCSS bool
	JSFiles   []string
	CSSFiles  []string
}

// Plugin minifies the configured assets before every build and rewrites the
// asset lists of the build configuration to the minified names.
type Plugin struct {
	Options Options
	log     *slog.Logger
}

func NewPlugin(opts config.Map, log *slog.Logger) (*Plugin, error) {
	if log == nil {
		log = slog.Default()
	}
	p := &Plugin{log: log}
	for _, item := range opts {
		var err error
		switch item.Key {
		case "minify_js":
			p.Options.MinifyJS, err = boolOption(item)
		case "minify_css":
			p.Options.MinifyCSS, err = boolOption(item)
		case "js_files":
			p.Options.JSFiles, err = listOption(item)
		case "css_files":
			p.Options.CSSFiles, err = listOption(item)
		default:
			err = errors.Wrapf(config.ErrInvalidConfig, "plugins.%s: unknown option %q", Name, item.Key)
		}
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func boolOption(item config.MapItem) (bool, error) {
	b, ok := item.Value.(config.Bool)
	if !ok {
		return false, errors.Wrapf(config.ErrInvalidConfig, "plugins.%s.%s must be a boolean", Name, item.Key)
	}
	return bool(b), nil
}

func listOption(item config.MapItem) ([]string, error) {
	list, ok := item.Value.(config.List)
	if !ok {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "plugins.%s.%s must be a list", Name, item.Key)
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := config.Text(e)
		if !ok {
			return nil, errors.Wrapf(config.ErrInvalidConfig, "plugins.%s.%s entries must be strings", Name, item.Key)
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *Plugin) Name() string {
	return Name
}

// OnPreBuild minifies the listed assets into the site directory of cfg and
// bundles its javascript targets.
func (p *Plugin) OnPreBuild(cfg *config.Config) error {
	if p.Options.MinifyJS {
		for _, file := range p.Options.JSFiles {
			min, err := p.transform(cfg, file, api.LoaderJS)
			if err != nil {
				return err
			}
			cfg.ExtraJavascript = replaceAsset(cfg.ExtraJavascript, file, min)
		}
	}
	if p.Options.MinifyCSS {
		for _, file := range p.Options.CSSFiles {
			min, err := p.transform(cfg, file, api.LoaderCSS)
			if err != nil {
				return err
			}
			cfg.ExtraCSS = replaceAsset(cfg.ExtraCSS, file, min)
		}
	}

	if len(cfg.Javascript) == 0 {
		return nil
	}
	emitted, err := CompileTargets(cfg.Javascript, cfg.SiteDir, p.log)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(emitted))
	for name := range emitted {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !slices.Contains(cfg.ExtraJavascript, emitted[name]) {
			cfg.ExtraJavascript = append(cfg.ExtraJavascript, emitted[name])
		}
	}
	return nil
}

// MinName returns the name of the minified version of file.
func MinName(file string) string {
	ext := path.Ext(file)
	if strings.HasSuffix(strings.TrimSuffix(file, ext), ".min") {
		return file
	}
	return strings.TrimSuffix(file, ext) + ".min" + ext
}

func (p *Plugin) transform(cfg *config.Config, file string, loader api.Loader) (string, error) {
	min := MinName(file)
	content, err := os.ReadFile(filepath.Join(cfg.DocsDir, filepath.FromSlash(file)))
	if err != nil {
		return "", errors.Wrapf(err, "error reading %s", file)
	}

	result := api.Transform(string(content), api.TransformOptions{
		Loader:            loader,
		MinifyWhitespace:  true,
		MinifyIdentifiers: loader == api.LoaderJS,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return "", errors.Errorf("error minifying %s: %s", file, result.Errors[0].Text)
	}

	dest := filepath.Join(cfg.SiteDir, filepath.FromSlash(min))
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return "", errors.WithStack(err)
	}
	if err := os.WriteFile(dest, result.Code, 0644); err != nil {
		return "", errors.WithStack(err)
	}
	p.log.Debug("Minified asset", logfields.Path(min))
	return min, nil
}

func replaceAsset(assets []string, file, min string) []string {
	for i, a := range assets {
		if a == file {
			assets[i] = min
		}
	}
	return assets
}

// CompileTargets bundles every javascript target into siteDir/<out_dir> with a
// content hash in the file name. It returns the site relative path of the
// bundle emitted for each target.
func CompileTargets(targets map[string]config.JavascriptTarget, siteDir string, log *slog.Logger) (map[string]string, error) {
	if log == nil {
		log = slog.Default()
	}
	emitted := make(map[string]string, 0)
	for targetName, target := range targets {
		result := api.Build(api.BuildOptions{
			EntryPoints:       []string{target.Source},
			Bundle:            true,
			MinifyWhitespace:  true,
			MinifyIdentifiers: true,
			MinifySyntax:      true,
			Engines: []api.Engine{
				{Name: api.EngineChrome, Version: "100"},
				{Name: api.EngineFirefox, Version: "100"},
				{Name: api.EngineSafari, Version: "15"},
				{Name: api.EngineEdge, Version: "100"},
			},
			Sourcemap: api.SourceMapExternal,
			Write:     false,
			Outdir:    filepath.Join(siteDir, target.OutDir),
		})

		if len(result.Errors) > 0 {
			return nil, errors.Errorf("error bundling %s: %s", targetName, result.Errors[0].Text)
		}

		// Separate files with and without .map extension
		var regularFiles []api.OutputFile
		var mapFiles []api.OutputFile

		for _, out := range result.OutputFiles {
			ext := filepath.Ext(out.Path)
			if strings.EqualFold(ext, ".map") {
				mapFiles = append(mapFiles, out)
			} else {
				regularFiles = append(regularFiles, out)
			}
		}

		// Sources first so every map finds the hash of its source.
		sortedFiles := append(regularFiles, mapFiles...)

		srcToHash := make(map[string]string)

		for _, out := range sortedFiles {
			dir := filepath.Dir(out.Path)
			base := filepath.Base(out.Path)
			ext := base[strings.Index(base, "."):]
			isMap := ext == ".js.map"
			fileNameWithoutExt := base[:len(base)-len(ext)]

			var hashForFileName string
			if isMap {
				hashForFileName = srcToHash[fileNameWithoutExt]
				if hashForFileName == "" {
					return nil, errors.Errorf("source map %s can not find hash for it's source file", fileNameWithoutExt)
				}
			} else {
				safeHash := strings.ReplaceAll(out.Hash, "/", "")
				srcToHash[fileNameWithoutExt] = safeHash
				hashForFileName = safeHash
			}

			name := fmt.Sprintf("%s_%s%s", fileNameWithoutExt, hashForFileName, ext)
			newPath := filepath.Join(dir, name)

			var content []byte
			if isMap {
				content = out.Contents
			} else {
				srcMap := fmt.Sprintf("//# sourceMappingURL=%s.map", name)
				content = []byte(string(out.Contents) + srcMap)
			}

			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, errors.WithStack(err)
			}
			if err := os.WriteFile(newPath, content, 0644); err != nil {
				log.Error("Failed to write bundle", logfields.Path(newPath), logfields.Error(err))
				return nil, errors.WithStack(err)
			}

			if !isMap {
				emitted[targetName] = path.Join(filepath.ToSlash(target.OutDir), name)
			}
		}
	}

	return emitted, nil
}
