package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
	"github.com/matzehuels/depsize/pkg/layout"
	"github.com/matzehuels/depsize/pkg/pipeline"
)

// generateFlags holds the pipeline flags shared by the root and serve
// commands.
type generateFlags struct {
	config   string
	python   string
	siteDirs []string
	engine   string
	seed     int64
	title    string
	plotlyJS string
	output   string // root command only
}

// register adds the shared flags to cmd.
func (f *generateFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "TOML configuration file")
	fs.StringVar(&f.python, "python", pipeline.DefaultPython, "Python interpreter whose environment is inspected")
	fs.StringArrayVar(&f.siteDirs, "site-dir", nil, "site directory to scan instead of asking the interpreter (repeatable)")
	fs.StringVar(&f.engine, "engine", pipeline.DefaultEngine, "layout engine: fdp, neato, sfdp")
	fs.Int64Var(&f.seed, "seed", 0, "layout seed for reproducible positions (0 = engine default)")
	fs.StringVar(&f.title, "title", "", "figure title")
	fs.StringVar(&f.plotlyJS, "plotly-js", "", "local plotly.min.js to inline instead of loading it from the CDN")

	_ = cmd.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(layout.EngineFDP), string(layout.EngineNeato), string(layout.EngineSFDP)}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagDirname("site-dir")
	_ = cmd.MarkFlagFilename("config", "toml")
	_ = cmd.MarkFlagFilename("plotly-js", "js")
}

// options builds pipeline options from the configuration file (when given)
// and the command's flags. Flags set explicitly override the file.
func (f *generateFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		cfg, err := loadConfig(f.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = cfg
	}

	fs := cmd.Flags()
	if fs.Changed("python") || opts.Python == "" {
		opts.Python = f.python
	}
	if fs.Changed("site-dir") || len(opts.SiteDirs) == 0 {
		opts.SiteDirs = f.siteDirs
	}
	if fs.Changed("engine") || opts.Engine == "" {
		opts.Engine = f.engine
	}
	if fs.Changed("seed") || opts.Seed == 0 {
		opts.Seed = f.seed
	}
	if fs.Changed("title") || opts.Title == "" {
		opts.Title = f.title
	}
	if fs.Changed("plotly-js") || opts.PlotlyJS == "" {
		opts.PlotlyJS = f.plotlyJS
	}
	if fs.Lookup("output") != nil && (fs.Changed("output") || opts.Output == "") {
		opts.Output = f.output
	}

	if err := expandPaths(&opts); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// loadConfig reads pipeline options from a TOML file. Unknown keys are
// rejected so typos do not pass silently.
func loadConfig(path string) (pipeline.Options, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return pipeline.Options{}, deperrors.Wrap(deperrors.ErrCodeInvalidConfig, err, "expand %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Options{}, deperrors.Wrap(deperrors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	var opts pipeline.Options
	md, err := toml.Decode(string(data), &opts)
	if err != nil {
		return pipeline.Options{}, deperrors.Wrap(deperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return pipeline.Options{}, deperrors.New(deperrors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return opts, nil
}

// expandPaths resolves a leading ~ in every path option.
func expandPaths(opts *pipeline.Options) error {
	var err error
	expand := func(p *string) {
		if err != nil || *p == "" {
			return
		}
		*p, err = homedir.Expand(*p)
	}

	expand(&opts.Python)
	expand(&opts.Output)
	expand(&opts.PlotlyJS)
	dirs := make([]string, len(opts.SiteDirs))
	for i := range opts.SiteDirs {
		dirs[i] = opts.SiteDirs[i]
		expand(&dirs[i])
	}
	if len(dirs) > 0 {
		opts.SiteDirs = dirs
	}

	if err != nil {
		return deperrors.Wrap(deperrors.ErrCodeInvalidInput, err, "expand path")
	}
	return nil
}
