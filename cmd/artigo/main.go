package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/artigo/artigo/pkg/ctxdata"
	"github.com/artigo/artigo/pkg/library"
	"github.com/artigo/artigo/pkg/template"
	"github.com/artigo/artigo/pkg/treecache"
	v "github.com/artigo/artigo/pkg/validator"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"
)

type artigoConfig struct {
	TemplateDir      string   `yaml:"template_dir,omitempty"`
	ContextFiles     []string `yaml:"context_files,omitempty"`
	ScalarFormatting bool     `yaml:"scalar_formatting,omitempty"`
	CacheSize        int      `yaml:"cache_size,omitempty"`
	LogFormat        string   `yaml:"log_format,omitempty"`
}

func (c *artigoConfig) Validate() error {
	return v.All(
		v.Map(c.ContextFiles, func(item string, desc string) error {
			return v.NotEmpty(item, desc)
		}, "context_files"),
		v.NoDuplicates(c.ContextFiles, "context_files"),
		v.NonNegative(c.CacheSize, "cache_size"),
		v.MatchesAllowed(c.LogFormat, []string{"", "text", "json"}, "log_format"),
	)
}

func (c *artigoConfig) loadConfig(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding config file: %w", err)
	}
	return c.Validate()
}

var rootConfig string
var verbose bool

var rootCmd = cobra.Command{
	Use:           "artigo",
	Short:         "Render text templates against a key-value context",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

// helper: load config; a missing default config file is not an error
func loadConfig(cmd *cobra.Command) (artigoConfig, error) {
	cfg := artigoConfig{CacheSize: 64}
	err := cfg.loadConfig(rootConfig)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		slog.Debug("no config file, using defaults", "path", rootConfig)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if cfg.TemplateDir != "" {
		library.SetTemplateDir(cfg.TemplateDir)
	}
	if cfg.LogFormat == "json" {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}
	return cfg, nil
}

func newEngine(cfg artigoConfig) *template.Engine {
	var opts []template.Option
	if cfg.ScalarFormatting {
		opts = append(opts, template.WithScalarFormatting())
	}
	return template.NewEngine(nil, treecache.New(cfg.CacheSize), opts...)
}

// helper: config context files, then --context files, then --set pairs
func buildContext(cmd *cobra.Command, cfg artigoConfig, engine *template.Engine) (template.Context, error) {
	files, _ := cmd.Flags().GetStringArray("context")
	sets, _ := cmd.Flags().GetStringArray("set")

	paths := append(append([]string{}, cfg.ContextFiles...), files...)
	ctx, err := ctxdata.Loader{Engine: engine}.LoadAll(paths...)
	if err != nil {
		return nil, err
	}
	assigned, err := ctxdata.ParseAssignments(sets)
	if err != nil {
		return nil, err
	}
	return ctxdata.Merge(ctx, assigned), nil
}

// templateSource is either inline text from --template or a file path.
type templateSource struct {
	Text string
	Path string
}

func (s templateSource) Name() string {
	if s.Path != "" {
		return s.Path
	}
	return "<inline>"
}

// Read returns the template text, reading the file if there is one.
func (s templateSource) Read() (string, error) {
	if s.Path == "" {
		return s.Text, nil
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", &template.Error{Kind: template.KindIO, Message: "reading template", Offset: -1, Name: s.Path, Cause: err}
	}
	return string(b), nil
}

// helper: template from --template or the file argument
func resolveSource(cmd *cobra.Command, args []string) (templateSource, error) {
	inline, _ := cmd.Flags().GetString("template")
	switch {
	case inline != "" && len(args) > 0:
		return templateSource{}, fmt.Errorf("give either a template file or --template, not both")
	case inline != "":
		return templateSource{Text: inline}, nil
	case len(args) == 1:
		return templateSource{Path: args[0]}, nil
	default:
		return templateSource{}, fmt.Errorf("no template specified")
	}
}

func readSource(cmd *cobra.Command, args []string) (src, name string, err error) {
	ts, err := resolveSource(cmd, args)
	if err != nil {
		return "", "", err
	}
	src, err = ts.Read()
	return src, ts.Name(), err
}

var renderCmd = cobra.Command{
	Use:   "render [file]",
	Short: "Render a template file or --template string",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine := newEngine(cfg)

		ctx, err := buildContext(cmd, cfg, engine)
		if err != nil {
			return err
		}

		src, err := resolveSource(cmd, args)
		if err != nil {
			return err
		}
		var out string
		if src.Path != "" {
			out, err = engine.RenderFile(src.Path, ctx)
		} else {
			out, err = engine.Render(src.Text, ctx)
		}
		if err != nil {
			return fmt.Errorf("rendering %s: %w", src.Name(), err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var checkCmd = cobra.Command{
	Use:   "check [file]",
	Short: "Check template delimiters and value block grammar without rendering",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, name, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		if err := template.TemplateString(src).Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		slog.Info("template ok", "template", name)
		return nil
	},
}

var treeCmd = cobra.Command{
	Use:   "tree [file]",
	Short: "Print the parsed template tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, name, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		tree, err := template.Build(src)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), template.Pretty(tree))
		return nil
	},
}

var tokensCmd = cobra.Command{
	Use:   "tokens <block text>",
	Short: "Show how the inside of a block tokenizes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, tok := range template.Tokenize(strings.Join(args, " ")) {
			fmt.Fprintln(cmd.OutOrStdout(), tok)
		}
		return nil
	},
}

var libraryCmd = cobra.Command{
	Use:   "library",
	Short: "Work with named templates",
}

var libraryListCmd = cobra.Command{
	Use:   "list",
	Short: "List available named templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		for _, name := range library.Names() {
			tpl, err := library.Get(name)
			if err != nil {
				slog.Warn("skipping template", "name", name, "error", err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, tpl.Description)
		}
		return nil
	},
}

var libraryRenderCmd = cobra.Command{
	Use:   "render <name>",
	Short: "Render a named template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine := newEngine(cfg)

		tpl, err := library.Get(args[0])
		if err != nil {
			return err
		}
		ctx, err := buildContext(cmd, cfg, engine)
		if err != nil {
			return err
		}
		out, err := tpl.Execute(engine, ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func addContextFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("context", "c", []string{}, "Context file (.yaml, .json or .star); may be repeated")
	cmd.Flags().StringArrayP("set", "s", []string{}, "Set a string value as KEY=VALUE; may be repeated")
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("template", "t", "", "Template text to use instead of a file")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "artigo.config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	addSourceFlags(&renderCmd)
	addContextFlags(&renderCmd)
	rootCmd.AddCommand(&renderCmd)

	addSourceFlags(&checkCmd)
	rootCmd.AddCommand(&checkCmd)

	addSourceFlags(&treeCmd)
	rootCmd.AddCommand(&treeCmd)

	rootCmd.AddCommand(&tokensCmd)

	addContextFlags(&libraryRenderCmd)
	libraryCmd.AddCommand(&libraryListCmd)
	libraryCmd.AddCommand(&libraryRenderCmd)
	rootCmd.AddCommand(&libraryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
