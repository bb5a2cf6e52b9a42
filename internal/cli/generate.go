package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rpavlik/kanboard-documentation/internal/cache"
	"github.com/rpavlik/kanboard-documentation/internal/config"
	"github.com/rpavlik/kanboard-documentation/internal/diag"
	"github.com/rpavlik/kanboard-documentation/internal/discovery"
	"github.com/rpavlik/kanboard-documentation/internal/generator"
	"github.com/rpavlik/kanboard-documentation/internal/heuristics"
	"github.com/rpavlik/kanboard-documentation/internal/stub"
)

// GenerateConfig holds the flag values of the generate command.
type GenerateConfig struct {
	SourceDir    string
	Excludes     []string
	BaseURL      string
	StubsPath    string
	DocumentPath string
	Format       string
	Dialect      string
	GoPackage    string
	Title        string
	Version      string
	Jobs         int
	Cache        bool
	CachePath    string
	Quiet        bool
}

func newGenerateCommand(root *rootOptions) *cobra.Command {
	var flags GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate stubs and an OpenRPC document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			applyGenerateFlags(cmd, &flags, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runGenerate(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.SourceDir, "source", "", "Directory containing the *_procedures.md files")
	f.StringSliceVar(&flags.Excludes, "exclude", nil, "Glob patterns to skip, relative to the source directory")
	f.StringVar(&flags.BaseURL, "base-url", "", "Base URL of the rendered documentation")
	f.StringVar(&flags.StubsPath, "stubs", "", "Path of the stub file")
	f.StringVar(&flags.DocumentPath, "output", "", "Path of the OpenRPC document or '-' for stdout")
	f.StringVar(&flags.Format, "format", "", "Document format: json or yaml")
	f.StringVar(&flags.Dialect, "dialect", "", "Stub dialect: python or go")
	f.StringVar(&flags.GoPackage, "go-package", "", "Package name used by the go dialect")
	f.StringVar(&flags.Title, "title", "", "API title")
	f.StringVar(&flags.Version, "version", "", "API version")
	f.IntVarP(&flags.Jobs, "jobs", "j", 0, "Number of documents processed in parallel")
	f.BoolVar(&flags.Cache, "cache", false, "Reuse results of unchanged documents")
	f.StringVar(&flags.CachePath, "cache-path", "", "Location of the cache database")
	f.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress diagnostics and progress output")

	return cmd
}

// applyGenerateFlags copies explicitly set flags over the loaded config.
func applyGenerateFlags(cmd *cobra.Command, flags *GenerateConfig, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("source") {
		cfg.Source.Dir = flags.SourceDir
	}
	if f.Changed("exclude") {
		cfg.Source.Excludes = flags.Excludes
	}
	if f.Changed("base-url") {
		cfg.Docs.BaseURL = flags.BaseURL
	}
	if f.Changed("stubs") {
		cfg.Output.Stubs = flags.StubsPath
	}
	if f.Changed("output") {
		cfg.Output.Document = flags.DocumentPath
	}
	if f.Changed("format") {
		cfg.Output.Format = flags.Format
	}
	if f.Changed("dialect") {
		cfg.Output.Dialect = flags.Dialect
	}
	if f.Changed("go-package") {
		cfg.Output.GoPackage = flags.GoPackage
	}
	if f.Changed("title") {
		cfg.Info.Title = flags.Title
	}
	if f.Changed("version") {
		cfg.Info.Version = flags.Version
	}
	if f.Changed("jobs") {
		cfg.Jobs = flags.Jobs
	}
	if f.Changed("cache") {
		cfg.Cache.Enabled = flags.Cache
	}
	if f.Changed("cache-path") {
		cfg.Cache.Path = flags.CachePath
	}
	if f.Changed("quiet") {
		cfg.Logging.Quiet = flags.Quiet
	}
}

func runGenerate(cmd *cobra.Command, cfg *config.Config) error {
	walker, err := discovery.NewWalker(cfg.Source.Includes, cfg.Source.Excludes)
	if err != nil {
		return err
	}
	docs, err := walker.Walk(cfg.Source.Dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents matched %v under %s", cfg.Source.Includes, cfg.Source.Dir)
	}

	dialect, err := stub.ForName(cfg.Output.Dialect, cfg.Output.GoPackage)
	if err != nil {
		return err
	}

	var strategy heuristics.Strategy = heuristics.Default()
	if cfg.Heuristics.MemoSize > 0 {
		memo, err := heuristics.NewMemo(strategy, cfg.Heuristics.MemoSize)
		if err != nil {
			return err
		}
		strategy = memo
	}

	var reporter diag.Reporter = diag.NewLogReporter(cmd.ErrOrStderr())
	if cfg.Logging.Quiet {
		reporter = diag.Discard
	}

	opts := generator.Options{
		Title:       cfg.Info.Title,
		Version:     cfg.Info.Version,
		Description: cfg.Info.Description,
		BaseURL:     cfg.Docs.BaseURL,
		Jobs:        cfg.Jobs,
		Dialect:     dialect,
		Strategy:    strategy,
		Reporter:    reporter,
		Fingerprint: cfg.Fingerprint(),
	}

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Cache = store
	}

	if !cfg.Logging.Quiet {
		bar := newProgressBar(cmd.ErrOrStderr(), len(docs))
		opts.Progress = func(processed, _ int, current string) {
			bar.Describe(fmt.Sprintf("[cyan]Extracting[reset] %s", current))
			_ = bar.Set(processed)
		}
	}

	g, err := generator.New(opts)
	if err != nil {
		return err
	}

	out, err := g.Generate(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	stubs, document, err := g.Render(out, cfg.Output.Format)
	if err != nil {
		return err
	}

	if err := writeOutputs(cmd.OutOrStdout(),
		output{cfg.Output.Stubs, stubs},
		output{cfg.Output.Document, document},
	); err != nil {
		return err
	}

	if !cfg.Logging.Quiet {
		s := out.Stats
		fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d methods from %d documents (%d diagnostics, %d cached)\n",
			s.Methods, s.Documents, s.Diagnostics, s.CacheHits)
	}
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Extracting[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

// checkOutputPath verifies that the parent of path exists and that path
// itself is not a directory.
func checkOutputPath(path string) error {
	if path == "-" {
		return nil
	}
	outDir := filepath.Dir(path)
	if fi, err := os.Stat(outDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory %s does not exist, please create it first", outDir)
		}
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outDir)
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return fmt.Errorf("output path %s is a directory", path)
	}
	return nil
}

type output struct {
	path string
	data []byte
}

// writeOutputs writes every output through a temporary file in the target
// directory. All temporary files are written before the first rename, so a
// failure leaves every target untouched. "-" writes to stdout.
func writeOutputs(stdout io.Writer, outs ...output) error {
	for _, o := range outs {
		if err := checkOutputPath(o.path); err != nil {
			return err
		}
	}

	staged := make([]string, len(outs))
	defer func() {
		for _, tmp := range staged {
			if tmp != "" {
				_ = os.Remove(tmp)
			}
		}
	}()

	for i, o := range outs {
		if o.path == "-" {
			continue
		}
		tmp, err := stage(o.path, o.data)
		if err != nil {
			return err
		}
		staged[i] = tmp
	}

	for i, o := range outs {
		if o.path == "-" {
			if _, err := stdout.Write(o.data); err != nil {
				return err
			}
			continue
		}
		if err := os.Rename(staged[i], o.path); err != nil {
			return fmt.Errorf("replace %s: %w", o.path, err)
		}
		staged[i] = ""
	}
	return nil
}

// stage writes data to a temporary file next to path and returns its name.
func stage(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
