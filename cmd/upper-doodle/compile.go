package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/spf13/cobra"

	"github.com/theengineear/upper-doodle-sub000/compile"
	"github.com/theengineear/upper-doodle-sub000/config"
	"github.com/theengineear/upper-doodle-sub000/diagram"
	"github.com/theengineear/upper-doodle-sub000/export"
	"github.com/theengineear/upper-doodle-sub000/graph"
)

func compileCmd() *cobra.Command {
	var (
		format  string
		outDir  string
		check   bool
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "compile <pattern>...",
		Short: "Compile diagram files to RDF",
		Long: `Compile expands each glob pattern (with ** support), compiles every
matched diagram document, and writes the serialized output to stdout or,
with --out, to one file per diagram.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), args, format, outDir, check, publish)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (turtle, ntriples); overrides config")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: stdout)")
	cmd.Flags().BoolVar(&check, "check", false, "Print element classification diagnostics")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish compiled triples to the knowledge graph")

	return cmd
}

func runCompile(ctx context.Context, patterns []string, formatFlag, outDir string, check, publish bool) error {
	cfg, err := config.NewLoader(slog.Default()).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	formatName := cfg.Output.Format
	if formatFlag != "" {
		formatName = formatFlag
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	paths, err := resolvePatterns(patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no diagram files match %s", strings.Join(patterns, " "))
	}

	var nc *natsclient.Client
	if publish {
		nc, err = connectToNATS(ctx, cfg.NATS.URL, slog.Default())
		if err != nil {
			return err
		}
		defer nc.Close(ctx)
	}

	for _, path := range paths {
		output, domain, result, err := compileFile(cfg, path, format)
		if err != nil {
			return fmt.Errorf("compile %s: %w", path, err)
		}

		if check {
			printDiagnostics(path, result)
		}

		if err := writeOutput(path, outDir, format, output); err != nil {
			return err
		}

		if publish {
			if err := graph.PublishModel(ctx, nc, domain, result); err != nil {
				return fmt.Errorf("publish %s: %w", path, err)
			}
			slog.Info("Published to knowledge graph",
				"path", path,
				"entity", graph.ModelEntityID(domain))
		}
	}

	return nil
}

// resolvePatterns expands glob patterns to concrete diagram files.
// Supports both single-level wildcards (*) and recursive wildcards (**).
func resolvePatterns(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		if matches == nil && !strings.ContainsAny(pattern, "*?[{") {
			// A literal path is used as-is so a missing file errors later
			// with a useful message.
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				resolved = append(resolved, m)
			}
		}
	}

	sort.Strings(resolved)
	return resolved, nil
}

// compileFile loads, compiles, and serializes one diagram document. The
// document's own domain and prefixes take precedence over the config's.
func compileFile(cfg *config.Config, path string, format export.Format) (string, string, compile.Result, error) {
	doc, err := diagram.Load(path)
	if err != nil {
		return "", "", compile.Result{}, err
	}

	domain := doc.Domain
	if domain == "" {
		domain = cfg.Domain
	}
	if domain == "" {
		return "", "", compile.Result{}, fmt.Errorf("no domain declared in document or config")
	}

	prefixes := make(map[string]string, len(cfg.Prefixes)+len(doc.Prefixes))
	for name, ns := range cfg.Prefixes {
		prefixes[name] = ns
	}
	for name, ns := range doc.Prefixes {
		prefixes[name] = ns
	}

	result := compile.Generate(domain, prefixes, doc.Elements, "")

	output, err := export.Render(format, result.UsedPrefixes, result.NTriples)
	if err != nil {
		return "", "", compile.Result{}, err
	}
	return output, domain, result, nil
}

func writeOutput(path, outDir string, format export.Format, output string) error {
	if outDir == "" {
		fmt.Print(output)
		return nil
	}

	info, _ := export.GetFormatInfo(format)
	base := strings.TrimSuffix(filepath.Base(path), ".doodle.json")
	outPath := filepath.Join(outDir, base+info.Extension)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(output), 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	slog.Info("Compiled diagram", "input", path, "output", outPath)
	return nil
}

func printDiagnostics(path string, result compile.Result) {
	fmt.Fprintf(os.Stderr, "%s:\n", path)
	fmt.Fprintf(os.Stderr, "  used: %d  ignored: %d  invalid: %d  raw: %d  keyed: %d\n",
		len(result.Used), len(result.Ignored), len(result.Invalid), len(result.Raw), len(result.Keyed))
	for _, id := range sortedSet(result.Invalid) {
		fmt.Fprintf(os.Stderr, "  invalid: %s\n", id)
	}
}

func sortedSet(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	natsURL := "nats://localhost:4222"

	// Environment variable override takes precedence
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		natsURL = envURL
	} else if url != "" {
		natsURL = url
	}

	logger.Info("Connecting to NATS", "url", natsURL)

	client, err := natsclient.NewClient(natsURL,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("NATS connection failed: %w", err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, fmt.Errorf("NATS connection failed: %w", err)
	}

	logger.Info("Connected to NATS", "url", natsURL)
	return client, nil
}
