package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"caret/internal/diag"
	"caret/internal/diagfmt"
	"caret/internal/manifest"
	"caret/internal/source"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <manifest.toml>...",
	Short: "Render diagnostics from manifest files",
	Long:  `Render reads diagnostic manifests and draws their diagnostics as annotated source snippets`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("format", "graphical", "output format (graphical|narratable|json|short)")
	renderCmd.Flags().Int("width", 0, "terminal width to wrap to (0=auto)")
	renderCmd.Flags().Bool("ascii", false, "draw with plain ASCII instead of unicode")
	renderCmd.Flags().Int("context-before", 1, "context lines before each span")
	renderCmd.Flags().Int("context-after", 1, "context lines after each span")
	renderCmd.Flags().Int("tab-width", 4, "number of spaces a tab expands to")
	renderCmd.Flags().Bool("links", false, "render diagnostic codes as terminal hyperlinks")
	renderCmd.Flags().Bool("encoded", false, "treat inputs as encoded bundles instead of TOML manifests")
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	ascii, err := cmd.Flags().GetBool("ascii")
	if err != nil {
		return fmt.Errorf("failed to get ascii flag: %w", err)
	}
	before, err := cmd.Flags().GetInt("context-before")
	if err != nil {
		return fmt.Errorf("failed to get context-before flag: %w", err)
	}
	after, err := cmd.Flags().GetInt("context-after")
	if err != nil {
		return fmt.Errorf("failed to get context-after flag: %w", err)
	}
	tabWidth, err := cmd.Flags().GetInt("tab-width")
	if err != nil {
		return fmt.Errorf("failed to get tab-width flag: %w", err)
	}
	links, err := cmd.Flags().GetBool("links")
	if err != nil {
		return fmt.Errorf("failed to get links flag: %w", err)
	}
	encoded, err := cmd.Flags().GetBool("encoded")
	if err != nil {
		return fmt.Errorf("failed to get encoded flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	useColor, err := resolveColor(colorMode)
	if err != nil {
		return err
	}
	color.NoColor = !useColor

	opts := diagfmt.DefaultOptions()
	opts.Width = resolveWidth(width)
	opts.ContextBefore = before
	opts.ContextAfter = after
	opts.TabWidth = tabWidth
	opts.Color = useColor
	opts.ASCII = ascii
	opts.Links = links

	type result struct {
		out bytes.Buffer
		bag *diag.Bag
	}
	results := make([]result, len(args))

	var g errgroup.Group
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			bag, fs, err := loadInput(path, encoded)
			if err != nil {
				return err
			}
			bag.Sort()
			results[i].bag = bag
			return renderBag(&results[i].out, format, opts, fs, bag)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	hasErrors := false
	for i := range results {
		if _, err := os.Stdout.Write(results[i].out.Bytes()); err != nil {
			return err
		}
		if results[i].bag.HasErrors() {
			hasErrors = true
		}
	}
	if hasErrors {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "error diagnostics were reported")
		os.Exit(1)
	}
	return nil
}

// loadInput turns one input file into a bag plus the file set its spans
// point into, either by building a TOML manifest or by decoding a bundle
// written by `caret encode`.
func loadInput(path string, encoded bool) (*diag.Bag, *source.FileSet, error) {
	if encoded {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return diag.DecodeBag(f)
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, nil, err
	}
	fs := source.NewFileSet()
	bag, err := m.Build(fs)
	if err != nil {
		return nil, nil, err
	}
	return bag, fs, nil
}

func renderBag(w io.Writer, format string, opts diagfmt.Options, fs *source.FileSet, bag *diag.Bag) error {
	switch format {
	case "graphical":
		return diagfmt.NewGraphical(opts).RenderBag(w, fs, bag)
	case "narratable":
		return diagfmt.NewNarratable(opts).RenderBag(w, fs, bag)
	case "json":
		return diagfmt.WriteJSON(w, fs, bag)
	case "short":
		return diagfmt.WriteShort(w, fs, bag)
	default:
		return fmt.Errorf("unknown format: %s (want graphical|narratable|json|short)", format)
	}
}

func resolveColor(mode string) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("unknown color mode: %s (want auto|on|off)", mode)
	}
}

func resolveWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if isTerminal(os.Stdout) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 100
}
