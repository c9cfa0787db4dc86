// Package manifest loads diagnostic manifests: TOML files that pair a
// source file (or inline source text) with the diagnostics to report
// against it. Manifests are the command line front door to the renderer
// and double as a fixture format for tools that emit diagnostics.
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"caret/internal/diag"
	"caret/internal/source"
)

type Manifest struct {
	// Path is the manifest file location, Root its directory. Relative
	// source paths resolve against Root.
	Path string
	Root string

	Source      SourceConfig       `toml:"source"`
	Diagnostics []DiagnosticConfig `toml:"diagnostic"`
}

type SourceConfig struct {
	// Path names a file on disk. Text carries inline source instead; the
	// two are mutually exclusive. Name overrides the display name for
	// inline text.
	Path string `toml:"path"`
	Text string `toml:"text"`
	Name string `toml:"name"`
}

type DiagnosticConfig struct {
	Severity string             `toml:"severity"`
	Code     string             `toml:"code"`
	Message  string             `toml:"message"`
	Help     string             `toml:"help"`
	URL      string             `toml:"url"`
	Causes   []string           `toml:"causes"`
	Labels   []LabelConfig      `toml:"label"`
	Related  []DiagnosticConfig `toml:"related"`
}

type LabelConfig struct {
	Offset  uint32 `toml:"offset"`
	Length  uint32 `toml:"length"`
	Text    string `toml:"text"`
	Primary bool   `toml:"primary"`
}

// Load parses and validates a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("source") {
		return nil, fmt.Errorf("%s: missing [source]", path)
	}
	hasPath := meta.IsDefined("source", "path") && strings.TrimSpace(m.Source.Path) != ""
	hasText := meta.IsDefined("source", "text")
	if hasPath == hasText {
		return nil, fmt.Errorf("%s: [source] needs exactly one of path or text", path)
	}
	if len(m.Diagnostics) == 0 {
		return nil, fmt.Errorf("%s: no [[diagnostic]] entries", path)
	}
	for i := range m.Diagnostics {
		if err := validateDiagnostic(path, &m.Diagnostics[i]); err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve path: %w", path, err)
	}
	m.Path = abs
	m.Root = filepath.Dir(abs)
	return &m, nil
}

func validateDiagnostic(path string, dc *DiagnosticConfig) error {
	if strings.TrimSpace(dc.Message) == "" {
		return fmt.Errorf("%s: [[diagnostic]] missing message", path)
	}
	for i := range dc.Related {
		if err := validateDiagnostic(path, &dc.Related[i]); err != nil {
			return err
		}
	}
	return nil
}

// Build registers the manifest's source in fs and returns its diagnostics
// as a bag.
func (m *Manifest) Build(fs *source.FileSet) (*diag.Bag, error) {
	var id source.FileID
	if m.Source.Text != "" || m.Source.Path == "" {
		name := m.Source.Name
		if name == "" {
			name = "<inline>"
		}
		id = fs.AddVirtual(name, []byte(m.Source.Text))
	} else {
		p := m.Source.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, filepath.FromSlash(p))
		}
		var err error
		id, err = fs.Load(p)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to load source: %w", m.Path, err)
		}
	}

	bag := diag.NewBag(len(m.Diagnostics))
	for i := range m.Diagnostics {
		bag.Add(buildDiagnostic(id, &m.Diagnostics[i]))
	}
	return bag, nil
}

func buildDiagnostic(id source.FileID, dc *DiagnosticConfig) diag.Diagnostic {
	d := diag.New(diag.ParseSeverity(dc.Severity), diag.Code(dc.Code), id, dc.Message)
	d.Help = dc.Help
	d.URL = dc.URL
	d.Causes = dc.Causes
	for _, lc := range dc.Labels {
		d.Labels = append(d.Labels, source.LabeledSpan{
			Span:    source.NewSpan(lc.Offset, lc.Length),
			Label:   lc.Text,
			Primary: lc.Primary,
		})
	}
	for i := range dc.Related {
		d.Related = append(d.Related, buildDiagnostic(id, &dc.Related[i]))
	}
	return d
}
