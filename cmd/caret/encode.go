package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"caret/internal/diag"
	"caret/internal/manifest"
	"caret/internal/source"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [flags] <manifest.toml>...",
	Short: "Encode manifests into a binary diagnostic bundle",
	Long:  `Encode packs manifests, including their source text, into a single binary bundle that renders anywhere via "caret render --encoded"`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(maxBundleDiagnostics)
	for _, path := range args {
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		b, err := m.Build(fs)
		if err != nil {
			return err
		}
		bag.Merge(b)
	}

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	return diag.EncodeBag(w, bag, fs)
}

const maxBundleDiagnostics = 4096
