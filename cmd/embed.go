package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/spf13/cobra"

	"github.com/liuzenghui2007/extract-images/internal/manifest"
)

var (
	embedOut   string
	embedForce bool
)

var embedCmd = &cobra.Command{
	Use:   "embed <out_dir_or_manifest>",
	Short: "Place extracted images onto the pages of a new PDF",
	Long: `Reads the manifest of an extraction run and writes a PDF with one
page per extracted image, in manifest order.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().StringVarP(&embedOut, "out", "o", "images.pdf", "output PDF")
	embedCmd.Flags().BoolVar(&embedForce, "force", false, "overwrite an existing output PDF")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	if len(m.Images) == 0 {
		return fmt.Errorf("manifest %s lists no images", path)
	}

	// pdfcpu appends pages when the output already exists.
	if _, err := os.Stat(embedOut); err == nil {
		if !embedForce {
			return fmt.Errorf("%s already exists (use --force to replace it)", embedOut)
		}
		if err := os.Remove(embedOut); err != nil {
			return err
		}
	}

	base := filepath.Dir(path)
	files := make([]string, len(m.Images))
	for i, img := range m.Images {
		files[i] = filepath.Join(base, filepath.FromSlash(img.Path))
		logVerbose("page %d: %s", i+1, files[i])
	}

	if err := api.ImportImagesFile(files, embedOut, pdfcpu.DefaultImportConfig(), nil); err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	fmt.Printf("  ✓ %d images written to %s\n", len(files), embedOut)
	return nil
}
