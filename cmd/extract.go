package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/liuzenghui2007/extract-images/internal/manifest"
	"github.com/liuzenghui2007/extract-images/internal/pipeline"
	"github.com/liuzenghui2007/extract-images/internal/profile"
)

var (
	extractOutDir     string
	extractPrefix     string
	extractProfile    string
	extractWorkers    int
	extractFormat     string
	extractThumbWidth int
	extractStrict     bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Extract every image of a PDF into an output directory",
	Long: `Reads the document, pairs images with their soft masks and writes one
file per image: JPEG streams as stored, everything else as PNG (or TIFF
with --format tiff). Soft masks are merged into the image they belong to
and are not written on their own.

Files are numbered in document order: out1.png, out2.jpg, ...
Numbered files left by an earlier run are removed first.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", ".", "output directory")
	extractCmd.Flags().StringVar(&extractPrefix, "prefix", pipeline.DefaultPrefix, "output file name prefix")
	extractCmd.Flags().StringVarP(&extractProfile, "profile", "p", profile.DefaultName, "output profile (default, preview, archive)")
	extractCmd.Flags().IntVarP(&extractWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "container for reconstructed images (overrides profile)")
	extractCmd.Flags().IntVar(&extractThumbWidth, "thumb-width", -1, "thumbnail width, 0 disables (overrides profile)")
	extractCmd.Flags().BoolVar(&extractStrict, "strict", false, "stop at the first image that fails")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(extractOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof := profile.Get(extractProfile)
	if !profile.Known(extractProfile) {
		fmt.Fprintf(os.Stderr, "[extract-images] warning: unknown profile %q, using defaults\n", extractProfile)
	}
	if extractFormat != "" {
		prof.Format = extractFormat
	}
	if cmd.Flags().Changed("thumb-width") {
		prof.ThumbWidth = extractThumbWidth
	}
	if extractStrict {
		prof.Strict = true
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (format=%s, thumbs=%d, strict=%t)", prof.Name, prof.Format, prof.ThumbWidth, prof.Strict)

	p, err := pipeline.New(pipeline.Config{
		InputPath: absInput,
		OutputDir: absOutput,
		Prefix:    extractPrefix,
		Profile:   prof,
		Workers:   extractWorkers,
		Verbose:   verbose,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := p.Run(ctx)
	if err != nil {
		if pipeline.IsMalformed(err) {
			return fmt.Errorf("malformed document: %w", err)
		}
		return fmt.Errorf("extract: %w", err)
	}

	printExtractReport(m, absOutput, time.Since(start))
	return nil
}

func printExtractReport(m *manifest.Manifest, dir string, elapsed time.Duration) {
	s := m.Stats
	fmt.Println()
	fmt.Printf("  Images in document: %d (%d soft masks)\n", s.TotalObjects, s.AlphaLayers)
	fmt.Printf("  Extracted:          %d\n", s.Extracted)
	if s.Failed > 0 {
		fmt.Printf("  Failed:             %d\n", s.Failed)
	}
	fmt.Printf("  Stored data:        %s\n", formatBytes(s.TotalSourceBytes))
	fmt.Printf("  Written:            %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Time:               %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	for _, img := range m.Images {
		kind := img.Kind
		if img.Model != "" {
			kind += ", " + img.Model
		}
		fmt.Printf("    %-12s %5dx%-5d %-16s %8s  %s\n",
			img.Path, img.Width, img.Height, kind, formatBytes(img.Size), img.Name)
	}
	for _, f := range m.Failures {
		fmt.Printf("    ✗ %s (%s): %s\n", f.Name, f.Ref, f.Error)
	}
	fmt.Println()
	fmt.Printf("  Manifest:           %s\n", filepath.Join(dir, manifest.FileName))
	fmt.Println()
}
