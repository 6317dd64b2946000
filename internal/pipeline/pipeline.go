package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/liuzenghui2007/extract-images/internal/descriptor"
	"github.com/liuzenghui2007/extract-images/internal/document"
	"github.com/liuzenghui2007/extract-images/internal/encoder"
	"github.com/liuzenghui2007/extract-images/internal/hasher"
	"github.com/liuzenghui2007/extract-images/internal/manifest"
	"github.com/liuzenghui2007/extract-images/internal/profile"
	"github.com/liuzenghui2007/extract-images/internal/thumbnail"
)

// DefaultPrefix is the file name prefix of extracted images.
const DefaultPrefix = "out"

// Config holds all parameters for an extraction run.
type Config struct {
	InputPath string
	OutputDir string
	Prefix    string
	Profile   profile.Profile
	Workers   int
	Verbose   bool
	// Log receives progress and warnings; defaults to os.Stderr.
	Log io.Writer
}

// Pipeline extracts the images of one document.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	enc      encoder.Encoder
}

// New creates a configured pipeline. It fails if the profile names an
// unknown output format.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Log == nil {
		cfg.Log = os.Stderr
	}
	reg := encoder.NewRegistry()
	enc, err := reg.Lookup(cfg.Profile.Format)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, registry: reg, enc: enc}, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	fmt.Fprintf(p.cfg.Log, "[extract-images] "+format+"\n", args...)
}

func (p *Pipeline) debugf(format string, args ...any) {
	if p.cfg.Verbose {
		p.logf(format, args...)
	}
}

// Run opens the input document and extracts its images.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	doc, err := document.Open(p.cfg.InputPath)
	if err != nil {
		return nil, err
	}
	return p.RunDocument(ctx, doc)
}

// RunDocument extracts the images of an already opened document and
// returns the manifest, which has also been written to the output
// directory.
func (p *Pipeline) RunDocument(ctx context.Context, doc document.Document) (*manifest.Manifest, error) {
	p.debugf("%s", p.registry)

	// Step 1: descriptors. A malformed document stops here, before any
	// pixel is reconstructed.
	set, err := Load(doc)
	if err != nil {
		return nil, err
	}
	for _, d := range set.Images() {
		p.debugf("%s", Describe(d))
	}

	jobs := set.Emittable()
	p.debugf("found %d images (%d alpha layers)", set.Len(), set.Len()-len(jobs))

	// Step 2: reconstruct in parallel. Descriptors are read-only from
	// here on.
	results := make([]processResult, len(jobs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, d := range jobs {
		wg.Add(1)
		go func(idx int, d *descriptor.ImageDescriptor) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx].desc = d
			if err := ctx.Err(); err != nil {
				results[idx].err = err
				return
			}
			results[idx].out, results[idx].err = Render(d, p.enc)
		}(i, d)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failed []processResult
	for _, r := range results {
		if r.err == nil {
			continue
		}
		if p.cfg.Profile.Strict {
			return nil, r.err
		}
		failed = append(failed, r)
	}
	if len(jobs) > 0 && len(failed) == len(jobs) {
		for _, r := range failed {
			p.logf("error: %v", r.err)
		}
		return nil, fmt.Errorf("all %d images failed to extract", len(jobs))
	}

	// Step 3: persist, numbering only the images that produced output.
	m, err := p.write(results, set)
	if err != nil {
		return nil, err
	}
	for _, r := range failed {
		p.logf("warning: skipped %v", r.err)
		m.Failures = append(m.Failures, manifest.Failure{
			Name:  r.desc.Name,
			Ref:   r.desc.Ref.String(),
			Error: r.err.Error(),
		})
	}

	if err := manifest.WriteJSON(m, filepath.Join(p.cfg.OutputDir, manifest.FileName)); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return m, nil
}

func (p *Pipeline) write(results []processResult, set *descriptor.Set) (*manifest.Manifest, error) {
	dir := p.cfg.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	n, err := ClearOutputs(dir, p.cfg.Prefix)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		p.debugf("removed %d files from a previous run", n)
	}
	if p.cfg.Profile.ThumbWidth > 0 {
		if err := os.MkdirAll(filepath.Join(dir, ThumbDir), 0o755); err != nil {
			return nil, fmt.Errorf("create thumbnail dir: %w", err)
		}
	}

	m := manifest.New(p.cfg.InputPath, p.cfg.Profile.Name)
	m.BuildInfo = &manifest.BuildInfo{
		Workers: p.cfg.Workers,
		Format:  p.enc.Format(),
		Strict:  p.cfg.Profile.Strict,
	}
	m.Images = []manifest.Image{}
	for _, d := range set.Images() {
		m.Stats.TotalObjects++
		m.Stats.TotalSourceBytes += int64(len(d.Data))
		if d.IsAlphaLayer {
			m.Stats.AlphaLayers++
		}
	}

	idx := 0
	for _, r := range results {
		if r.err != nil {
			continue
		}
		idx++
		name := outputName(p.cfg.Prefix, idx, r.out.Extension)
		if err := os.WriteFile(filepath.Join(dir, name), r.out.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		p.debugf("wrote %s (%s, %d bytes)", name, r.desc, len(r.out.Data))

		img := manifest.Image{
			Path:   name,
			Name:   r.desc.Name,
			Ref:    r.desc.Ref.String(),
			Kind:   r.out.Kind,
			Model:  r.out.Model,
			Width:  r.desc.Width,
			Height: r.desc.Height,
			Size:   int64(len(r.out.Data)),
			Hash:   hasher.Sum(r.out.Data),
		}
		if r.desc.Mask != nil {
			img.MaskRef = r.desc.Mask.Ref.String()
		}

		if w := p.cfg.Profile.ThumbWidth; w > 0 {
			thumb, err := p.writeThumbnail(name, r.out.Data, w)
			if err != nil {
				// A broken preview does not invalidate the extracted file.
				p.logf("warning: thumbnail for %s: %v", name, err)
			}
			img.Thumbnail = thumb
		}
		m.Images = append(m.Images, img)
	}
	return m, nil
}

func (p *Pipeline) writeThumbnail(name string, data []byte, width int) (string, error) {
	thumb, err := thumbnail.Make(data, width)
	if err != nil {
		return "", err
	}
	base := name[:len(name)-len(filepath.Ext(name))] + ".png"
	rel := filepath.ToSlash(filepath.Join(ThumbDir, base))
	if err := os.WriteFile(filepath.Join(p.cfg.OutputDir, rel), thumb, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

// IsMalformed reports whether err aborted the run because the document
// itself is inconsistent.
func IsMalformed(err error) bool {
	return errors.Is(err, descriptor.ErrMalformedDocument)
}
