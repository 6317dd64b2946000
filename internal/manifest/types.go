package manifest

// Manifest is the report written next to the extracted images.
type Manifest struct {
	Version     int        `json:"version"`
	GeneratedAt string     `json:"generated_at"`
	Source      string     `json:"source"`
	Profile     string     `json:"profile"`
	BuildInfo   *BuildInfo `json:"build_info,omitempty"`
	Images      []Image    `json:"images"`
	Failures    []Failure  `json:"failures,omitempty"`
	Stats       Stats      `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers int    `json:"workers"`
	Format  string `json:"format"`
	Strict  bool   `json:"strict"`
}

// Image is one extracted output file.
type Image struct {
	Path      string `json:"path"`                  // relative to the manifest
	Name      string `json:"name"`                  // display name in the document
	Ref       string `json:"ref"`                   // "N G R"
	Kind      string `json:"kind"`                  // "jpg" passthrough or container format
	Model     string `json:"color_model,omitempty"` // empty for passthrough
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MaskRef   string `json:"mask_ref,omitempty"`
	Size      int64  `json:"size"`
	Hash      string `json:"hash"`                  // first 16 hex chars of xxhash64
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Failure records an image that produced no output.
type Failure struct {
	Name  string `json:"name"`
	Ref   string `json:"ref"`
	Error string `json:"error"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalObjects     int   `json:"total_images"` // image objects found, masks included
	AlphaLayers      int   `json:"alpha_layers"`
	Extracted        int   `json:"extracted"`
	Failed           int   `json:"failed"`
	TotalSourceBytes int64 `json:"total_source_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside the output directory.
const FileName = "images.manifest.json"
