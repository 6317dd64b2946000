package profile

// Profile defines how extracted images are written.
type Profile struct {
	Name       string
	Format     string // container for reconstructed images: "png" or "tiff"
	ThumbWidth int    // thumbnail width in pixels, 0 = no thumbnails
	Strict     bool   // abort on the first image that fails
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:   "default",
		Format: "png",
	},
	"preview": {
		Name:       "preview",
		Format:     "png",
		ThumbWidth: 256,
	},
	"archive": {
		Name:   "archive",
		Format: "tiff",
		Strict: true,
	},
}

// DefaultName is used when no profile is requested.
const DefaultName = "default"

// Get returns a profile by name. Unknown names fall back to the default
// profile but keep the requested name.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}
