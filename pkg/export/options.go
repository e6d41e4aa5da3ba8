package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/sysmlite/pkg/cache"
	"github.com/matzehuels/sysmlite/pkg/capture"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
)

// Format constants for output formats.
const (
	FormatJSON    = "json"
	FormatMermaid = "mmd"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatPNG     = "png"
)

// Engine constants select the PNG renderer.
const (
	EngineRaster   = "raster"
	EngineGraphviz = "graphviz"
)

const (
	// DefaultScale is the pixel density of PNG captures.
	DefaultScale = 1.0

	// DefaultEngine renders PNGs from the canvas.
	DefaultEngine = EngineRaster

	// TTLArtifact is how long rendered SVG and PNG artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Formats lists every supported format in a stable order.
var Formats = []string{FormatJSON, FormatMermaid, FormatDOT, FormatSVG, FormatPNG}

var extensions = map[string]string{
	FormatJSON:    ".json",
	FormatMermaid: ".mmd",
	FormatDOT:     ".dot",
	FormatSVG:     ".svg",
	FormatPNG:     ".png",
}

var contentTypes = map[string]string{
	FormatJSON:    "application/json",
	FormatMermaid: "text/vnd.mermaid; charset=utf-8",
	FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	FormatSVG:     "image/svg+xml",
	FormatPNG:     "image/png",
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string { return extensions[format] }

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ParseFormats splits a comma-separated list such as "png,mmd".
// Blank entries are dropped and names are lower-cased.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Options configures an export.
type Options struct {
	Formats []string `json:"formats" validate:"required,min=1,dive,oneof=json mmd dot svg png"`

	// Raster options
	Scale   float64 `json:"scale,omitempty" validate:"gte=0,lte=8"`
	Padding float64 `json:"padding,omitempty" validate:"gte=0,lte=2000"`
	Chrome  bool    `json:"chrome,omitempty"` // include minimap and controls
	Engine  string  `json:"engine,omitempty" validate:"omitempty,oneof=raster graphviz"`

	// Graphviz options
	Pinned   bool `json:"pinned,omitempty"`
	Detailed bool `json:"detailed,omitempty"`

	// Refresh skips cache lookups; fresh artifacts are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-" validate:"-"`

	validated bool
}

var validate = validator.New()

// ValidateAndSetDefaults applies defaults and checks every field.
// Calling it again after success is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = strings.ToLower(f)
	}
	o.Formats = formats
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Padding == 0 {
		o.Padding = capture.DefaultPadding
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := validate.Struct(o); err != nil {
		return optionsError(err)
	}
	o.validated = true
	return nil
}

func optionsError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid export options")
	}
	fe := verrs[0]
	if fe.Tag() == "oneof" {
		if strings.HasPrefix(fe.Field(), "Formats") {
			return errs.New(errs.ErrCodeUnsupported, "unsupported format %q (must be one of: %s)",
				fe.Value(), strings.Join(Formats, ", "))
		}
		return errs.New(errs.ErrCodeUnsupported, "unsupported %s %q", strings.ToLower(fe.Field()), fe.Value())
	}
	return errs.New(errs.ErrCodeInvalidInput, "invalid %s: %s", strings.ToLower(fe.Field()), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "at least one value is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	}
	return fmt.Sprintf("failed %q", fe.Tag())
}

// Cacheable reports whether format is expensive enough to cache.
func Cacheable(format string) bool { return format == FormatSVG || format == FormatPNG }

// ArtifactKeyOpts returns cache key options for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		if o.Engine == EngineGraphviz {
			k.Format = format + "+" + EngineGraphviz
			k.Pinned, k.Detailed = o.Pinned, o.Detailed
			break
		}
		k.Scale, k.Padding, k.Chrome = o.Scale, o.Padding, o.Chrome
	case FormatSVG, FormatDOT:
		k.Pinned, k.Detailed = o.Pinned, o.Detailed
	}
	return k
}
