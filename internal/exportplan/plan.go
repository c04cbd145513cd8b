// Package exportplan computes the output schema for an ingested file: every
// original column preserved verbatim and in order, followed by the generated
// content columns the downstream writer will fill in.
package exportplan

// GeneratedPrefix namespaces every generated column so it can never collide
// with a user's original column name.
const GeneratedPrefix = "gen_"

// standardGenerated is appended for every upload regardless of platform.
var standardGenerated = []string{
	GeneratedPrefix + "title",
	GeneratedPrefix + "description",
	GeneratedPrefix + "seo_title",
	GeneratedPrefix + "seo_description",
	GeneratedPrefix + "keywords",
}

// platformGenerated holds the extra columns for platforms whose import
// format benefits from them. Platforms without an entry (and Unknown) get
// only the standard set.
var platformGenerated = map[string][]string{
	"shopify":     {GeneratedPrefix + "handle", GeneratedPrefix + "tags"},
	"woocommerce": {GeneratedPrefix + "short_description", GeneratedPrefix + "tags"},
	"insales":     {GeneratedPrefix + "seo_keywords"},
}

// Structure is the planned export schema.
//
// Invariant: OriginalColumns equals the input header list exactly — same
// names, same order, nothing dropped or renamed — regardless of the detected
// platform.
type Structure struct {
	OriginalColumns   []string `json:"original_columns"`
	StandardGenerated []string `json:"standard_generated"`
	PlatformGenerated []string `json:"platform_generated"`
	TotalColumns      int      `json:"total_columns"`

	// GrowthRatio is the added-to-original column ratio, for display only.
	GrowthRatio float64 `json:"growth_ratio"`
}

// Plan computes the export structure for the given original headers and
// detected platform. It is a pure function: same input, same output.
func Plan(headers []string, platformID string) Structure {
	orig := make([]string, len(headers))
	copy(orig, headers)

	std := append([]string(nil), standardGenerated...)
	plat := append([]string(nil), platformGenerated[platformID]...)

	s := Structure{
		OriginalColumns:   orig,
		StandardGenerated: std,
		PlatformGenerated: plat,
		TotalColumns:      len(orig) + len(std) + len(plat),
	}
	if len(orig) > 0 {
		s.GrowthRatio = float64(len(std)+len(plat)) / float64(len(orig))
	}
	return s
}

// GeneratedColumns returns the full ordered list of generated columns
// (standard first, then platform-specific).
func (s Structure) GeneratedColumns() []string {
	out := make([]string, 0, len(s.StandardGenerated)+len(s.PlatformGenerated))
	out = append(out, s.StandardGenerated...)
	out = append(out, s.PlatformGenerated...)
	return out
}

// AllColumns returns the final header row for the export file: originals in
// original order, then generated columns.
func (s Structure) AllColumns() []string {
	out := make([]string, 0, s.TotalColumns)
	out = append(out, s.OriginalColumns...)
	out = append(out, s.GeneratedColumns()...)
	return out
}
