// Package platform identifies the e-commerce platform that produced a
// tabular export by scoring the header list and a data sample against a
// registry of known platform signatures.
//
// The registry is built once at init and never mutated afterwards, so it is
// safe for unsynchronized concurrent reads by independent pipeline runs.
package platform

import (
	"regexp"
	"strings"
)

// Unknown is the explicit sentinel returned when no signature scores above
// the minimum threshold. Downstream code must handle it; the scorer never
// converts weak evidence into a confident guess.
const Unknown = "unknown"

// EvidenceKind classifies a single scoring observation.
type EvidenceKind string

const (
	EvidenceRequiredColumn EvidenceKind = "required-column"
	EvidenceOptionalColumn EvidenceKind = "optional-column"
	EvidenceDataPattern    EvidenceKind = "data-pattern"
)

// Evidence is one atomic observation supporting a platform hypothesis.
// Items are append-only and belong to exactly one hypothesis.
type Evidence struct {
	Kind       EvidenceKind `json:"kind"`
	Field      string       `json:"field"`
	Weight     int          `json:"weight"`     // relative importance, 1-10
	Confidence int          `json:"confidence"` // 0-100 for this observation alone
}

// fieldPattern pairs a header fingerprint with the value pattern expected in
// that column's data.
type fieldPattern struct {
	header  string
	pattern *regexp.Regexp
}

// Signature is the static description of one known platform: the column
// fingerprints its exports carry and the value shapes of key fields.
// Signatures are configuration, not runtime state.
type Signature struct {
	ID   string
	Name string

	// Required and Optional hold lowercase header fingerprints, matched
	// case-insensitively as exact or substring hits against header names.
	Required []string
	Optional []string

	// Patterns describe regular data shapes for columns matched by the
	// header fingerprint (e.g. Shopify handles are slugs).
	Patterns []fieldPattern

	// Bonus awards up to bonusPoints extra points for platform-distinctive
	// column combinations the generic rules cannot express. May be nil.
	Bonus func(headers []string) (points int, note string)
}

var (
	rePriceValue   = regexp.MustCompile(`^\d+([.,]\d{1,4})?$`)
	reSlug         = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	reDigits       = regexp.MustCompile(`^\d+$`)
	reBarcode      = regexp.MustCompile(`^\d{8,14}$`)
	reWooType      = regexp.MustCompile(`^(simple|variable|variation|grouped|external)$`)
	reShopifyBools = regexp.MustCompile(`^(TRUE|FALSE|true|false)$`)
)

// registry holds every known signature in registration order. Ties between
// equal scores break by this order, deliberately and deterministically.
var registry = []Signature{
	{
		ID:       "shopify",
		Name:     "Shopify",
		Required: []string{"handle", "title", "vendor", "variant price"},
		Optional: []string{"body (html)", "type", "tags", "published", "variant sku", "variant inventory qty", "image src", "option1 name"},
		Patterns: []fieldPattern{
			{"handle", reSlug},
			{"variant price", rePriceValue},
			{"published", reShopifyBools},
		},
		Bonus: requireAll(5, "handle", "variant price"),
	},
	{
		ID:       "woocommerce",
		Name:     "WooCommerce",
		Required: []string{"id", "type", "sku", "name", "regular price"},
		Optional: []string{"sale price", "short description", "description", "categories", "tags", "images", "in stock?", "stock"},
		Patterns: []fieldPattern{
			{"regular price", rePriceValue},
			{"type", reWooType},
		},
		Bonus: requireAll(5, "regular price", "sale price"),
	},
	{
		ID:       "bitrix",
		Name:     "1C-Bitrix",
		Required: []string{"ie_name", "ie_id"},
		Optional: []string{"ie_xml_id", "ie_preview_text", "ie_detail_text", "ie_sort", "ip_prop", "ie_code"},
		Patterns: []fieldPattern{
			{"ie_id", reDigits},
		},
		Bonus: requireAll(5, "ie_name", "ie_xml_id"),
	},
	{
		ID:       "insales",
		Name:     "InSales",
		Required: []string{"название товара", "цена продажи", "артикул"},
		Optional: []string{"краткое описание", "полное описание", "остаток", "вес", "изображения", "параметр"},
		Patterns: []fieldPattern{
			{"цена продажи", rePriceValue},
		},
		Bonus: requireAll(5, "цена продажи", "параметр"),
	},
	{
		ID:       "tilda",
		Name:     "Tilda",
		Required: []string{"title", "price", "sku"},
		Optional: []string{"description", "text", "quantity", "category", "photo", "brand", "external id", "parent uid", "editions"},
		Patterns: []fieldPattern{
			{"price", rePriceValue},
		},
		Bonus: requireAll(5, "parent uid", "photo"),
	},
	{
		ID:       "wildberries",
		Name:     "Wildberries",
		Required: []string{"артикул поставщика", "бренд", "предмет"},
		Optional: []string{"артикул wb", "номенклатура", "баркод", "размер", "цена", "наименование"},
		Patterns: []fieldPattern{
			{"баркод", reBarcode},
		},
		Bonus: requireAll(5, "артикул wb"),
	},
	{
		ID:       "ozon",
		Name:     "Ozon",
		Required: []string{"артикул", "название товара"},
		Optional: []string{"ozon id", "цена", "ндс", "штрихкод", "вес в упаковке", "ссылка на главное фото"},
		Patterns: []fieldPattern{
			{"штрихкод", reBarcode},
			{"цена", rePriceValue},
		},
		Bonus: requireAll(5, "ozon"),
	},
}

// Registry returns the registered signatures in registration order. The
// returned slice must be treated as read-only.
func Registry() []Signature {
	return registry
}

// requireAll builds a Bonus function that awards points when every given
// fingerprint matches some header.
func requireAll(points int, fingerprints ...string) func([]string) (int, string) {
	return func(headers []string) (int, string) {
		for _, f := range fingerprints {
			if !anyHeaderMatches(headers, f) {
				return 0, ""
			}
		}
		return points, strings.Join(fingerprints, "+")
	}
}

// matchesHeader reports whether the lowercase fingerprint matches the header
// name, case-insensitively, as an exact or substring hit.
func matchesHeader(header, fingerprint string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	return h == fingerprint || strings.Contains(h, fingerprint)
}

func anyHeaderMatches(headers []string, fingerprint string) bool {
	for _, h := range headers {
		if matchesHeader(h, fingerprint) {
			return true
		}
	}
	return false
}

// findHeader returns the index of the first header matching the fingerprint,
// or -1.
func findHeader(headers []string, fingerprint string) int {
	for i, h := range headers {
		if matchesHeader(h, fingerprint) {
			return i
		}
	}
	return -1
}
