// Package mapping resolves canonical semantic product fields (name, price,
// SKU, ...) onto the actual column names present in an upload.
//
// Matching is two-stage: a generic synonym pass (case-insensitive substring,
// including Russian-language equivalents), then platform-specific exact
// overrides when the platform is known. Fields with no match are simply
// absent from the result; fallback extraction is the caller's problem, not
// the mapper's.
package mapping

import "strings"

// Field names a canonical semantic product attribute, independent of any one
// platform's column naming.
type Field string

const (
	FieldProductName Field = "productName"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldSKU         Field = "sku"
	FieldCategory    Field = "category"
	FieldBrand       Field = "brand"
	FieldImageURL    Field = "imageUrl"
	FieldQuantity    Field = "quantity"
)

// Fields lists every canonical field in a stable order.
var Fields = []Field{
	FieldProductName,
	FieldDescription,
	FieldPrice,
	FieldSKU,
	FieldCategory,
	FieldBrand,
	FieldImageURL,
	FieldQuantity,
}

// ColumnMapping maps canonical fields to actual source column names. A
// missing key means the field was not found.
type ColumnMapping map[Field]string

// synonyms holds lowercase substrings recognized per field, most specific
// first. The Russian entries cover the common local-platform exports.
var synonyms = map[Field][]string{
	FieldProductName: {"product name", "название", "наименование", "item name", "title", "name"},
	FieldDescription: {"описание", "description", "body (html)", "body_html", "text"},
	FieldPrice:       {"цена", "price", "стоимость"},
	FieldSKU:         {"артикул", "sku", "item code", "product code", "код товара"},
	FieldCategory:    {"категория", "category", "categories", "раздел", "product type"},
	FieldBrand:       {"бренд", "производитель", "brand", "vendor", "manufacturer"},
	FieldImageURL:    {"изображен", "фото", "image", "picture", "photo"},
	FieldQuantity:    {"количество", "остаток", "quantity", "qty", "stock", "inventory"},
}

// overrides maps a platform identifier to its exact (case-insensitive)
// header names per field. Overrides win over the generic synonym pass.
var overrides = map[string]map[Field]string{
	"shopify": {
		FieldProductName: "Title",
		FieldDescription: "Body (HTML)",
		FieldPrice:       "Variant Price",
		FieldSKU:         "Variant SKU",
		FieldBrand:       "Vendor",
		FieldCategory:    "Type",
		FieldImageURL:    "Image Src",
		FieldQuantity:    "Variant Inventory Qty",
	},
	"woocommerce": {
		FieldProductName: "Name",
		FieldDescription: "Description",
		FieldPrice:       "Regular price",
		FieldSKU:         "SKU",
		FieldCategory:    "Categories",
		FieldImageURL:    "Images",
		FieldQuantity:    "Stock",
	},
	"insales": {
		FieldProductName: "Название товара",
		FieldDescription: "Полное описание",
		FieldPrice:       "Цена продажи",
		FieldSKU:         "Артикул",
		FieldImageURL:    "Изображения",
		FieldQuantity:    "Остаток",
	},
	"tilda": {
		FieldProductName: "Title",
		FieldDescription: "Text",
		FieldPrice:       "Price",
		FieldSKU:         "SKU",
		FieldCategory:    "Category",
		FieldBrand:       "Brand",
		FieldImageURL:    "Photo",
		FieldQuantity:    "Quantity",
	},
	"wildberries": {
		FieldProductName: "Наименование",
		FieldSKU:         "Артикул поставщика",
		FieldBrand:       "Бренд",
		FieldCategory:    "Предмет",
		FieldPrice:       "Цена",
	},
	"ozon": {
		FieldProductName: "Название товара",
		FieldSKU:         "Артикул",
		FieldPrice:       "Цена",
		FieldImageURL:    "Ссылка на главное фото",
	},
}

// MapColumns builds the canonical-field mapping for the given headers.
// platformID may be platform.Unknown or empty; overrides are skipped then.
func MapColumns(headers []string, platformID string) ColumnMapping {
	out := make(ColumnMapping, len(Fields))

	for _, f := range Fields {
		if col, ok := matchSynonym(headers, synonyms[f]); ok {
			out[f] = col
		}
	}

	// Platform overrides replace generic matches only when the exact
	// header is actually present in this upload.
	for f, want := range overrides[platformID] {
		if col, ok := findExact(headers, want); ok {
			out[f] = col
		}
	}

	return out
}

// matchSynonym returns the first header containing any of the synonyms,
// scanning synonyms in priority order so that specific names win over
// generic ones ("product name" before "name").
func matchSynonym(headers []string, syns []string) (string, bool) {
	for _, syn := range syns {
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), syn) {
				return h, true
			}
		}
	}
	return "", false
}

func findExact(headers []string, want string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return h, true
		}
	}
	return "", false
}
