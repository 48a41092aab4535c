package product

// NotFoundName marks records produced for barcodes the lookup could not
// resolve. Not-found records are cached like any positive result so repeated
// scans of an unknown barcode do not retry the network on every frame.
const NotFoundName = "Product Not Found"

// Record is an immutable product description keyed by barcode. Records are
// copied by value into cart entries so a later cache reset cannot alias them.
type Record struct {
	Barcode        string   `json:"barcode"`
	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	Ingredients    []string `json:"ingredients"`
	Allergens      []string `json:"allergens"`
	ImageURL       string   `json:"image_url,omitempty"`
	NutritionGrade string   `json:"nutrition_grade,omitempty"`
}

// Found reports whether the record describes a resolved product.
func (r Record) Found() bool {
	return r.Name != NotFoundName
}

// NotFound builds the sentinel record for an unresolved barcode.
func NotFound(barcode string) Record {
	return Record{
		Barcode: barcode,
		Name:    NotFoundName,
		Brand:   "Unknown",
	}
}
