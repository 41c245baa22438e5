package intake

// NoneID is the sentinel condition meaning no listed condition applies. It is
// mutually exclusive with every other catalog entry.
const NoneID = "none"

// Prompt is shown above the condition list.
const Prompt = "Select any conditions that apply to you:"

// Condition is a single screening entry rendered as a checkbox.
type Condition struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// catalog is the fixed, ordered screening list. Exactly one entry is NoneID.
var catalog = []Condition{
	{ID: "hiv", Label: "HIV/AIDS or increased exposure to HIV/AIDS virus"},
	{ID: "hepatitis", Label: "Hepatitis B or C"},
	{ID: "cancer", Label: "Hodgkin's disease, leukemia, lymphoma or malignant melanoma"},
	{ID: "tuberculosis", Label: "Active tuberculosis"},
	{ID: "cjd", Label: "vCJD, CJD or any other transmissible spongiform encephalopathies"},
	{ID: "growthHormone", Label: "Received cadaveric pituitary human growth hormone"},
	{ID: "ebola", Label: "Ebola virus infection or disease"},
	{ID: NoneID, Label: "None of the above"},
}

// Catalog returns a copy of the condition catalog in display order.
func Catalog() []Condition {
	out := make([]Condition, len(catalog))
	copy(out, catalog)
	return out
}

// IsKnownCondition reports whether id belongs to the catalog.
func IsKnownCondition(id string) bool {
	for _, c := range catalog {
		if c.ID == id {
			return true
		}
	}
	return false
}
