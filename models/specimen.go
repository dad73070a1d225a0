package models

// SpecimenType is the closed set of specimen categories the classifier may return.
type SpecimenType string

const (
	SpecimenFossil   SpecimenType = "Fossil"
	SpecimenGemstone SpecimenType = "Gemstone"
	SpecimenMineral  SpecimenType = "Mineral"
	SpecimenOther    SpecimenType = "Other"
)

// NotApplicable is the sentinel used for fossil-only fields on non-fossils.
const NotApplicable = "N/A"

// SpecimenTypes lists every valid SpecimenType in display order.
var SpecimenTypes = []SpecimenType{SpecimenFossil, SpecimenGemstone, SpecimenMineral, SpecimenOther}

// Valid reports whether t is one of the known specimen types.
func (t SpecimenType) Valid() bool {
	for _, known := range SpecimenTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AnalysisResult is the classification of a single specimen image.
type AnalysisResult struct {
	ScientificName     string       `json:"scientificName"`
	CommonName         string       `json:"commonName"`
	SpecimenType       SpecimenType `json:"specimenType"`
	Description        string       `json:"description"`
	GeologicalContext  string       `json:"geologicalContext"`
	GeologicalPeriod   string       `json:"geologicalPeriod"`
	FossilizationType  string       `json:"fossilizationType"`
	EstimatedValue     string       `json:"estimatedValue"`
	KeyCharacteristics []string     `json:"keyCharacteristics"`
}

// IsFossil reports whether the specimen was classified as a fossil.
func (r *AnalysisResult) IsFossil() bool {
	return r.SpecimenType == SpecimenFossil
}

// AppraisalResult is a market appraisal built on top of an AnalysisResult.
type AppraisalResult struct {
	EstimatedValueRange  string   `json:"estimatedValueRange"`
	ConfidenceScore      float64  `json:"confidenceScore"`
	ValuationMethodology string   `json:"valuationMethodology"`
	PositiveValueFactors []string `json:"positiveValueFactors"`
	NegativeValueFactors []string `json:"negativeValueFactors"`
}
