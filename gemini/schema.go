package gemini

import (
	"geomarket/models"

	"google.golang.org/genai"
)

func specimenTypeEnum() []string {
	values := make([]string, len(models.SpecimenTypes))
	for i, t := range models.SpecimenTypes {
		values[i] = string(t)
	}
	return values
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"scientificName": {
			Type:        genai.TypeString,
			Description: "Scientific name of the specimen, e.g. 'Elrathia kingii' for a fossil or 'Quartz' for a mineral.",
		},
		"commonName": {
			Type:        genai.TypeString,
			Description: "Common name of the specimen, e.g. 'Amethyst' or 'Trilobite Fossil'.",
		},
		"specimenType": {
			Type:        genai.TypeString,
			Format:      "enum",
			Enum:        specimenTypeEnum(),
			Description: "One of 'Fossil', 'Gemstone', 'Mineral' or 'Other'.",
		},
		"description": {
			Type:        genai.TypeString,
			Description: "A detailed paragraph on the specimen's characteristics, likely origin and notable facts.",
		},
		"geologicalContext": {
			Type:        genai.TypeString,
			Description: "The geological environment where such specimens are typically found, e.g. 'Pegmatite intrusions'.",
		},
		"geologicalPeriod": {
			Type:        genai.TypeString,
			Description: "For fossils, the geological period, e.g. 'Late Cretaceous'. Must be 'N/A' when not a fossil.",
		},
		"fossilizationType": {
			Type:        genai.TypeString,
			Description: "For fossils, the type of fossilization, e.g. 'Permineralization'. Must be 'N/A' when not a fossil.",
		},
		"estimatedValue": {
			Type:        genai.TypeString,
			Description: "Estimated market value range in USD, e.g. '$150 - $250 USD', noting rarity, condition and size.",
		},
		"keyCharacteristics": {
			Type:        genai.TypeArray,
			Description: "Observable identifying characteristics such as crystal habit, luster, cleavage or fossil features.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{
		"scientificName", "commonName", "specimenType", "description", "geologicalContext",
		"geologicalPeriod", "fossilizationType", "estimatedValue", "keyCharacteristics",
	},
}

var appraisalSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"estimatedValueRange": {
			Type:        genai.TypeString,
			Description: "Market value range in USD, e.g. '$450 - $600 USD'.",
		},
		"confidenceScore": {
			Type:        genai.TypeNumber,
			Description: "Confidence in the appraisal from 0 to 100, based on image quality and specimen visibility.",
		},
		"valuationMethodology": {
			Type:        genai.TypeString,
			Description: "How the valuation was reached: comparable sales, rarity, quality markers.",
		},
		"positiveValueFactors": {
			Type:        genai.TypeArray,
			Description: "Characteristics that raise the specimen's value.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"negativeValueFactors": {
			Type:        genai.TypeArray,
			Description: "Visible flaws or characteristics that lower the specimen's value.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{
		"estimatedValueRange", "confidenceScore", "valuationMethodology",
		"positiveValueFactors", "negativeValueFactors",
	},
}
