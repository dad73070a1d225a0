package gemini

import (
	"fmt"
	"strings"

	"geomarket/models"
)

func classificationPrompt(userPrompt string) string {
	var b strings.Builder
	b.WriteString("You are an expert paleontologist and geologist with decades of museum experience. ")
	b.WriteString("Analyze the specimen in the attached image with scientific rigor. ")
	if p := strings.TrimSpace(userPrompt); p != "" {
		fmt.Fprintf(&b, "The user added this context: '%s'. ", p)
	}
	b.WriteString("If the specimen is a fossil, be highly specific: give its scientific name (genus and species), ")
	b.WriteString("the geological period it comes from and the likely type of fossilization. ")
	b.WriteString("For every specimen, identify it, classify its type, describe its geological context, ")
	b.WriteString("give a rich description, estimate its market value and list its key identifying characteristics. ")
	fmt.Fprintf(&b, "For specimens that are not fossils, return '%s' for both 'geologicalPeriod' and 'fossilizationType'. ", models.NotApplicable)
	b.WriteString("Respond only with a JSON object that conforms to the response schema.")
	return b.String()
}

func appraisalPrompt(analysis *models.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("You are a certified senior appraiser at an international auction house, specializing in gems, minerals and fossils. ")
	b.WriteString("You have the attached image and this initial identification of the specimen:\n")
	fmt.Fprintf(&b, "- Common Name: %s\n", analysis.CommonName)
	fmt.Fprintf(&b, "- Scientific Name: %s\n", analysis.ScientificName)
	fmt.Fprintf(&b, "- Type: %s\n", analysis.SpecimenType)
	fmt.Fprintf(&b, "- Description: %s\n", analysis.Description)
	if analysis.IsFossil() {
		fmt.Fprintf(&b, "- Geological Period: %s\n", analysis.GeologicalPeriod)
		fmt.Fprintf(&b, "- Fossilization Type: %s\n", analysis.FossilizationType)
	}
	fmt.Fprintf(&b, "- Key Characteristics: %s\n\n", strings.Join(analysis.KeyCharacteristics, ", "))
	b.WriteString("Provide a detailed, realistic market appraisal. Examine the image for quality indicators such as clarity, ")
	b.WriteString("color saturation, condition (chips, fractures), size and overall aesthetic appeal, and weigh them against ")
	b.WriteString("current market trends and comparable sales for specimens of this type and quality. ")
	b.WriteString("Respond only with a JSON object that conforms to the response schema.")
	return b.String()
}
