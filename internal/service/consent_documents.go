package service

import "github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"

// Категории документов
const (
	ConsentCategoryLegal     = "legal"
	ConsentCategoryMedical   = "medical"
	ConsentCategoryResearch = "research"
	ConsentCategoryMarketing = "marketing"
)

// ConsentDocuments - юридические документы клиники. Новая редакция документа
// выпускается сменой Version; принятия старой версии видны в outdated.
var ConsentDocuments = []entity.ConsentDocument{
	{
		ID:            "terms-of-service",
		Type:          "terms",
		Version:       "2.0",
		Title:         "Terms of Service",
		EffectiveDate: "2025-01-01",
		Required:      true,
		Category:      ConsentCategoryLegal,
		Content: "These terms govern your use of Continuum Clinic services, the client portal and " +
			"telehealth features. Appointments cancelled less than 24 hours in advance may be charged.",
	},
	{
		ID:            "privacy-policy",
		Type:          "privacy",
		Version:       "2.0",
		Title:         "Privacy Policy",
		EffectiveDate: "2025-01-01",
		Required:      true,
		Category:      ConsentCategoryLegal,
		Content: "We collect owner contact details and pet health records to provide veterinary care. " +
			"Data is stored encrypted and is never sold to third parties.",
	},
	{
		ID:            "veterinary-treatment-consent",
		Type:          "treatment",
		Version:       "1.1",
		Title:         "Veterinary Treatment Consent",
		EffectiveDate: "2025-01-01",
		Required:      true,
		Category:      ConsentCategoryMedical,
		Content: "I authorise the clinic veterinarians to examine my pet and perform diagnostics " +
			"discussed with me. Treatment plans are agreed before any procedure.",
	},
	{
		ID:            "telemedicine-consent",
		Type:          "telemedicine",
		Version:       "1.0",
		Title:         "Telemedicine Consent",
		EffectiveDate: "2025-01-01",
		Required:      true,
		Category:      ConsentCategoryMedical,
		Content: "Remote consultations have limitations compared with in-person examinations. " +
			"The veterinarian may request an in-clinic visit at any time.",
	},
	{
		ID:            "research-data-sharing",
		Type:          "research",
		Version:       "1.0",
		Title:         "Longevity Research Data Sharing",
		EffectiveDate: "2025-01-01",
		Required:      false,
		Category:      ConsentCategoryResearch,
		Content: "Anonymised health data of my pet may be used in longevity research studies. " +
			"This consent can be withdrawn at any time.",
	},
	{
		ID:            "marketing-communications",
		Type:          "marketing",
		Version:       "1.0",
		Title:         "Marketing Communications",
		EffectiveDate: "2025-01-01",
		Required:      false,
		Category:      ConsentCategoryMarketing,
		Content:       "I agree to receive newsletters and event invitations. Every email contains an unsubscribe link.",
	},
}
