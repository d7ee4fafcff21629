package analysis

// Drug class tags used by the patient rules.
const (
	ClassAnticoagulant  = "anticoagulant"
	ClassAntiarrhythmic = "antiarrhythmic"
	ClassBetaBlocker    = "beta-blocker"
	ClassAntiplatelet   = "antiplatelet"
	ClassNSAID          = "nsaid"
	ClassRenallyCleared = "renally-cleared"
)

type Drug struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	GenericName string   `json:"genericName,omitempty" yaml:"genericName,omitempty"`
	BrandName   string   `json:"brandName,omitempty" yaml:"brandName,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Classes     []string `json:"classes,omitempty" yaml:"classes,omitempty"`
}

func (d Drug) HasClass(class string) bool {
	for _, c := range d.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// DrugEntry is one medication as entered by the user. Dosage, route and
// frequency are carried for display only.
type DrugEntry struct {
	DrugID    string `json:"drugId" binding:"max=64"`
	DrugName  string `json:"drugName" binding:"max=200"`
	Dosage    string `json:"dosage" binding:"max=100"`
	Route     string `json:"route" binding:"max=50"`
	Frequency string `json:"frequency" binding:"max=100"`
}

// PatientData is optional context for an analysis. A nil field means the
// value was not provided and the corresponding rule is skipped.
type PatientData struct {
	Age                *int                `json:"age,omitempty" binding:"omitempty,gte=0,lte=130"`
	Sex                string              `json:"sex,omitempty" binding:"omitempty,oneof=male female other"`
	Weight             *float64            `json:"weight,omitempty" binding:"omitempty,gt=0"`
	Height             *float64            `json:"height,omitempty" binding:"omitempty,gt=0"`
	ClinicalParameters *ClinicalParameters `json:"clinicalParameters,omitempty"`
	MedicalHistory     *MedicalHistory     `json:"medicalHistory,omitempty"`
	CurrentMedications []string            `json:"currentMedications,omitempty"`
	Supplements        []string            `json:"supplements,omitempty"`
}

type ClinicalParameters struct {
	EGFR          *float64       `json:"eGFR,omitempty" binding:"omitempty,gte=0"`
	LiverEnzymes  *LiverEnzymes  `json:"liverEnzymes,omitempty"`
	BloodPressure *BloodPressure `json:"bloodPressure,omitempty"`
}

type LiverEnzymes struct {
	ALT *float64 `json:"alt,omitempty" binding:"omitempty,gte=0"`
	AST *float64 `json:"ast,omitempty" binding:"omitempty,gte=0"`
}

type BloodPressure struct {
	Systolic  *float64 `json:"systolic,omitempty" binding:"omitempty,gt=0,lte=300"`
	Diastolic *float64 `json:"diastolic,omitempty" binding:"omitempty,gt=0,lte=200"`
}

type MedicalHistory struct {
	Conditions       []string `json:"conditions,omitempty"`
	Allergies        []string `json:"allergies,omitempty"`
	AdverseReactions []string `json:"adverseReactions,omitempty"`
}

// AlcoholExposure reports whether the patient drinks alcohol.
type AlcoholExposure struct {
	HasInteraction bool   `json:"hasInteraction"`
	Details        string `json:"details,omitempty" binding:"max=500"`
}

type InteractionResult struct {
	DrugPair             [2]string           `json:"drugPair" yaml:"-"`
	CompatibilityStatus  CompatibilityStatus `json:"compatibilityStatus" yaml:"compatibilityStatus"`
	RiskLevel            RiskLevel           `json:"riskLevel" yaml:"riskLevel"`
	TimeToOnset          TimeToOnset         `json:"timeToOnset" yaml:"timeToOnset"`
	ConfidenceScore      int                 `json:"confidenceScore" yaml:"confidenceScore"`
	Mechanism            string              `json:"mechanism" yaml:"mechanism"`
	Effects              []string            `json:"effects" yaml:"effects"`
	DoseModification     string              `json:"doseModification,omitempty" yaml:"doseModification,omitempty"`
	MonitoringParameters []string            `json:"monitoringParameters,omitempty" yaml:"monitoringParameters,omitempty"`
	Alternatives         []string            `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Evidence             Evidence            `json:"evidence" yaml:"evidence"`
}

type Evidence struct {
	LiteratureCitations []Citation          `json:"literatureCitations" yaml:"literatureCitations"`
	Guidelines          []Guideline         `json:"guidelines,omitempty" yaml:"guidelines,omitempty"`
	RegulatoryWarnings  []RegulatoryWarning `json:"regulatoryWarnings,omitempty" yaml:"regulatoryWarnings,omitempty"`
}

type Citation struct {
	Title   string `json:"title" yaml:"title"`
	Authors string `json:"authors" yaml:"authors"`
	Journal string `json:"journal" yaml:"journal"`
	Year    int    `json:"year" yaml:"year"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
}

type Guideline struct {
	Organization   string `json:"organization" yaml:"organization"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
	Year           int    `json:"year" yaml:"year"`
}

type RegulatoryWarning struct {
	Organization string `json:"organization" yaml:"organization"`
	Warning      string `json:"warning" yaml:"warning"`
	Date         string `json:"date" yaml:"date"`
}

// Advisory sources.
const (
	SourcePatient = "patient"
	SourceFood    = "food"
	SourceAlcohol = "alcohol"
)

// Advisory is a finding that is not tied to a drug pair: a patient risk
// factor, a food interaction or an alcohol interaction.
type Advisory struct {
	Source         string    `json:"source"`
	RuleID         string    `json:"ruleId"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
	Drugs          []string  `json:"drugs,omitempty"`
}

type SafetyAssessmentResult struct {
	InteractionResults         []InteractionResult `json:"interactionResults"`
	Advisories                 []Advisory          `json:"advisories"`
	DatabaseVersion            string              `json:"databaseVersion"`
	LastUpdated                string              `json:"lastUpdated"`
	OverallRiskLevel           RiskLevel           `json:"overallRiskLevel"`
	OverallCompatibilityStatus CompatibilityStatus `json:"overallCompatibilityStatus"`
}

// Request is the input of a single analysis. The drug list is capped because
// the pair count grows quadratically; repeated ids are allowed.
type Request struct {
	Drugs       []DrugEntry      `json:"drugs" binding:"max=50,dive"`
	PatientData *PatientData     `json:"patientData,omitempty"`
	FoodItems   []string         `json:"foodItems,omitempty" binding:"max=50"`
	Alcohol     *AlcoholExposure `json:"alcohol,omitempty"`
}
