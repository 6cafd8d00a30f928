package pipeline

import (
	"strings"

	"medilab-server/internal/report"
)

// paramSpec describes one expected lab parameter for a report category:
// its canonical name, the abbreviation seen in table headers, and the
// name alternation used to detect it in free text. Categorical is set
// for parameters whose values are qualitative (negative/trace/positive)
// rather than numeric.
type paramSpec struct {
	Name        string
	Abbr        string
	NamePattern string
	Unit        string
	Categorical bool
}

var cbcParams = []paramSpec{
	{Name: "White Blood Cell Count", Abbr: "WBC", NamePattern: `WBC|White\s+Blood\s+Cells?(?:\s+Count)?|Leukocytes?`, Unit: "x10^9/L"},
	{Name: "Red Blood Cell Count", Abbr: "RBC", NamePattern: `RBC|Red\s+Blood\s+Cells?(?:\s+Count)?|Erythrocytes?`, Unit: "x10^12/L"},
	{Name: "Hemoglobin", Abbr: "HGB", NamePattern: `HGB|Ha?emoglobin`, Unit: "g/dL"},
	{Name: "Hematocrit", Abbr: "HCT", NamePattern: `HCT|Ha?ematocrit`, Unit: "%"},
	{Name: "Platelets", Abbr: "PLT", NamePattern: `PLT|Platelets?(?:\s+Count)?|Thrombocytes?`, Unit: "x10^9/L"},
	{Name: "MCV", Abbr: "MCV", NamePattern: `MCV|Mean\s+Corpuscular\s+Volume`, Unit: "fL"},
	{Name: "MCH", Abbr: "MCH", NamePattern: `MCH|Mean\s+Corpuscular\s+Ha?emoglobin`, Unit: "pg"},
	{Name: "MCHC", Abbr: "MCHC", NamePattern: `MCHC|Mean\s+Corpuscular\s+Ha?emoglobin\s+Concentration`, Unit: "g/dL"},
	{Name: "Neutrophils", Abbr: "NEUT", NamePattern: `NEUT|Neutrophils?`, Unit: "%"},
	{Name: "Lymphocytes", Abbr: "LYMPH", NamePattern: `LYMPH|Lymphocytes?`, Unit: "%"},
	{Name: "Monocytes", Abbr: "MONO", NamePattern: `MONO|Monocytes?`, Unit: "%"},
	{Name: "Eosinophils", Abbr: "EOS", NamePattern: `EOS|Eosinophils?`, Unit: "%"},
	{Name: "Basophils", Abbr: "BASO", NamePattern: `BASO|Basophils?`, Unit: "%"},
}

var lipidParams = []paramSpec{
	{Name: "Total Cholesterol", Abbr: "CHOL", NamePattern: `Total\s+Cholesterol|CHOL(?:ESTEROL)?,?\s*TOTAL|Cholesterol`, Unit: "mg/dL"},
	{Name: "HDL Cholesterol", Abbr: "HDL", NamePattern: `HDL(?:-C|\s+Cholesterol)?`, Unit: "mg/dL"},
	{Name: "LDL Cholesterol", Abbr: "LDL", NamePattern: `LDL(?:-C|\s+Cholesterol)?`, Unit: "mg/dL"},
	{Name: "Triglycerides", Abbr: "TRIG", NamePattern: `TRIG|Triglycerides?`, Unit: "mg/dL"},
	{Name: "VLDL Cholesterol", Abbr: "VLDL", NamePattern: `VLDL(?:-C|\s+Cholesterol)?`, Unit: "mg/dL"},
	{Name: "Cholesterol/HDL Ratio", Abbr: "CHOL/HDL", NamePattern: `Cholesterol\s*/\s*HDL(?:\s+Ratio)?|CHOL/HDL`, Unit: "ratio"},
}

var metabolicParams = []paramSpec{
	{Name: "Glucose", Abbr: "GLU", NamePattern: `GLU(?:COSE)?|Glucose(?:,?\s+Fasting)?`, Unit: "mg/dL"},
	{Name: "BUN", Abbr: "BUN", NamePattern: `BUN|Blood\s+Urea\s+Nitrogen|Urea\s+Nitrogen`, Unit: "mg/dL"},
	{Name: "Creatinine", Abbr: "CREAT", NamePattern: `CREAT(?:ININE)?|Creatinine`, Unit: "mg/dL"},
	{Name: "eGFR", Abbr: "eGFR", NamePattern: `eGFR|Estimated\s+GFR|Glomerular\s+Filtration\s+Rate`, Unit: "mL/min/1.73m2"},
	{Name: "Sodium", Abbr: "NA", NamePattern: `Sodium|Na\+?(?:\b|$)`, Unit: "mmol/L"},
	{Name: "Potassium", Abbr: "K", NamePattern: `Potassium|K\+(?:\b|$)`, Unit: "mmol/L"},
	{Name: "Chloride", Abbr: "CL", NamePattern: `Chloride|Cl-?(?:\b|$)`, Unit: "mmol/L"},
	{Name: "Bicarbonate", Abbr: "CO2", NamePattern: `Bicarbonate|CO2|Carbon\s+Dioxide`, Unit: "mmol/L"},
	{Name: "Calcium", Abbr: "CA", NamePattern: `Calcium|Ca(?:\b|$)`, Unit: "mg/dL"},
	{Name: "Albumin", Abbr: "ALB", NamePattern: `ALB(?:UMIN)?|Albumin`, Unit: "g/dL"},
	{Name: "Total Bilirubin", Abbr: "TBIL", NamePattern: `TBIL|(?:Total\s+)?Bilirubin`, Unit: "mg/dL"},
	{Name: "ALT", Abbr: "ALT", NamePattern: `ALT|Alanine\s+(?:Amino)?transferase|SGPT`, Unit: "U/L"},
	{Name: "AST", Abbr: "AST", NamePattern: `AST|Aspartate\s+(?:Amino)?transferase|SGOT`, Unit: "U/L"},
	{Name: "Alkaline Phosphatase", Abbr: "ALP", NamePattern: `ALP|Alkaline\s+Phosphatase`, Unit: "U/L"},
}

var urinalysisParams = []paramSpec{
	{Name: "Color", Abbr: "COLOR", NamePattern: `Colou?r`, Categorical: true},
	{Name: "Appearance", Abbr: "APP", NamePattern: `Appearance|Clarity`, Categorical: true},
	{Name: "Specific Gravity", Abbr: "SG", NamePattern: `SG|Specific\s+Gravity`},
	{Name: "pH", Abbr: "PH", NamePattern: `pH`},
	{Name: "Protein", Abbr: "PRO", NamePattern: `Protein`, Categorical: true},
	{Name: "Glucose", Abbr: "GLU", NamePattern: `Glucose`, Categorical: true},
	{Name: "Ketones", Abbr: "KET", NamePattern: `Ketones?`, Categorical: true},
	{Name: "Blood", Abbr: "BLD", NamePattern: `Blood|Ha?ematuria`, Categorical: true},
	{Name: "Nitrite", Abbr: "NIT", NamePattern: `Nitrites?`, Categorical: true},
	{Name: "Leukocyte Esterase", Abbr: "LEU", NamePattern: `Leukocyte\s+Esterase|Leu\s+Est`, Categorical: true},
	{Name: "Urobilinogen", Abbr: "URO", NamePattern: `Urobilinogen`, Unit: "mg/dL"},
	{Name: "Bilirubin", Abbr: "BIL", NamePattern: `Bilirubin`, Categorical: true},
}

var thyroidParams = []paramSpec{
	{Name: "TSH", Abbr: "TSH", NamePattern: `TSH|Thyroid\s+Stimulating\s+Hormone|Thyrotropin`, Unit: "mIU/L"},
	{Name: "Free T4", Abbr: "FT4", NamePattern: `Free\s+T4|FT4|Free\s+Thyroxine`, Unit: "ng/dL"},
	{Name: "Free T3", Abbr: "FT3", NamePattern: `Free\s+T3|FT3|Free\s+Triiodothyronine`, Unit: "pg/mL"},
	{Name: "Total T4", Abbr: "T4", NamePattern: `Total\s+T4|T4,?\s+Total|Thyroxine`, Unit: "ug/dL"},
	{Name: "Total T3", Abbr: "T3", NamePattern: `Total\s+T3|T3,?\s+Total|Triiodothyronine`, Unit: "ng/dL"},
	{Name: "TPO Antibodies", Abbr: "TPO", NamePattern: `TPO(?:\s+Ab|\s+Antibod(?:y|ies))?|Thyroid\s+Peroxidase`, Unit: "IU/mL"},
}

// reportParams maps each category to its expected parameter set.
// Imaging, pathology and Other have no fixed set; they rely on the
// generic strategies alone.
var reportParams = map[report.ReportType][]paramSpec{
	report.ReportTypeCBC:        cbcParams,
	report.ReportTypeLipidPanel: lipidParams,
	report.ReportTypeMetabolic:  metabolicParams,
	report.ReportTypeUrinalysis: urinalysisParams,
	report.ReportTypeThyroid:    thyroidParams,
}

// abbreviationNames resolves table-header abbreviations to canonical
// names across all categories, for the structured-table strategy.
func abbreviationNames() map[string]string {
	m := make(map[string]string)
	for _, specs := range reportParams {
		for _, s := range specs {
			m[strings.ToUpper(s.Abbr)] = s.Name
		}
	}
	return m
}
