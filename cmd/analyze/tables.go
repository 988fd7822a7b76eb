package main

import (
	"github.com/biomarker-analysis-core/internal/domain"
	"github.com/biomarker-analysis-core/internal/ssot"
)

// defaultTables is the CLI's bundled SSOT snapshot source. A production
// deployment loads its own validated tables (spec.md 6); this set covers
// every canonical biomarker the default scoring rules and insight modules
// reference so the CLI is useful standalone.
func defaultTables() ssot.Tables {
	numeric := func(name, unit string, category domain.Category, aliases ...string) domain.BiomarkerDefinition {
		return domain.BiomarkerDefinition{
			CanonicalName: name,
			Aliases:       aliases,
			Unit:          unit,
			Category:      category,
			DataType:      domain.DataTypeNumeric,
		}
	}

	defs := []domain.BiomarkerDefinition{
		numeric("glucose", "mg/dL", domain.CategoryMetabolic, "blood_glucose", "fasting_glucose"),
		numeric("hba1c", "%", domain.CategoryMetabolic, "a1c"),
		numeric("insulin", "μU/mL", domain.CategoryMetabolic, "fasting_insulin"),
		numeric("bmi", "kg/m2", domain.CategoryMetabolic),
		numeric("waist_circumference", "cm", domain.CategoryMetabolic),
		numeric("height", "cm", domain.CategoryOther),

		numeric("total_cholesterol", "mg/dL", domain.CategoryCardiovascular),
		numeric("ldl_cholesterol", "mg/dL", domain.CategoryCardiovascular, "ldl"),
		numeric("hdl_cholesterol", "mg/dL", domain.CategoryCardiovascular, "hdl"),
		numeric("triglycerides", "mg/dL", domain.CategoryCardiovascular),
		numeric("apob", "mg/dL", domain.CategoryCardiovascular, "apolipoprotein_b"),
		numeric("systolic_bp", "mmHg", domain.CategoryCardiovascular),
		numeric("diastolic_bp", "mmHg", domain.CategoryCardiovascular),

		numeric("crp", "mg/L", domain.CategoryInflammatory, "c_reactive_protein"),
		numeric("neutrophils", "K/μL", domain.CategoryInflammatory),
		numeric("lymphocytes", "K/μL", domain.CategoryInflammatory),

		numeric("creatinine", "mg/dL", domain.CategoryKidney),
		numeric("bun", "mg/dL", domain.CategoryKidney),
		numeric("egfr", "mL/min/1.73m2", domain.CategoryKidney),

		numeric("alt", "U/L", domain.CategoryLiver),
		numeric("ast", "U/L", domain.CategoryLiver),
		numeric("alp", "U/L", domain.CategoryLiver),
		numeric("ggt", "U/L", domain.CategoryLiver),
		numeric("bilirubin", "mg/dL", domain.CategoryLiver),
		numeric("albumin", "g/dL", domain.CategoryLiver),

		numeric("hemoglobin", "g/dL", domain.CategoryCBC),
		numeric("hematocrit", "%", domain.CategoryCBC),
		numeric("white_blood_cells", "K/μL", domain.CategoryCBC, "wbc"),
		numeric("platelets", "K/μL", domain.CategoryCBC),

		numeric("tsh", "mIU/L", domain.CategoryThyroid),
		numeric("ft4", "ng/dL", domain.CategoryThyroid, "free_t4"),
		numeric("ft3", "pg/mL", domain.CategoryThyroid, "free_t3"),
		numeric("cortisol", "μg/dL", domain.CategoryHormonal),

		numeric("ferritin", "ng/mL", domain.CategoryMineral),
		numeric("transferrin_saturation", "%", domain.CategoryMineral),
		numeric("b12", "pg/mL", domain.CategoryVitamin, "vitamin_b12"),
		numeric("folate", "ng/mL", domain.CategoryVitamin),
	}

	return ssot.Tables{Definitions: defs}
}
