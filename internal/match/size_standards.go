package match

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/size_standards.yaml
var sizeStandardsYAML embed.FS

// SizeStandardType distinguishes revenue-based from headcount-based standards.
type SizeStandardType string

const (
	StandardRevenue   SizeStandardType = "revenue"
	StandardEmployees SizeStandardType = "employees"
)

// SizeStandard is a "small business" threshold for one industry: either
// annual revenue in dollars or employee headcount.
type SizeStandard struct {
	Type      SizeStandardType `yaml:"type" json:"type"`
	Threshold float64          `yaml:"threshold" json:"threshold"`
}

type sizeStandardTable struct {
	Default   SizeStandard            `yaml:"default"`
	Standards map[string]SizeStandard `yaml:"standards"`
}

// sizeStandards is built once at process start and never mutated.
var sizeStandards = mustLoadSizeStandards()

func mustLoadSizeStandards() sizeStandardTable {
	raw, err := sizeStandardsYAML.ReadFile("config/size_standards.yaml")
	if err != nil {
		panic(fmt.Sprintf("size standards config missing: %v", err))
	}

	var table sizeStandardTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		panic(fmt.Sprintf("size standards config invalid: %v", err))
	}
	if table.Default.Threshold == 0 {
		panic("size standards config has no default standard")
	}
	return table
}

// LookupSizeStandard resolves the size standard for a NAICS code: exact
// match, then 3-digit prefix, then 2-digit prefix, then the default
// standard. It never fails.
func LookupSizeStandard(code string) SizeStandard {
	if std, ok := sizeStandards.Standards[code]; ok {
		return std
	}
	if len(code) >= 3 {
		if std, ok := sizeStandards.Standards[code[:3]]; ok {
			return std
		}
	}
	if len(code) >= 2 {
		if std, ok := sizeStandards.Standards[code[:2]]; ok {
			return std
		}
	}
	return sizeStandards.Default
}
