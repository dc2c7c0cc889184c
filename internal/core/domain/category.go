package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Category string

const (
	CategoryLandProperty          Category = "LAND_PROPERTY"
	CategoryAccountingTax         Category = "ACCOUNTING_TAX"
	CategoryLegalLitigation       Category = "LEGAL_LITIGATION"
	CategoryVendorContracts       Category = "VENDOR_CONTRACTS"
	CategoryTechnicalConstruction Category = "TECHNICAL_CONSTRUCTION"
	CategoryCompliance            Category = "COMPLIANCE"
)

// GenericPrefix is used in derived file names when a category has no registry entry.
const GenericPrefix = "DOC"

type CategoryConfig struct {
	ID            Category `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Color         string   `json:"color" yaml:"color"`
	Description   string   `json:"description" yaml:"description"`
	Subcategories []string `json:"subcategories" yaml:"subcategories"`
	Prefix        string   `json:"prefix" yaml:"prefix"`
}

func (c CategoryConfig) HasSubcategory(name string) bool {
	return slices.Contains(c.Subcategories, name)
}

var categoryRegistry = []CategoryConfig{
	{
		ID:          CategoryLandProperty,
		Name:        "Land Records & Property Documents",
		Color:       "land-property",
		Description: "Sale deeds, title deeds, property tax receipts, survey maps",
		Subcategories: []string{
			"Sale Deeds",
			"Title Deeds",
			"Encumbrance Certificates",
			"Property Tax Receipts",
			"Mutation Records",
			"Survey Maps",
			"Building Plans & Approvals",
		},
		Prefix: "LAND",
	},
	{
		ID:          CategoryAccountingTax,
		Name:        "Accounting Files",
		Color:       "accounting-tax",
		Description: "Income reports, statutory returns, invoices, bank statements",
		Subcategories: []string{
			"Income & Expense Reports",
			"Statutory Returns",
			"Invoices",
			"Bank Statements",
			"Loan Documents",
			"TDS & IT Filings",
		},
		Prefix: "ACC",
	},
	{
		ID:          CategoryLegalLitigation,
		Name:        "Litigation Documents",
		Color:       "legal-litigation",
		Description: "Case files, legal notices, court orders, legal correspondence",
		Subcategories: []string{
			"Case Files",
			"Legal Notices",
			"Agreements",
			"Court Orders",
			"Legal Correspondence",
		},
		Prefix: "LEG",
	},
	{
		ID:          CategoryVendorContracts,
		Name:        "Contracts & Vendor Agreements",
		Color:       "vendor-contracts",
		Description: "Construction contracts, supplier agreements, lease agreements",
		Subcategories: []string{
			"Construction Contracts",
			"Supplier Agreements",
			"Lease & Rental Agreements",
			"Service Provider Contracts",
		},
		Prefix: "VEN",
	},
	{
		ID:          CategoryTechnicalConstruction,
		Name:        "Technical Documents (Construction)",
		Color:       "technical-construction",
		Description: "Structural drawings, project specifications, inspection reports",
		Subcategories: []string{
			"Structural Drawings & Blueprints",
			"Project Specifications & Material Reports",
			"Site Inspection Reports",
			"Quality Control Records",
			"Environmental & Safety Compliance",
		},
		Prefix: "TECH",
	},
	{
		ID:          CategoryCompliance,
		Name:        "Compliance Documents",
		Color:       "compliance",
		Description: "Municipal sanctions, environmental clearances, RERA registrations",
		Subcategories: []string{
			"Municipal Sanctions & Approvals",
			"Urban Land Ceiling (ULC) NOCs",
			"Environmental Clearances",
			"Fire & Safety Compliance",
			"RERA Registrations",
		},
		Prefix: "COMP",
	},
}

var categoryIndex = func() map[Category]int {
	index := make(map[Category]int, len(categoryRegistry))
	for i, cfg := range categoryRegistry {
		index[cfg.ID] = i
	}
	return index
}()

// GetCategoryConfig looks up a registry entry by exact identifier.
func GetCategoryConfig(category Category) (CategoryConfig, bool) {
	i, ok := categoryIndex[category]
	if !ok {
		return CategoryConfig{}, false
	}
	return cloneCategoryConfig(categoryRegistry[i]), true
}

// Categories returns the registry in its fixed order.
func Categories() []CategoryConfig {
	out := make([]CategoryConfig, 0, len(categoryRegistry))
	for _, cfg := range categoryRegistry {
		out = append(out, cloneCategoryConfig(cfg))
	}
	return out
}

func ParseCategory(raw string) (Category, error) {
	category := Category(strings.TrimSpace(raw))
	if !category.Valid() {
		return "", WrapError(ErrInvalidInput, "parse category", fmt.Errorf("unknown category %q", raw))
	}
	return category, nil
}

func (c Category) Valid() bool {
	_, ok := categoryIndex[c]
	return ok
}

// Prefix returns the short file-name code, or GenericPrefix for unknown categories.
func (c Category) Prefix() string {
	if i, ok := categoryIndex[c]; ok {
		return categoryRegistry[i].Prefix
	}
	return GenericPrefix
}

func (c Category) String() string {
	return string(c)
}

func cloneCategoryConfig(cfg CategoryConfig) CategoryConfig {
	cfg.Subcategories = slices.Clone(cfg.Subcategories)
	return cfg
}
