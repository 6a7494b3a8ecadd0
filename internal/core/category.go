package core

import "fmt"

// Category is the closed set of expense category labels. Values outside the
// set are rejected at the persistence boundary; display contexts fall back to
// CategoryOther instead.
type Category string

const (
	CategoryMaterial        Category = "Material"
	CategoryEquipment       Category = "Equipment"
	CategoryService         Category = "Service"
	CategorySpareParts      Category = "Spare Parts"
	CategorySalary          Category = "Salary"
	CategoryStationary      Category = "Stationary"
	CategoryOfficeEquipment Category = "Office Equipment"
	CategoryFood            Category = "Food"
	CategoryTravel          Category = "Travel"
	CategoryLabour          Category = "Labour"
	CategoryRent            Category = "Rent"
	CategoryOther           Category = "Other"
)

var categories = []Category{
	CategoryMaterial,
	CategoryEquipment,
	CategoryService,
	CategorySpareParts,
	CategorySalary,
	CategoryStationary,
	CategoryOfficeEquipment,
	CategoryFood,
	CategoryTravel,
	CategoryLabour,
	CategoryRent,
	CategoryOther,
}

// CategoryColors maps every category to its chart color. The init assertion
// below keeps the table exhaustive when the enumeration changes.
var CategoryColors = map[Category]string{
	CategoryMaterial:        "#10b981",
	CategoryEquipment:       "#3b82f6",
	CategoryService:         "#a855f7",
	CategorySpareParts:      "#f97316",
	CategorySalary:          "#ec4899",
	CategoryStationary:      "#f59e0b",
	CategoryOfficeEquipment: "#8b5cf6",
	CategoryFood:            "#ef4444",
	CategoryTravel:          "#06b6d4",
	CategoryLabour:          "#84cc16",
	CategoryRent:            "#14b8a6",
	CategoryOther:           "#6b7280",
}

func init() {
	for _, c := range categories {
		if _, ok := CategoryColors[c]; !ok {
			panic(fmt.Sprintf("core: no color registered for category %q", c))
		}
	}
}

// Categories returns the canonical ordered list of categories.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches s exactly (case-sensitive) against the canonical
// labels.
func ParseCategory(s string) (Category, bool) {
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// Display returns c, or CategoryOther when c is not a known label. Only for
// rendering; unknown values are never persisted.
func (c Category) Display() Category {
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Color returns the chart color for c, falling back to the Other color for
// unknown labels.
func (c Category) Color() string {
	return CategoryColors[c.Display()]
}
