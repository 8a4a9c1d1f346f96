// Package activity holds the fixed category-to-activity catalog used for
// appointment labeling and weekly reporting.
package activity

import "github.com/planora/weekplanner/internal/model"

// Info describes one category entry in the catalog.
type Info struct {
	ID         model.Category `json:"id"`
	Label      string         `json:"label"`
	FullLabel  string         `json:"fullLabel"`
	Activities []string       `json:"activities"`
}

// catalog is static configuration; the lists mirror the standard sales
// activity sheet and are not user-editable.
var catalog = map[model.Category]Info{
	model.CategoryIncome: {
		ID:        model.CategoryIncome,
		Label:     "Income",
		FullLabel: "Income Generating",
		Activities: []string{
			"1. Setting New Sales Appointments",
			"2. Sales Activities",
			"3. Fact finding Interviews",
			"4. Prospecting (Build New Customer)",
		},
	},
	model.CategorySupporting: {
		ID:        model.CategorySupporting,
		Label:     "Support",
		FullLabel: "Supporting",
		Activities: []string{
			"5. Planning",
			"6. Proposal Development",
			"7. Client Building",
			"8. Other Telephoning",
			"9. Record Keeping",
			"10. Recruiting",
			"11. Build COI",
			"12. Build High Value Policy",
			"13. Meeting",
		},
	},
	model.CategorySelfDev: {
		ID:        model.CategorySelfDev,
		Label:     "Growth",
		FullLabel: "Self Development",
		Activities: []string{
			"14. Self Development",
			"15. SG Contribution Activity",
		},
	},
	model.CategoryPersonal: {
		ID:        model.CategoryPersonal,
		Label:     "Personal",
		FullLabel: "Personal / Leisure",
		Activities: []string{
			"16. Exercise",
			"17. Tension Relieving",
			"18. Break",
			"19. Leisure",
			"20. Informal Visiting",
			"21. Others",
		},
	},
}

// order fixes the presentation and reporting order of categories.
var order = []model.Category{
	model.CategoryIncome,
	model.CategorySupporting,
	model.CategorySelfDev,
	model.CategoryPersonal,
}

// Lookup returns the catalog entry for a category.
func Lookup(c model.Category) (Info, bool) {
	info, ok := catalog[c]
	return info, ok
}

// All returns the catalog entries in reporting order.
func All() []Info {
	out := make([]Info, 0, len(order))
	for _, c := range order {
		out = append(out, catalog[c])
	}
	return out
}

// Categories returns the category ids in reporting order.
func Categories() []model.Category {
	out := make([]model.Category, len(order))
	copy(out, order)
	return out
}
