package catalog

import "fmt"

// IssueKind classifies a catalogue data problem
type IssueKind string

const (
	IssueDuplicateProduct IssueKind = "duplicate_product"
	IssueDuplicateBrand   IssueKind = "duplicate_brand"
	IssueUndeclaredSystem IssueKind = "undeclared_system"
	IssueDanglingRelated  IssueKind = "dangling_related"
	IssueUnknownIcon      IssueKind = "unknown_icon"
	IssueUnknownColor     IssueKind = "unknown_color"
)

// Issue is a diagnostic about hand-maintained catalogue data. Issues never
// stop the catalogue from loading; queries already tolerate them.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Subject string    `json:"subject"`
	Detail  string    `json:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Kind, i.Subject, i.Detail)
}

// Validate reports data problems in catalogue order
func (c *Catalog) Validate() []Issue {
	var issues []Issue

	seenBrands := make(map[string]bool, len(c.brands))
	for _, b := range c.brands {
		if seenBrands[b.ID] {
			issues = append(issues, Issue{Kind: IssueDuplicateBrand, Subject: b.ID, Detail: "brand declared more than once"})
		}
		seenBrands[b.ID] = true

		if _, err := ParseColor(b.Color); err != nil {
			issues = append(issues, Issue{Kind: IssueUnknownColor, Subject: b.ID, Detail: err.Error()})
		}
		for _, s := range b.Systems {
			if _, err := ParseIcon(s.Icon); err != nil {
				issues = append(issues, Issue{Kind: IssueUnknownIcon, Subject: b.ID + "/" + s.ID, Detail: err.Error()})
			}
		}
	}

	seenProducts := make(map[string]bool, len(c.products))
	for _, p := range c.products {
		if seenProducts[p.ID] {
			issues = append(issues, Issue{Kind: IssueDuplicateProduct, Subject: p.ID, Detail: "product id declared more than once"})
		}
		seenProducts[p.ID] = true

		if _, ok := c.System(p.BrandID, p.SystemID); !ok {
			issues = append(issues, Issue{
				Kind:    IssueUndeclaredSystem,
				Subject: p.ID,
				Detail:  fmt.Sprintf("brand %q has no system %q", p.BrandID, p.SystemID),
			})
		}

		for _, id := range p.Related {
			if _, ok := c.byID[id]; !ok {
				issues = append(issues, Issue{
					Kind:    IssueDanglingRelated,
					Subject: p.ID,
					Detail:  fmt.Sprintf("related product %q does not exist", id),
				})
			}
		}
	}

	return issues
}
