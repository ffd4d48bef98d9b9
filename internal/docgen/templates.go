package docgen

// Template is a fixed document skeleton; generation is interpolation of
// the caller's fields, nothing more.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	body        string
}

func Templates() []Template {
	out := make([]Template, 0, len(registry))
	for _, id := range templateOrder {
		out = append(out, registry[id])
	}
	return out
}

var templateOrder = []string{"business-plan", "pitch-deck", "nda", "invoice"}

var registry = map[string]Template{
	"business-plan": {
		ID:          "business-plan",
		Name:        "Business Plan",
		Description: "One-page business plan outline",
		body: `BUSINESS PLAN - {{.CompanyName}}
Prepared {{.Date}}

1. EXECUTIVE SUMMARY
{{.CompanyName}} operates in the {{.Industry}} industry with a team of {{.TeamSize}}.
{{.Summary}}

2. PROBLEM
{{.Problem}}

3. SOLUTION
{{.Solution}}

4. MARKET
Target market: {{.TargetMarket}}

5. BUSINESS MODEL
{{.BusinessModel}}

6. FINANCIAL OUTLOOK
Projected revenue (year one): {{.ProjectedRevenue}}
Funding sought: {{.FundingSought}}
`,
	},
	"pitch-deck": {
		ID:          "pitch-deck",
		Name:        "Pitch Deck Outline",
		Description: "Ten-slide investor deck outline",
		body: `PITCH DECK - {{.CompanyName}}

Slide 1  Title: {{.CompanyName}} - {{.Tagline}}
Slide 2  Problem: {{.Problem}}
Slide 3  Solution: {{.Solution}}
Slide 4  Market: {{.TargetMarket}} ({{.Industry}})
Slide 5  Product: {{.Product}}
Slide 6  Traction: {{.Traction}}
Slide 7  Business model: {{.BusinessModel}}
Slide 8  Competition: {{.Competition}}
Slide 9  Team: {{.TeamSize}} people - {{.Team}}
Slide 10 Ask: {{.FundingSought}}
`,
	},
	"nda": {
		ID:          "nda",
		Name:        "Mutual NDA",
		Description: "Mutual non-disclosure agreement template",
		body: `MUTUAL NON-DISCLOSURE AGREEMENT

This Agreement is entered into on {{.Date}} between {{.CompanyName}}
("Disclosing Party") and {{.CounterpartyName}} ("Receiving Party").

1. The parties intend to exchange confidential information relating to
   {{.Purpose}}.
2. Each party agrees to hold the other's confidential information in
   strict confidence for a period of {{.TermYears}} years.
3. Confidential information excludes information that is or becomes
   publicly known through no fault of the Receiving Party.

Signed,

_________________________          _________________________
{{.CompanyName}}                   {{.CounterpartyName}}
`,
	},
	"invoice": {
		ID:          "invoice",
		Name:        "Invoice",
		Description: "Simple service invoice",
		body: `INVOICE {{.InvoiceNumber}}
Date: {{.Date}}

From: {{.CompanyName}}
To:   {{.ClientName}}

Description: {{.Description}}
Amount due:  {{.Amount}}
Due date:    {{.DueDate}}

Please remit payment to {{.CompanyName}}.
`,
	},
}
