package domain

// Niche is one row of the niches CSV: a site to generate and the search
// keyword that feeds it.
type Niche struct {
	Name    string `json:"niche"`
	Keyword string `json:"keyword"`
}

// GenerationSummary reports the outcome of a batch site generation run.
type GenerationSummary struct {
	Generated int      `json:"generated"`
	Failed    int      `json:"failed"`
	Slugs     []string `json:"slugs,omitempty"`
}

// AuditViolation is a single finding from a site audit.
type AuditViolation struct {
	Check   string `json:"check"` // "duplicate-asin", "blank-brand", "missing-alt"
	File    string `json:"file"`
	Message string `json:"message"`
}

// AuditReport aggregates site audit findings. A report with no violations
// means every generated site passed all checks.
type AuditReport struct {
	SitesChecked int              `json:"sitesChecked"`
	Violations   []AuditViolation `json:"violations"`
}

// Passed reports whether the audit found no violations.
func (r *AuditReport) Passed() bool {
	return len(r.Violations) == 0
}
