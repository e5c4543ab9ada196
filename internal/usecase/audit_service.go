package usecase

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/nichegen/backend/internal/domain"
)

// ASIN extraction patterns: data-asin attributes and /dp/ link segments
var (
	dataASINRegex = regexp.MustCompile(`data-asin="([A-Z0-9]{10})"`)
	dpLinkRegex   = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)
)

// AuditService checks generated sites for content violations: the same
// ASIN promoted on more than one site, products with a blank brand field,
// and images without alt text.
type AuditService struct {
	outputDir string
}

// NewAuditService creates an audit service over a generated-sites directory
func NewAuditService(outputDir string) *AuditService {
	return &AuditService{outputDir: outputDir}
}

// Run executes all audit checks and returns the combined report.
func (s *AuditService) Run() (*domain.AuditReport, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites directory %s: %w", s.outputDir, err)
	}

	report := &domain.AuditReport{}
	asinFiles := make(map[string]map[string]bool) // ASIN -> set of files

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || entry.Name() == "data" {
			continue
		}

		for _, page := range s.sitePages(entry.Name()) {
			report.SitesChecked++
			content, err := os.ReadFile(page)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", page, err)
			}

			collectASINs(string(content), page, asinFiles)
			report.Violations = append(report.Violations, checkMissingAlt(string(content), page)...)
		}
	}

	report.Violations = append(report.Violations, duplicateASINViolations(asinFiles)...)

	brandViolations, err := s.checkBlankBrands()
	if err != nil {
		return nil, err
	}
	report.Violations = append(report.Violations, brandViolations...)

	log.Printf("[AUDIT] Checked %d pages: %d violations", report.SitesChecked, len(report.Violations))
	return report, nil
}

// sitePages lists the HTML pages of one site: index.html plus any blog pages
func (s *AuditService) sitePages(site string) []string {
	var pages []string

	index := filepath.Join(s.outputDir, site, "index.html")
	if _, err := os.Stat(index); err == nil {
		pages = append(pages, index)
	}

	blogPages, _ := filepath.Glob(filepath.Join(s.outputDir, site, "blog", "*.html"))
	pages = append(pages, blogPages...)

	return pages
}

// collectASINs records every ASIN referenced by a page
func collectASINs(content, file string, asinFiles map[string]map[string]bool) {
	for _, pattern := range []*regexp.Regexp{dataASINRegex, dpLinkRegex} {
		for _, m := range pattern.FindAllStringSubmatch(content, -1) {
			asin := m[1]
			if asinFiles[asin] == nil {
				asinFiles[asin] = make(map[string]bool)
			}
			asinFiles[asin][file] = true
		}
	}
}

// duplicateASINViolations flags ASINs promoted on more than one site.
// Multiple references within a single page are fine.
func duplicateASINViolations(asinFiles map[string]map[string]bool) []domain.AuditViolation {
	var violations []domain.AuditViolation

	asins := make([]string, 0, len(asinFiles))
	for asin := range asinFiles {
		asins = append(asins, asin)
	}
	sort.Strings(asins)

	for _, asin := range asins {
		files := asinFiles[asin]
		if len(files) < 2 {
			continue
		}
		names := make([]string, 0, len(files))
		for f := range files {
			names = append(names, f)
		}
		sort.Strings(names)
		violations = append(violations, domain.AuditViolation{
			Check:   "duplicate-asin",
			File:    names[0],
			Message: fmt.Sprintf("ASIN %s appears in multiple sites: %s", asin, strings.Join(names, ", ")),
		})
	}

	return violations
}

// checkMissingAlt parses a page and flags img elements whose alt attribute
// is absent or blank.
func checkMissingAlt(content, file string) []domain.AuditViolation {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return []domain.AuditViolation{{
			Check:   "missing-alt",
			File:    file,
			Message: fmt.Sprintf("unparseable HTML: %v", err),
		}}
	}

	var violations []domain.AuditViolation
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			src := "unknown"
			alt := ""
			for _, attr := range n.Attr {
				switch attr.Key {
				case "src":
					src = attr.Val
				case "alt":
					alt = strings.TrimSpace(attr.Val)
				}
			}
			if alt == "" {
				violations = append(violations, domain.AuditViolation{
					Check:   "missing-alt",
					File:    file,
					Message: fmt.Sprintf("image without alt text: %s", src),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return violations
}

// apiDataFile mirrors the cached search-response shape kept under data/
type apiDataFile struct {
	Data struct {
		Results []domain.RawProduct `json:"results"`
	} `json:"data"`
}

// checkBlankBrands scans the data JSON files for products with a blank
// brand field. Both the per-keyword API dumps under data/ and the combined
// products.json map are checked when present.
func (s *AuditService) checkBlankBrands() ([]domain.AuditViolation, error) {
	var violations []domain.AuditViolation

	dataFiles, _ := filepath.Glob(filepath.Join(s.outputDir, "data", "*.json"))
	for _, path := range dataFiles {
		name := filepath.Base(path)
		if name == "prices.json" || name == "reviews.json" {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var parsed apiDataFile
		if err := json.Unmarshal(raw, &parsed); err != nil {
			continue // not an API dump, skip
		}
		violations = append(violations, blankBrandViolations(parsed.Data.Results, path)...)
	}

	combined := filepath.Join(s.outputDir, "data", "products.json")
	if raw, err := os.ReadFile(combined); err == nil {
		var byNiche map[string][]domain.RawProduct
		if err := json.Unmarshal(raw, &byNiche); err == nil {
			niches := make([]string, 0, len(byNiche))
			for niche := range byNiche {
				niches = append(niches, niche)
			}
			sort.Strings(niches)
			for _, niche := range niches {
				violations = append(violations, blankBrandViolations(byNiche[niche], combined+":"+niche)...)
			}
		}
	}

	return violations, nil
}

func blankBrandViolations(products []domain.RawProduct, file string) []domain.AuditViolation {
	var violations []domain.AuditViolation
	for _, p := range products {
		if p.Brand == "" {
			asin := p.ASIN
			if asin == "" {
				asin = "unknown"
			}
			violations = append(violations, domain.AuditViolation{
				Check:   "blank-brand",
				File:    file,
				Message: fmt.Sprintf("product %s has a blank brand field", asin),
			})
		}
	}
	return violations
}
