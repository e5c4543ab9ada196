package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "embed"

	"github.com/nichegen/backend/internal/domain"
)

//go:embed templates/site.html
var defaultSiteTemplate string

// nonSlugRegex matches runs of characters that cannot appear in a slug
var nonSlugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// SiteServiceConfig holds configuration for the site generation service
type SiteServiceConfig struct {
	TemplateFile       string // optional override of the embedded template
	OutputDir          string
	EnableDebugLogging bool
}

// SiteService generates one static affiliate site per niche: search the
// catalog, extract display info, render the template, write index.html.
type SiteService struct {
	catalog            *CatalogService
	extractor          *Extractor
	templateFile       string
	outputDir          string
	enableDebugLogging bool
}

// NewSiteService creates a new site generation service with dependencies
func NewSiteService(
	catalog *CatalogService,
	extractor *Extractor,
	config SiteServiceConfig,
) *SiteService {
	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = "sites"
	}

	return &SiteService{
		catalog:            catalog,
		extractor:          extractor,
		templateFile:       config.TemplateFile,
		outputDir:          outputDir,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// sitePage is the data passed to the site template
type sitePage struct {
	NicheTitle      string
	MetaDescription string
	Products        []domain.ProductInfo
}

// LoadNiches reads niches from a CSV file with a "niche,keyword" header.
// Rows missing either field are skipped.
func LoadNiches(path string) ([]domain.Niche, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNichesNotFound, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read niches header: %w", err)
	}

	nicheIdx, keywordIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "niche":
			nicheIdx = i
		case "keyword":
			keywordIdx = i
		}
	}
	if nicheIdx < 0 || keywordIdx < 0 {
		return nil, fmt.Errorf("niches file must have 'niche' and 'keyword' columns, got %v", header)
	}

	var niches []domain.Niche
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read niches row: %w", err)
		}
		if nicheIdx >= len(row) || keywordIdx >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nicheIdx])
		keyword := strings.TrimSpace(row[keywordIdx])
		if name == "" || keyword == "" {
			continue
		}
		niches = append(niches, domain.Niche{Name: name, Keyword: keyword})
	}

	log.Printf("[SITES] Loaded %d niches from %s", len(niches), path)
	return niches, nil
}

// GenerateAll generates a site for every niche. Per-niche failures are
// logged and counted; the batch never aborts early.
func (s *SiteService) GenerateAll(ctx context.Context, niches []domain.Niche) domain.GenerationSummary {
	var summary domain.GenerationSummary

	for _, niche := range niches {
		slug, err := s.GenerateSite(ctx, niche)
		if err != nil {
			log.Printf("[SITES] Failed to generate %q: %v", niche.Name, err)
			summary.Failed++
			continue
		}
		summary.Generated++
		summary.Slugs = append(summary.Slugs, slug)
	}

	log.Printf("[SITES] Generation complete: %d generated, %d failed", summary.Generated, summary.Failed)
	return summary
}

// GenerateSite generates the static site for one niche and returns its slug.
func (s *SiteService) GenerateSite(ctx context.Context, niche domain.Niche) (string, error) {
	slug := Slugify(niche.Name)
	if slug == "" {
		return "", fmt.Errorf("%w: niche name %q produces an empty slug", domain.ErrInvalidRequest, niche.Name)
	}

	if s.enableDebugLogging {
		log.Printf("[SITES] Generating site %q (keyword: %q, slug: %s)", niche.Name, niche.Keyword, slug)
	}

	ranked, err := s.catalog.SearchRanked(ctx, niche.Keyword)
	if err != nil {
		return "", err
	}

	products := make([]domain.ProductInfo, 0, len(ranked))
	for _, p := range ranked {
		info := s.extractor.ExtractProductInfo(p.RawProduct)
		if info == nil {
			info = s.extractFromDetails(ctx, p.ASIN)
		}
		if info == nil {
			if s.enableDebugLogging {
				log.Printf("[SITES] Skipping incomplete product %q", p.ASIN)
			}
			continue
		}
		products = append(products, *info)
	}
	if len(products) == 0 {
		return "", domain.ErrNoProducts
	}

	tmpl, err := s.loadTemplate()
	if err != nil {
		return "", err
	}

	page := sitePage{
		NicheTitle: niche.Name,
		MetaDescription: fmt.Sprintf(
			"Discover the best %s available on Amazon. Our expert-curated list features "+
				"the top-rated products with detailed reviews, pricing, and direct purchase links. "+
				"Updated daily with the latest deals.",
			strings.ToLower(niche.Name)),
		Products: products,
	}

	siteDir := filepath.Join(s.outputDir, slug)
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create site directory: %w", err)
	}

	out, err := os.Create(filepath.Join(siteDir, "index.html"))
	if err != nil {
		return "", fmt.Errorf("failed to create index.html: %w", err)
	}
	defer out.Close()

	if err := tmpl.Execute(out, page); err != nil {
		return "", fmt.Errorf("failed to render site: %w", err)
	}

	log.Printf("[SITES] Generated site: %s (%d products)", filepath.Join(siteDir, "index.html"), len(products))
	return slug, nil
}

// extractFromDetails retries extraction with the full detail record when a
// search result was too sparse to render.
func (s *SiteService) extractFromDetails(ctx context.Context, asin string) *domain.ProductInfo {
	detail, err := s.catalog.ProductDetails(ctx, asin)
	if err != nil {
		if s.enableDebugLogging {
			log.Printf("[SITES] Detail lookup for %q failed: %v", asin, err)
		}
		return nil
	}
	return s.extractor.ExtractProductInfo(*detail)
}

// loadTemplate parses the configured template file, falling back to the
// embedded default when none is configured.
func (s *SiteService) loadTemplate() (*template.Template, error) {
	if s.templateFile == "" {
		return template.Must(template.New("site").Parse(defaultSiteTemplate)), nil
	}

	data, err := os.ReadFile(s.templateFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTemplateNotFound, err)
	}
	tmpl, err := template.New("site").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", s.templateFile, err)
	}
	return tmpl, nil
}

// Slugify converts a niche name into a URL-safe directory name:
// lowercase, alphanumeric runs joined by single hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
