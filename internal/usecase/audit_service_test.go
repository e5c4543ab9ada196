package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nichegen/backend/internal/domain"
)

func writeSite(t *testing.T, root, slug, html string) {
	t.Helper()
	dir := filepath.Join(root, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAuditRun(t *testing.T) {
	t.Run("clean sites pass", func(t *testing.T) {
		root := t.TempDir()
		writeSite(t, root, "headphones", `<html><body>
			<div class="product" data-asin="B0AAAAAAA1">
				<img src="a.jpg" alt="Product A">
				<a href="https://www.amazon.com/dp/B0AAAAAAA1?tag=x">Buy</a>
			</div></body></html>`)
		writeSite(t, root, "keyboards", `<html><body>
			<div class="product" data-asin="B0BBBBBBB2">
				<img src="b.jpg" alt="Product B">
			</div></body></html>`)

		report, err := NewAuditService(root).Run()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Passed() {
			t.Errorf("violations = %+v, want none", report.Violations)
		}
		if report.SitesChecked != 2 {
			t.Errorf("SitesChecked = %d, want 2", report.SitesChecked)
		}
	})

	t.Run("same ASIN on two sites is flagged", func(t *testing.T) {
		root := t.TempDir()
		writeSite(t, root, "headphones", `<a href="/dp/B0AAAAAAA1">x</a>`)
		writeSite(t, root, "earbuds", `<div data-asin="B0AAAAAAA1"></div>`)

		report, err := NewAuditService(root).Run()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Passed() {
			t.Fatal("expected a duplicate-asin violation")
		}
		if report.Violations[0].Check != "duplicate-asin" {
			t.Errorf("Check = %s, want duplicate-asin", report.Violations[0].Check)
		}
	})

	t.Run("repeated ASIN within one page is allowed", func(t *testing.T) {
		root := t.TempDir()
		writeSite(t, root, "headphones",
			`<div data-asin="B0AAAAAAA1"><a href="/dp/B0AAAAAAA1">x</a></div>`)

		report, err := NewAuditService(root).Run()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Passed() {
			t.Errorf("violations = %+v, want none", report.Violations)
		}
	})

	t.Run("missing and blank alt text flagged", func(t *testing.T) {
		root := t.TempDir()
		writeSite(t, root, "headphones", `<html><body>
			<img src="a.jpg">
			<img src="b.jpg" alt="  ">
			<img src="c.jpg" alt="fine">
		</body></html>`)

		report, err := NewAuditService(root).Run()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var missing int
		for _, v := range report.Violations {
			if v.Check == "missing-alt" {
				missing++
			}
		}
		if missing != 2 {
			t.Errorf("missing-alt violations = %d, want 2", missing)
		}
	})

	t.Run("blank brands in data files flagged", func(t *testing.T) {
		root := t.TempDir()
		writeSite(t, root, "headphones", `<img src="a.jpg" alt="ok">`)

		dataDir := filepath.Join(root, "data")
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			t.Fatal(err)
		}
		apiDump := `{"data":{"results":[
			{"asin":"B0AAAAAAA1","title":"Branded","brand":"Sony"},
			{"asin":"B0BBBBBBB2","title":"Unbranded"}
		]}}`
		if err := os.WriteFile(filepath.Join(dataDir, "headphones.json"), []byte(apiDump), 0o644); err != nil {
			t.Fatal(err)
		}

		report, err := NewAuditService(root).Run()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var blank int
		for _, v := range report.Violations {
			if v.Check == "blank-brand" {
				blank++
			}
		}
		if blank != 1 {
			t.Errorf("blank-brand violations = %d, want 1", blank)
		}
	})

	t.Run("blog pages are audited too", func(t *testing.T) {
		root := t.TempDir()
		writeSite(t, root, "headphones", `<img src="a.jpg" alt="ok">`)
		blogDir := filepath.Join(root, "headphones", "blog")
		if err := os.MkdirAll(blogDir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(blogDir, "post.html"), []byte(`<img src="p.jpg">`), 0o644); err != nil {
			t.Fatal(err)
		}

		report, err := NewAuditService(root).Run()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Passed() {
			t.Error("expected a missing-alt violation from the blog page")
		}
	})

	t.Run("missing sites directory is an error", func(t *testing.T) {
		_, err := NewAuditService(filepath.Join(t.TempDir(), "absent")).Run()
		if err == nil {
			t.Error("err = nil, want read error")
		}
	})
}

func TestAuditGeneratedOutput(t *testing.T) {
	// End to end: generate a site, then audit it. The template must always
	// produce audit-clean pages.
	svc, outputDir := newTestSiteService(t, &fakeAmazonClient{products: completeProducts()})

	niche := domain.Niche{Name: "Wireless Headphones", Keyword: "wireless headphones"}
	if _, err := svc.GenerateSite(context.Background(), niche); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	report, err := NewAuditService(outputDir).Run()
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	if !report.Passed() {
		t.Errorf("generated site failed its own audit: %+v", report.Violations)
	}
}
