package main

import (
	"flag"
	"log"
	"os"

	"github.com/nichegen/backend/internal/usecase"
)

func main() {
	sitesDir := flag.String("sites", "sites", "directory of generated sites to audit")
	flag.Parse()

	report, err := usecase.NewAuditService(*sitesDir).Run()
	if err != nil {
		log.Fatalf("Audit failed: %v", err)
	}

	for _, v := range report.Violations {
		log.Printf("[%s] %s: %s", v.Check, v.File, v.Message)
	}

	if !report.Passed() {
		log.Printf("Audit found %d violations across %d pages", len(report.Violations), report.SitesChecked)
		os.Exit(1)
	}
	log.Printf("Audit passed: %d pages clean", report.SitesChecked)
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stdout)
}
