package store

import (
	"context"
	"fmt"

	"github.com/prateekgoyal/proposalhub/internal/models"
)

// SampleDocuments are the seed rows used by local development and the
// search scenario tests.
func SampleDocuments() []models.Document {
	return []models.Document{
		{
			ID:          "doc-marketing-strategy-2024",
			Title:       "Marketing Strategy 2024",
			Description: "Annual marketing strategy covering channels, budget and campaign goals.",
			Content:     "Our marketing plan for 2024 focuses on digital channels, content marketing and brand awareness campaigns across all regions.",
			Tags:        "marketing,strategy,2024",
			Metadata:    `{"department":"marketing","quarter":"Q1"}`,
			Category:    "strategy",
			DocType:     "proposal",
			CreatedBy:   "user-alice",
		},
		{
			ID:          "doc-engineering-roadmap",
			Title:       "Engineering Roadmap",
			Description: "Platform roadmap with milestones and dependency ordering.",
			Content:     "The engineering roadmap lists platform milestones, infrastructure upgrades and the critical path for delivery.",
			Tags:        "engineering,roadmap",
			Metadata:    `{"department":"engineering"}`,
			Category:    "planning",
			DocType:     "roadmap",
			CreatedBy:   "user-bob",
		},
		{
			ID:          "doc-sales-playbook",
			Title:       "Sales Playbook",
			Description: "Playbook for outbound sales and proposal templates.",
			Content:     "Standard playbook for the sales team including proposal templates, pricing guidance and negotiation tactics.",
			Tags:        "sales,playbook",
			Metadata:    `{"department":"sales"}`,
			Category:    "operations",
			DocType:     "guide",
			CreatedBy:   "user-carol",
		},
		{
			ID:          "doc-hr-onboarding",
			Title:       "HR Onboarding Checklist",
			Description: "Checklist for onboarding new hires.",
			Content:     "Step by step onboarding checklist covering accounts, equipment and first week schedule for new employees.",
			Tags:        "hr,onboarding",
			Metadata:    `{"department":"hr"}`,
			Category:    "operations",
			DocType:     "checklist",
			CreatedBy:   "user-alice",
		},
		{
			ID:          "doc-budget-2023-archive",
			Title:       "Budget Review 2023",
			Description: "Archived budget review from last year.",
			Content:     "Historical budget review document retained for reference only.",
			Tags:        "finance,budget",
			Metadata:    `{"department":"finance"}`,
			Category:    "finance",
			DocType:     "report",
			Status:      models.DocStatusArchived,
			CreatedBy:   "user-dave",
		},
	}
}

// Seed inserts the sample documents, ignoring rows that already exist.
func (s *Documents) Seed(ctx context.Context) error {
	for _, doc := range SampleDocuments() {
		d := doc
		if _, err := s.GetByID(ctx, d.ID); err == nil {
			continue
		}
		if err := s.Create(ctx, &d); err != nil {
			return fmt.Errorf("seed %s: %w", d.ID, err)
		}
	}
	return nil
}
