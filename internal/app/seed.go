package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/remontasupport/remontamarketplace-sub005/internal/models"
	"github.com/remontasupport/remontamarketplace-sub005/internal/repositories"
	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

// SentinelWorkerID is used to check if seeding has already occurred.
const SentinelWorkerID = "dddddddd-dddd-4ddd-dddd-ddddddddddd1"

// DefaultServiceNames is the canonical service catalog seeded into every
// non-production environment.
var DefaultServiceNames = []string{
	"Support Worker",
	"Personal Care",
	"Domestic Assistance",
	"Community Access",
	"Nursing",
}

// SeedAllTestData seeds the discovery service with a small roster of
// searchable worker profiles around Sydney. Idempotent: if the sentinel
// worker exists, seeding is skipped entirely.
func SeedAllTestData(
	ctx context.Context,
	catalogRepo repositories.ServiceCatalogRepository,
	profileRepo repositories.WorkerProfileRepository,
	documentRepo repositories.ComplianceDocumentRepository,
) error {
	sentinelID := uuid.MustParse(SentinelWorkerID)

	for _, name := range DefaultServiceNames {
		if _, err := catalogRepo.EnsureService(ctx, name); err != nil {
			return fmt.Errorf("seed service catalog entry %q: %w", name, err)
		}
	}

	// IDEMPOTENCY CHECK: the sentinel worker doubles as the "already
	// seeded" marker.
	if existing, err := profileRepo.GetByID(ctx, sentinelID); err != nil {
		return fmt.Errorf("failed to check for sentinel worker: %w", err)
	} else if existing != nil {
		utils.Logger.Info("discovery-service: Seed data already present; skipping seeding.")
		return nil
	}

	dob := func(year, month, day int) *time.Time {
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	workers := []*models.WorkerProfile{
		{
			ID:          sentinelID,
			Email:       "1testing@remontasupport.com.au",
			PhoneNumber: "+9990000001",
			FirstName:   "Amira",
			LastName:    "Hassan",
			Gender:      models.GenderFemale,
			DateOfBirth: dob(1995, 4, 12),
			City:        "Sydney",
			State:       "NSW",
			PostalCode:  "2000",
			Latitude:    utils.Ptr(-33.8688),
			Longitude:   utils.Ptr(151.2093),
			Languages:   []string{"English", "Arabic"},
			Skills:      []string{"Manual Handling", "First Aid"},
			Services:    []string{"Support Worker", "Personal Care"},
		},
		{
			ID:          uuid.MustParse("dddddddd-dddd-4ddd-dddd-ddddddddddd2"),
			Email:       "2testing@remontasupport.com.au",
			PhoneNumber: "+9990000002",
			FirstName:   "Ben",
			LastName:    "Okafor",
			Gender:      models.GenderMale,
			DateOfBirth: dob(1988, 11, 3),
			City:        "Parramatta",
			State:       "NSW",
			PostalCode:  "2150",
			Latitude:    utils.Ptr(-33.8136),
			Longitude:   utils.Ptr(151.0034),
			Languages:   []string{"English", "Igbo"},
			Skills:      []string{"Medication Prompting"},
			Services:    []string{"Support Worker", "Community Access"},
		},
		{
			// Legacy profile: age column set, no date of birth on record.
			ID:          uuid.MustParse("dddddddd-dddd-4ddd-dddd-ddddddddddd3"),
			Email:       "3testing@remontasupport.com.au",
			PhoneNumber: "+9990000003",
			FirstName:   "Carol",
			LastName:    "Nguyen",
			Gender:      models.GenderFemale,
			Age:         utils.Ptr(62),
			City:        "Wollongong",
			State:       "NSW",
			PostalCode:  "2500",
			Latitude:    utils.Ptr(-34.4278),
			Longitude:   utils.Ptr(150.8931),
			Languages:   []string{"English", "Vietnamese"},
			Skills:      []string{"Dementia Care"},
			Services:    []string{"Personal Care", "Nursing"},
		},
		{
			// No geocoded address: findable in standard mode only.
			ID:          uuid.MustParse("dddddddd-dddd-4ddd-dddd-ddddddddddd4"),
			Email:       "4testing@remontasupport.com.au",
			PhoneNumber: "+9990000004",
			FirstName:   "Dev",
			LastName:    "Sharma",
			Gender:      models.GenderMale,
			DateOfBirth: dob(2001, 7, 22),
			City:        "Newcastle",
			State:       "NSW",
			PostalCode:  "2300",
			Languages:   []string{"English", "Hindi"},
			Skills:      []string{"First Aid"},
			Services:    []string{"Domestic Assistance"},
		},
	}

	for _, w := range workers {
		w.AccountStatus = models.AccountStatusActive
		if err := profileRepo.Create(ctx, w); err != nil {
			return fmt.Errorf("failed to create seed worker %s %s: %w", w.FirstName, w.LastName, err)
		}
		utils.Logger.Infof("Seeded worker profile %s %s (%s, %s)", w.FirstName, w.LastName, w.City, w.State)
	}

	documents := []*models.ComplianceDocument{
		{
			ID:           uuid.MustParse("eeeeeeee-eeee-4eee-eeee-eeeeeeeeeee1"),
			WorkerID:     sentinelID,
			Category:     models.DocumentCategoryClearance,
			Status:       models.DocumentStatusApproved,
			DocumentType: "Police Check",
			ExpiresAt:    dob(2027, 4, 12),
		},
		{
			ID:           uuid.MustParse("eeeeeeee-eeee-4eee-eeee-eeeeeeeeeee2"),
			WorkerID:     sentinelID,
			Category:     models.DocumentCategoryQualification,
			Status:       models.DocumentStatusApproved,
			DocumentType: "First Aid Certificate",
			ExpiresAt:    dob(2028, 1, 31),
		},
		{
			ID:           uuid.MustParse("eeeeeeee-eeee-4eee-eeee-eeeeeeeeeee3"),
			WorkerID:     workers[1].ID,
			Category:     models.DocumentCategoryClearance,
			Status:       models.DocumentStatusPending,
			DocumentType: "Working With Children Check",
		},
	}
	for _, d := range documents {
		if err := documentRepo.Create(ctx, d); err != nil {
			return fmt.Errorf("failed to create seed document %s: %w", d.DocumentType, err)
		}
	}

	utils.Logger.Info("discovery-service: Seeding completed successfully.")
	return nil
}
