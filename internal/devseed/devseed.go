// Package devseed loads a demo dataset for local development: one demo
// account with credentials, the starter offer catalogue, and a handful of
// leads to click around with.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
	domainauth "github.com/lindasales/salespro/internal/domain/auth"
	"github.com/lindasales/salespro/internal/domain/model"
)

// Demo account credentials for local development.
const (
	DemoEmail    = "demo@salespro.local"
	DemoPassword = "demo-pass"
	DemoName     = "Demo Seller"
)

// starterOffers is the demo offer catalogue shown on the sell page.
var starterOffers = []model.CreateOfferRequest{
	{Title: "Data Analytics Training Virtual", PriceCents: 15_000_000, Currency: "NGN"},
	{Title: "Frontend Development Bootcamp", PriceCents: 20_000_000, Currency: "NGN"},
	{Title: "UI/UX Design Course", PriceCents: 12_000_000, Currency: "NGN"},
	{Title: "Digital Marketing Training", PriceCents: 10_000_000, Currency: "NGN"},
}

var starterLeads = []model.CreateLeadRequest{
	{Name: "Ada Obi", Email: "ada@example.com", Phone: "+2348012345678", Source: "referral"},
	{Name: "Chinedu Eze", Email: "chinedu@example.com", Source: "lead-gen"},
	{Name: "Funke Adeyemi", Phone: "+2348098765432", Source: "walk-in"},
}

// Seed loads the demo dataset. Running it twice is safe: an existing demo
// account short-circuits without touching anything.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	credentials := data.NewCredentialRepo(db)
	if _, err := credentials.GetByEmail(ctx, DemoEmail); err == nil {
		logger.InfoContext(ctx, "demo data already seeded", "email", DemoEmail)
		return nil
	} else if !errors.Is(err, data.ErrCredentialNotFound) {
		return fmt.Errorf("check demo credential: %w", err)
	}

	userID := uuid.NewString()
	now := (&data.RealTimeProvider{}).Now().UTC()

	profiles := data.NewProfileRepo(db)
	profile := model.NewProfileFromIdentity(domainauth.Identity{
		UserID: userID,
		Name:   DemoName,
		Email:  DemoEmail,
	}, now)
	if err := profiles.Create(ctx, &profile); err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	if err = credentials.Create(ctx, &core.Credential{
		UserID:       userID,
		Email:        DemoEmail,
		PasswordHash: string(hash),
	}); err != nil {
		return fmt.Errorf("seed credential: %w", err)
	}

	offers := data.NewOfferRepo(db)
	for i := range starterOffers {
		if _, err = offers.Create(ctx, userID, &starterOffers[i]); err != nil {
			return fmt.Errorf("seed offer %q: %w", starterOffers[i].Title, err)
		}
	}

	leads := data.NewLeadRepo(db)
	for i := range starterLeads {
		if _, err = leads.Create(ctx, userID, &starterLeads[i]); err != nil {
			return fmt.Errorf("seed lead %q: %w", starterLeads[i].Name, err)
		}
	}

	logger.InfoContext(ctx, "demo data seeded",
		"email", DemoEmail,
		"offers", len(starterOffers),
		"leads", len(starterLeads))
	return nil
}
