// Package seed creates demo data for development environments.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/meetapp/backend/internal/app/models"
	appRepos "github.com/meetapp/backend/internal/app/repositories"
)

func strPtr(s string) *string { return &s }

// CreateDefaultData inserts a demo business account with an offer and a
// demo student account. Existing accounts are left alone, so reruns are
// harmless.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	offerRepo := appRepos.NewOfferRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// --- Demo business account with a standing offer --- //
	exists, err := userRepo.EmailExists(ctx, "cafe@meetapp.demo")
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if demo business exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Business123!"), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing demo business password")
			finalErr = errors.Join(finalErr, err)
		} else {
			category := appModels.BusinessCategoryFoodAndDrink
			business := &appModels.User{
				UserName:         "demo-cafe",
				Name:             strPtr("Demo Cafe"),
				Email:            "cafe@meetapp.demo",
				Password:         string(hashedPassword),
				Type:             appModels.UserTypeBusiness,
				RegisterDateTime: time.Now().UTC(),
				City:             strPtr("Valencia"),
				BusinessName:     strPtr("Demo Cafe"),
				BusinessAddress:  strPtr("Carrer de la Pau 1"),
				BusinessCategory: &category,
			}

			if err := userRepo.Create(ctx, business); err != nil {
				lgr.Error().Err(err).Msg("Error creating demo business")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Str("businessID", business.ID.String()).Msg("Demo business created")

				offer := &appModels.Offer{
					BusinessID:     business.ID,
					Title:          "Two coffees for one",
					Description:    "Bring a friend from your activity and the second coffee is free.",
					ExpirationDate: time.Now().UTC().AddDate(1, 0, 0),
					Tag:            strPtr("coffee"),
				}
				if err := offerRepo.Create(ctx, offer); err != nil {
					lgr.Error().Err(err).Msg("Error creating demo offer")
					finalErr = errors.Join(finalErr, err)
				}
			}
		}
	} else {
		lgr.Debug().Msg("Demo business already exists, skipping creation")
	}

	// --- Demo student account --- //
	exists, err = userRepo.EmailExists(ctx, "student@meetapp.demo")
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if demo student exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Student123!"), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing demo student password")
			finalErr = errors.Join(finalErr, err)
		} else {
			student := &appModels.User{
				UserName:         "demo-student",
				Name:             strPtr("Demo Student"),
				Email:            "student@meetapp.demo",
				Password:         string(hashedPassword),
				Type:             appModels.UserTypeStudent,
				RegisterDateTime: time.Now().UTC(),
				City:             strPtr("Valencia"),
			}

			if err := userRepo.Create(ctx, student); err != nil {
				lgr.Error().Err(err).Msg("Error creating demo student")
				finalErr = errors.Join(finalErr, err)
			}
		}
	} else {
		lgr.Debug().Msg("Demo student already exists, skipping creation")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
