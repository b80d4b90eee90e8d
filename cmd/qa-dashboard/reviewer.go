package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/internal/repository"
	"github.com/noah-isme/qa-dashboard-api/internal/service"
	"github.com/noah-isme/qa-dashboard-api/pkg/database"
)

var (
	reviewerEmail    string
	reviewerName     string
	reviewerPassword string
)

var createReviewerCmd = &cobra.Command{
	Use:   "create-reviewer",
	Short: "Create a reviewer account or reset its password",
	RunE:  runCreateReviewer,
}

func init() {
	flags := createReviewerCmd.Flags()
	flags.StringVar(&reviewerEmail, "email", "", "reviewer email (required)")
	flags.StringVar(&reviewerName, "name", "", "display name")
	flags.StringVar(&reviewerPassword, "password", "", "initial password, at least 6 characters (required)")
	_ = createReviewerCmd.MarkFlagRequired("email")
	_ = createReviewerCmd.MarkFlagRequired("password")
}

func runCreateReviewer(cmd *cobra.Command, _ []string) error {
	cfg, logr, err := bootstrap()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	policy := service.NewAccessPolicy(cfg.Access.Allowlist, cfg.Access.AdminEmails)
	auth := service.NewAuthService(repository.NewUserRepository(db), policy, nil, logr, authConfig(cfg))
	created, err := auth.ProvisionReviewer(cmd.Context(), reviewerEmail, reviewerName, reviewerPassword)
	if err != nil {
		return err
	}
	if !policy.Allowed(reviewerEmail) {
		logr.Warn("reviewer is not in ACCESS_ALLOWLIST and will be denied at sign-in", zap.String("email", reviewerEmail))
	}
	logr.Info("reviewer provisioned", zap.String("email", reviewerEmail), zap.Bool("created", created))
	return nil
}
