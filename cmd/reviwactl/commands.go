package main

import (
	"fmt"
	"text/tabwriter"

	"reviwa-backend/internal/cache"
	"reviwa-backend/internal/email"
	"reviwa-backend/internal/jobs"
	"reviwa-backend/internal/service"

	"github.com/spf13/cobra"
)

func newMakeAdminCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "make-admin <email>",
		Short: "Promote an existing user to admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			admin := service.NewAdminService(store.UserRepository, store.ReportRepository, store.AuditRepository, cache.NoopLeaderboardCache{})
			user, err := admin.PromoteByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to promote %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d) is now an admin\n", user.Email, user.ID)
			return nil
		},
	}
}

func (a *app) jobRunner(cmd *cobra.Command) (*jobs.JobRunner, func() error, error) {
	store, err := a.store(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	leaderboard, closeCache, err := cache.NewLeaderboardCache(cmd.Context(), a.cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	return jobs.NewJobRunner(store.UserRepository, store.PointsRepository, leaderboard, a.cfg), closeCache, nil
}

func newRecountReportsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recount-reports",
		Short: "Recompute submitted and verified report counters for every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeCache, err := a.jobRunner(cmd)
			if err != nil {
				return err
			}
			defer closeCache()
			n, err := runner.RecountReportCounters(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d users\n", n)
			return nil
		},
	}
}

func newPointsDriftCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "points-drift",
		Short: "List users whose green points differ from their ledger sum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeCache, err := a.jobRunner(cmd)
			if err != nil {
				return err
			}
			defer closeCache()
			drift, err := runner.CheckPointsDrift(cmd.Context())
			if err != nil {
				return err
			}
			if len(drift) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no drift found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USER\tBALANCE\tLEDGER\tDIFF")
			for _, d := range drift {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", d.UserID, d.GreenPoints, d.LedgerSum, int64(d.GreenPoints)-d.LedgerSum)
			}
			return tw.Flush()
		},
	}
}

func newSendTestEmailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send-test-email <to>",
		Short: "Send a test email through the configured provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := email.NewSender(a.cfg.Email)
			if err != nil {
				return err
			}
			mail := service.NewMailService(sender, email.NewTemplates(a.cfg.Email.FrontendBaseURL))
			if err := mail.SendTest(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "test email sent to %s via %s\n", args[0], a.cfg.Email.Provider)
			return nil
		},
	}
}
