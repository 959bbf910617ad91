package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/imaging"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
	"reviwa-backend/internal/storage"

	"golang.org/x/sync/errgroup"
)

type reportService struct {
	reportRepo   repository.ReportRepository
	userRepo     repository.UserRepository
	gamification GamificationService
	store        storage.Storage
	imageOpts    imaging.Options
	notifier     Notifier
	now          func() time.Time
}

func NewReportService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	gamification GamificationService,
	store storage.Storage,
	imageOpts imaging.Options,
	notifier Notifier,
) ReportService {
	return &reportService{
		reportRepo:   reportRepo,
		userRepo:     userRepo,
		gamification: gamification,
		store:        store,
		imageOpts:    imageOpts,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *reportService) Create(ctx context.Context, actor *domain.User, report *domain.Report, images []ImageUpload) (*domain.Report, error) {
	logger.EnterMethod("reportService.Create", "userID", actor.ID, "images", len(images))

	if !actor.IsActive {
		return nil, domain.Authorizationf("an active account is required to submit reports")
	}
	if len(images) > domain.MaxReportImages {
		return nil, domain.Validationf("a report can have at most %d images", domain.MaxReportImages)
	}
	report.Images = nil
	if err := report.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.saveImages(ctx, images)
	if err != nil {
		logger.ExitMethodWithError("reportService.Create", err, "userID", actor.ID)
		return nil, err
	}

	report.Images = saved
	report.ReportedBy = actor.ID
	report.ReporterName = actor.Name
	report.Status = domain.ReportStatusPending
	report.StatusNote = ""
	report.VerifiedBy = nil
	report.VerifiedAt = nil
	report.ResolvedAt = nil
	report.Location.Type = "Point"

	if err := s.reportRepo.Create(ctx, report); err != nil {
		s.deleteImages(ctx, saved)
		logger.ExitMethodWithError("reportService.Create", err, "userID", actor.ID)
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	reportID := report.ID
	balance, err := s.gamification.Award(ctx, actor.ID, domain.PointsReportSubmitted, domain.ActivityWasteReportSubmitted, &reportID)
	if err != nil {
		logger.Error("Failed to award report points", "userID", actor.ID, "reportID", report.ID, "error", err)
	} else if balance.Counters.WasteReportsSubmitted == 1 {
		if _, err := s.gamification.UnlockAchievement(ctx, actor.ID, domain.FirstReportAchievement()); err != nil {
			logger.Error("Failed to unlock first report achievement", "userID", actor.ID, "error", err)
		}
	}

	if err := s.notifier.ReportCreated(ctx, report, actor); err != nil {
		logger.Warn("Failed to notify admins of new report", "reportID", report.ID, "error", err)
	}

	logger.ExitMethod("reportService.Create", "reportID", report.ID)
	return report, nil
}

// saveImages recompresses and stores each upload. On failure every image
// already stored is removed again.
func (s *reportService) saveImages(ctx context.Context, images []ImageUpload) ([]domain.ReportImage, error) {
	saved := make([]domain.ReportImage, 0, len(images))
	for _, img := range images {
		data, contentType, err := imaging.Process(img.Data, s.imageOpts)
		if err != nil {
			s.deleteImages(ctx, saved)
			return nil, err
		}
		key := storage.NewReportImageKey(s.now(), contentType)
		url, err := s.store.Save(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
		if err != nil {
			s.deleteImages(ctx, saved)
			return nil, fmt.Errorf("failed to store image %s: %w", img.Filename, err)
		}
		saved = append(saved, domain.ReportImage{URL: url, Key: key})
	}
	return saved, nil
}

func (s *reportService) deleteImages(ctx context.Context, images []domain.ReportImage) {
	for _, img := range images {
		if err := s.store.Delete(ctx, img.Key); err != nil {
			logger.Warn("Failed to clean up stored image", "key", img.Key, "error", err)
		}
	}
}

func (s *reportService) Get(ctx context.Context, id int32) (*domain.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

func (s *reportService) List(ctx context.Context, q domain.ReportQuery) (*domain.ReportPage, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	reports, total, err := s.reportRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return domain.NewReportPage(reports, total, q), nil
}

func (s *reportService) UpdateStatus(ctx context.Context, actor *domain.User, id int32, target domain.ReportStatus, note string) (*domain.Report, error) {
	logger.EnterMethod("reportService.UpdateStatus", "userID", actor.ID, "reportID", id, "target", target)

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("reportService.UpdateStatus", err, "reportID", id)
		return nil, err
	}
	if err := domain.CanTransition(actor, report, target); err != nil {
		logger.ExitMethodWithError("reportService.UpdateStatus", err, "reportID", id)
		return nil, err
	}

	from := report.Status
	report.Status = target
	report.StatusNote = note
	if err := s.reportRepo.UpdateStatus(ctx, report, from, actor.ID); err != nil {
		logger.ExitMethodWithError("reportService.UpdateStatus", err, "reportID", id)
		return nil, err
	}

	if points, activity, ok := domain.TransitionAward(target); ok {
		reportID := report.ID
		if _, err := s.gamification.Award(ctx, report.ReportedBy, points, activity, &reportID); err != nil {
			logger.Error("Failed to award status points", "userID", report.ReportedBy, "reportID", report.ID, "error", err)
		}
	}

	owner, err := s.userRepo.GetByID(ctx, report.ReportedBy)
	if err != nil {
		logger.Warn("Failed to load report owner for notification", "reportID", report.ID, "error", err)
	} else if err := s.notifier.ReportStatusChanged(ctx, owner, report, from); err != nil {
		logger.Warn("Failed to notify report owner", "reportID", report.ID, "error", err)
	}

	logger.ExitMethod("reportService.UpdateStatus", "reportID", report.ID, "from", from, "to", target)
	return report, nil
}

func (s *reportService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		stats    domain.DashboardStats
		byStatus map[domain.ReportStatus]int32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.userRepo.Count(gctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		sum, err := s.userRepo.SumPoints(gctx)
		stats.TotalPoints = sum
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.reportRepo.CountByStatus(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	stats.ByStatus = make(map[domain.ReportStatus]int32, 5)
	for _, st := range []domain.ReportStatus{
		domain.ReportStatusPending,
		domain.ReportStatusVerified,
		domain.ReportStatusInProgress,
		domain.ReportStatusResolved,
		domain.ReportStatusRejected,
	} {
		stats.ByStatus[st] = byStatus[st]
		stats.TotalReports += byStatus[st]
	}
	stats.ResolvedCount = stats.ByStatus[domain.ReportStatusResolved]
	stats.PendingCount = stats.ByStatus[domain.ReportStatusPending]
	return &stats, nil
}
