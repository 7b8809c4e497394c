package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bilgin-backend/internal/config"
	"bilgin-backend/internal/logger"
)

// RetentionService prunes Q&A records past the configured age on a cron
// schedule. Documents are never pruned; only the question history ages out.
type RetentionService struct {
	scheduler *gocron.Scheduler
	questions *mongo.Collection
	cfg       *config.Config
}

func NewRetentionService(cfg *config.Config, questions *mongo.Collection) *RetentionService {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()

	return &RetentionService{
		scheduler: s,
		questions: questions,
		cfg:       cfg,
	}
}

func (r *RetentionService) Start() error {
	_, err := r.scheduler.Cron(r.cfg.RetentionCron).Tag("qa-retention").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := r.PruneOldRecords(ctx); err != nil {
			logger.Error("Q&A retention prune failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	logger.Info("Retention scheduler started", "cron", r.cfg.RetentionCron, "days", r.cfg.QARetentionDays)
	return nil
}

func (r *RetentionService) Stop() {
	r.scheduler.Stop()
}

func (r *RetentionService) PruneOldRecords(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -r.cfg.QARetentionDays)
	result, err := r.questions.DeleteMany(ctx, bson.M{
		"timestamp": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return err
	}
	if result.DeletedCount > 0 {
		logger.Info("Pruned old Q&A records", "deleted", result.DeletedCount, "cutoff", cutoff)
	}
	return nil
}
