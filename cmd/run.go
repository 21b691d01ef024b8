package cmd

import (
	"context"
	"fmt"

	"ccloader/centaur"
	"ccloader/config"
	"ccloader/database"
	"ccloader/events"
	"ccloader/models"
	"ccloader/repository"
	"ccloader/service"

	log "github.com/sirupsen/logrus"
)

// Run executes one load cycle and returns once it reaches a terminal state.
// In service mode the full batch chain runs (paylink transfer, delinquency
// trigger, load); otherwise only the load itself. A non-empty statusFile
// overrides the configured status file path.
func Run(ctx context.Context, serviceMode bool, statusFile string) error {
	cfg := config.Get()
	if statusFile == "" {
		statusFile = cfg.StatusFilePath
	}

	log.WithFields(log.Fields{
		"serviceMode": serviceMode,
		"environment": cfg.Environment,
	}).Info("Starting credit-card loader")

	db, err := database.NewConnection(ctx, cfg.AbacusDSN, cfg.AbacusSchema)
	if err != nil {
		return fmt.Errorf("failed to connect to Abacus database: %w", err)
	}
	defer db.Close()

	source, err := centaur.NewClient(cfg.CentaurDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to Centaur: %w", err)
	}
	defer source.Close()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	workingDays := repository.NewWorkingDayRepository(db)
	loadState := repository.NewLoadStateRepository(db)
	loadLog := repository.NewLoadLogRepository(db)
	history := repository.NewScheduleRepository(db)

	service.NewStatusWriter(statusFile, eventBus)

	loader := service.NewLoadService(source, uowFactory, history, workingDays, loadState, loadLog, eventBus)

	var status models.LoadStatus
	if serviceMode {
		trigger := centaur.NewTriggerClient(cfg.CentaurServiceURL, cfg.PaylinkTimeout, cfg.DelinquencyTimeout)
		batch := service.NewBatchService(trigger, loader, workingDays, loadLog)
		status, err = batch.Run(ctx)
	} else {
		status, err = loader.Load(ctx, false)
	}
	if err != nil {
		return fmt.Errorf("load cycle failed: %w", err)
	}

	log.WithField("status", status.String()).Info("Load cycle done")
	return nil
}
