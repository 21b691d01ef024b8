package service

import (
	"context"
	"fmt"
	"time"

	"ccloader/models"

	log "github.com/sirupsen/logrus"
)

type batchService struct {
	trigger     TriggerService
	loader      LoadService
	workingDays WorkingDayRepository
	loadLog     LoadLogRepository
	now         func() time.Time
}

// NewBatchService wires the scheduled batch chain executed on every cron
// trigger.
func NewBatchService(trigger TriggerService, loader LoadService, workingDays WorkingDayRepository, loadLog LoadLogRepository) BatchService {
	return &batchService{
		trigger:     trigger,
		loader:      loader,
		workingDays: workingDays,
		loadLog:     loadLog,
		now:         time.Now,
	}
}

// Run performs one scheduled cycle: transfer the paylink file, check that
// upstream finished and that the delinquency window is still open, trigger
// the remote delinquency computation, then load. Every wait state simply
// returns; the next trigger tries again.
func (s *batchService) Run(ctx context.Context) (models.LoadStatus, error) {
	if ok, err := s.trigger.TransferPaylinkFile(ctx); err != nil {
		// The paylink transfer is a courtesy to the payment side and must
		// not block the delinquency load.
		log.WithError(err).Error("Paylink file transfer failed")
	} else if ok {
		log.Info("Paylink file transferred")
	} else {
		log.Info("Paylink file not transferred")
	}

	state, err := s.workingDays.LatestState(ctx)
	if err != nil {
		return models.LoadStatusError, fmt.Errorf("failed to read working day state: %w", err)
	}
	if state == nil {
		log.Info("No working day state recorded, waiting")
		return models.LoadStatusWaitingForFin, nil
	}

	fin, err := s.loadLog.UpstreamFinished(ctx, state.WorkingDay)
	if err != nil {
		return models.LoadStatusError, fmt.Errorf("failed to check FIN signal: %w", err)
	}
	if !fin {
		log.Info("Waiting for Abacus, trying again later")
		return models.LoadStatusWaitingForFin, nil
	}

	if !state.DelinquencyAllowed(s.now()) {
		log.Info("Waiting for Abacus for today's load, trying again later")
		return models.LoadStatusWaitingForFin, nil
	}

	log.Info("Abacus finished for this day, starting delinquency")
	finished, err := s.trigger.ProcessDelinquency(ctx)
	if err != nil {
		return models.LoadStatusError, fmt.Errorf("delinquency processing failed: %w", err)
	}
	if !finished {
		log.Info("Delinquency not finished, trying again later")
		return models.LoadStatusWaitingForFin, nil
	}

	log.Info("Delinquency finished, starting load")
	status, err := s.loader.Load(ctx, true)

	switch status {
	case models.LoadStatusSuccess:
		log.Info("Done loading credit-card data into Abacus")
	case models.LoadStatusWaitingForFin:
		log.Info("Waiting for FIN, trying again later")
	case models.LoadStatusFinished:
		log.Info("Finished for this working day")
	case models.LoadStatusError:
		log.WithError(err).Error("Error loading credit-card data into Abacus")
	}

	return status, err
}
