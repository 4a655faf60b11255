package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayo6706/circulation-scheduler/internal/circulation"
	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/observability"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

// RunResult describes the schedule a run stored.
type RunResult struct {
	Trigger     string               `json:"trigger"`
	Groups      []models.Group       `json:"groups"`
	Transfers   []models.Transfer    `json:"transfers"`
	TotalVolume int64                `json:"totalVolume"`
	History     *models.HistoryEntry `json:"history,omitempty"`
}

// SimulationService partitions the active accounts, generates the schedule
// and stores it. Runs are serialized.
type SimulationService struct {
	store       EntityStore
	archive     HistoryArchive
	rnd         circulation.Rand
	partitioner *circulation.Partitioner
	generator   *circulation.Generator
	now         func() time.Time

	mu sync.Mutex
}

// NewSimulationService creates a simulation service. archive may be nil.
func NewSimulationService(store EntityStore, archive HistoryArchive, rnd circulation.Rand) *SimulationService {
	if rnd == nil {
		rnd = circulation.NewTimeSeededRand()
	}
	return &SimulationService{
		store:       store,
		archive:     archive,
		rnd:         rnd,
		partitioner: circulation.NewPartitioner(nil),
		generator:   circulation.NewGenerator(rnd, nil),
		now:         time.Now,
	}
}

// Config returns the saved configuration or the defaults.
func (s *SimulationService) Config(ctx context.Context) (*models.SimulationConfig, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cfg := s.currentConfig(state)
	return &cfg, nil
}

// SaveConfig validates and stores cfg without running a schedule.
func (s *SimulationService) SaveConfig(ctx context.Context, cfg models.SimulationConfig) (*models.SimulationConfig, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(state *repository.State) error {
		for _, id := range cfg.SelectedAccountIDs {
			if indexAccount(state.Accounts, id) < 0 {
				return invalidf("selected account %s does not exist", id)
			}
		}
		state.Config = &cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Run schedules the current accounts with the saved configuration and
// replaces the stored transfer list.
func (s *SimulationService) Run(ctx context.Context, trigger string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *RunResult
	err := s.store.RunInTx(ctx, func(state *repository.State) error {
		var err error
		result, err = s.plan(state, s.currentConfig(state), trigger)
		return err
	})
	return s.finish(ctx, trigger, result, err)
}

// Reset replaces every account with a freshly seeded pool built from cfg,
// selects all of them and schedules without recording history. Manual groups
// survive but lose their members.
func (s *SimulationService) Reset(ctx context.Context, cfg models.SimulationConfig) (*RunResult, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result *RunResult
	err = s.store.RunInTx(ctx, func(state *repository.State) error {
		state.Accounts = s.seedAccounts(cfg)
		cfg.AccountCount = len(state.Accounts)
		cfg.SelectedAccountIDs = make([]string, 0, len(state.Accounts))
		for _, acc := range state.Accounts {
			cfg.SelectedAccountIDs = append(cfg.SelectedAccountIDs, acc.ID)
		}
		state.Config = &cfg

		var err error
		result, err = s.plan(state, cfg, domain.TriggerReset)
		return err
	})
	return s.finish(ctx, domain.TriggerReset, result, err)
}

// ExecuteIfDue runs once when auto execution is enabled and its time has
// passed, then disables auto execution. It reports whether a run happened.
func (s *SimulationService) ExecuteIfDue(ctx context.Context, now time.Time) (*RunResult, bool, error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	if !dueNow(s.currentConfig(state), now) {
		return nil, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result *RunResult
	err = s.store.RunInTx(ctx, func(state *repository.State) error {
		result = nil
		cfg := s.currentConfig(state)
		if !dueNow(cfg, now) {
			return nil
		}
		cfg.AutoExecutionEnabled = false
		state.Config = &cfg

		var err error
		result, err = s.plan(state, cfg, domain.TriggerAuto)
		return err
	})
	if err == nil && result == nil {
		return nil, false, nil
	}
	result, err = s.finish(ctx, domain.TriggerAuto, result, err)
	return result, err == nil, err
}

// TimeUntilExecution reports the remaining time before the scheduled
// execution. ok is false when auto execution is off.
func (s *SimulationService) TimeUntilExecution(ctx context.Context, now time.Time) (remaining time.Duration, ok bool, err error) {
	state, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, false, err
	}
	cfg := s.currentConfig(state)
	if !cfg.AutoExecutionEnabled || cfg.ScheduledExecutionTime == "" {
		return 0, false, nil
	}
	at, err := ParseExecutionTime(cfg.ScheduledExecutionTime, time.UTC)
	if err != nil {
		return 0, false, err
	}
	return max(at.Sub(now), 0), true, nil
}

func executionDue(cfg models.SimulationConfig, now time.Time) (bool, error) {
	if !cfg.AutoExecutionEnabled || cfg.ScheduledExecutionTime == "" {
		return false, nil
	}
	at, err := ParseExecutionTime(cfg.ScheduledExecutionTime, time.UTC)
	if err != nil {
		return false, err
	}
	return !now.Before(at), nil
}

// dueNow is executionDue with parse failures logged and treated as not due.
func dueNow(cfg models.SimulationConfig, now time.Time) bool {
	due, err := executionDue(cfg, now)
	if err != nil {
		zap.L().Warn("auto execution skipped: unreadable scheduled time",
			zap.String("scheduled_execution_time", cfg.ScheduledExecutionTime),
			zap.Error(err),
		)
		return false
	}
	return due
}

func (s *SimulationService) currentConfig(state *repository.State) models.SimulationConfig {
	if state.Config != nil {
		return *state.Config
	}
	return DefaultConfig(s.now())
}

// plan runs the engine against state and records the outcome on it.
func (s *SimulationService) plan(state *repository.State, cfg models.SimulationConfig, trigger string) (*RunResult, error) {
	start, err := ParseDate(cfg.StartDate)
	if err != nil {
		return nil, err
	}

	active := circulation.Active(state.Accounts, cfg.SelectedAccountIDs)
	groups := s.partitioner.Partition(active, state.Groups, cfg.GroupSize, cfg.CycleDays)
	transfers := s.generator.Generate(circulation.Schedulable(groups), active, start)
	state.Transfers = transfers

	result := &RunResult{Trigger: trigger, Groups: groups, Transfers: transfers}
	for _, tx := range transfers {
		result.TotalVolume += tx.Amount
	}

	if len(transfers) > 0 && trigger != domain.TriggerReset {
		companies := make([]string, 0, len(active))
		for _, acc := range active {
			companies = append(companies, acc.CompanyName)
		}
		entry := models.HistoryEntry{
			ID:                "LOG-" + uuid.NewString(),
			Timestamp:         s.now().UTC(),
			Config:            cfg,
			InvolvedCompanies: companies,
			TotalVolume:       result.TotalVolume,
			TransferCount:     len(transfers),
			GroupCount:        len(groups),
		}
		state.AppendHistory(entry)
		result.History = &entry
	}
	return result, nil
}

func (s *SimulationService) finish(ctx context.Context, trigger string, result *RunResult, err error) (*RunResult, error) {
	if err != nil {
		observability.IncrementScheduleRun(trigger, "error")
		zap.L().Error("schedule run failed", zap.String("trigger", trigger), zap.Error(err))
		return nil, err
	}
	observability.IncrementScheduleRun(trigger, "success")

	byOrigin := map[string]int{}
	for _, g := range circulation.Schedulable(result.Groups) {
		byOrigin[string(g.Origin)]++
	}
	observability.SetSchedule(len(result.Transfers), result.TotalVolume, byOrigin)

	if result.History != nil && s.archive != nil {
		if err := s.archive.Insert(ctx, *result.History); err != nil {
			zap.L().Warn("failed to archive history entry", zap.String("history_id", result.History.ID), zap.Error(err))
		}
	}

	zap.L().Info("schedule generated",
		zap.String("trigger", trigger),
		zap.Int("groups", len(result.Groups)),
		zap.Int("transfers", len(result.Transfers)),
		zap.String("total_volume", domain.FormatAmount(result.TotalVolume)),
	)
	return result, nil
}

func (s *SimulationService) seedAccounts(cfg models.SimulationConfig) []models.Account {
	count := max(domain.MinGroupSize, cfg.AccountCount)
	accounts := make([]models.Account, 0, count)
	for i := range count {
		letter := string(rune('A' + i%26))
		suffix := ""
		if i/26 > 0 {
			suffix = fmt.Sprint(i / 26)
		}
		factor := domain.SeedLimitRatioMin + s.rnd.Float64()*domain.SeedLimitRatioSpan
		accounts = append(accounts, models.Account{
			ID:              fmt.Sprintf("ACC-%d", domain.SeedAccountIDBase+i),
			Name:            fmt.Sprintf("Account %d", i+1),
			CompanyName:     fmt.Sprintf("Entity %s%s Holdings", letter, suffix),
			MaxMonthlyLimit: math.Min(domain.ScaleLimit(cfg.GlobalMaxLimit, factor), domain.MaxLimit),
			CurrentBalance:  domain.SeedAccountBalance,
		})
	}
	return accounts
}
