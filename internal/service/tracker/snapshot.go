package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// Snapshot wire format. Field names are the storage contract; existing
// snapshots must keep loading across releases.
type snapshotDTO struct {
	AllDaysHistory     map[string]archivedDayDTO `json:"allDaysHistory"`
	TodayChecks        []checkDTO                `json:"todayChecks"`
	WorkStartTime      *string                   `json:"workStartTime"`
	WorkEndTime        *string                   `json:"workEndTime"`
	PalletsChecked     int                       `json:"palletsChecked"`
	IsWorkingDay       bool                      `json:"isWorkingDay"`
	CurrentPalletCheck *checkDTO                 `json:"currentPalletCheck"`
	TodayStats         statsDTO                  `json:"todayStats"`
}

type archivedDayDTO struct {
	WorkStart      *string    `json:"work_start"`
	WorkEnd        *string    `json:"work_end"`
	PalletsChecked int        `json:"pallets_checked"`
	Checks         []checkDTO `json:"checks"`
}

type checkDTO struct {
	ID       string     `json:"id,omitempty"`
	Code     string     `json:"code"`
	BoxCount int        `json:"boxCount"`
	Start    string     `json:"start"`
	End      *string    `json:"end"`
	Duration string     `json:"duration,omitempty"`
	Errors   []errorDTO `json:"errors"`
}

type errorDTO struct {
	Type    string      `json:"type"`
	Comment string      `json:"comment"`
	Product *productDTO `json:"product,omitempty"`
}

type productDTO struct {
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatInstantPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatInstant(*t)
	return &s
}

func parseInstantPtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}

func checkToDTO(check domain.PalletCheck) checkDTO {
	dto := checkDTO{
		ID:       check.ID.String(),
		Code:     check.Code,
		BoxCount: check.BoxCount,
		Start:    formatInstant(check.StartedAt),
		End:      formatInstantPtr(check.EndedAt),
		Duration: check.Duration,
		Errors:   make([]errorDTO, 0, len(check.Errors)),
	}
	for _, report := range check.Errors {
		e := errorDTO{Type: report.Type.String(), Comment: report.Comment}
		if report.Product != nil {
			e.Product = &productDTO{
				ProductCode: report.Product.ProductCode,
				ProductName: report.Product.ProductName,
				Quantity:    report.Product.Quantity,
				Unit:        report.Product.Unit,
			}
		}
		dto.Errors = append(dto.Errors, e)
	}
	return dto
}

// checkFromDTO restores a check, tolerating per-record timestamp corruption:
// an unparsable start falls back to now, an unparsable end to now as well.
// One damaged record must not lose the whole day.
func checkFromDTO(dto checkDTO, now time.Time) domain.PalletCheck {
	check := domain.PalletCheck{
		Code:     dto.Code,
		BoxCount: dto.BoxCount,
		Duration: dto.Duration,
	}

	if id, err := uuid.Parse(dto.ID); err == nil {
		check.ID = id
	} else {
		check.ID = uuid.New()
	}

	if start, err := time.Parse(time.RFC3339Nano, dto.Start); err == nil {
		check.StartedAt = start
	} else {
		check.StartedAt = now
	}

	if dto.End != nil {
		if end, err := time.Parse(time.RFC3339Nano, *dto.End); err == nil {
			check.EndedAt = &end
		} else {
			fallback := now
			check.EndedAt = &fallback
		}
	}

	for _, e := range dto.Errors {
		report := domain.ErrorReport{
			Type:    domain.ErrorType(e.Type),
			Comment: e.Comment,
		}
		if e.Product != nil {
			report.Product = &domain.ProductDetails{
				ProductCode: e.Product.ProductCode,
				ProductName: e.Product.ProductName,
				Quantity:    e.Product.Quantity,
				Unit:        e.Product.Unit,
			}
		}
		check.Errors = append(check.Errors, report)
	}
	return check
}

// encodeLocked renders the session as a snapshot. Caller must hold s.mu.
func (s *Service) encodeLocked() ([]byte, error) {
	dto := snapshotDTO{
		AllDaysHistory: make(map[string]archivedDayDTO, len(s.history)),
		TodayChecks:    make([]checkDTO, 0, len(s.day.Checks)),
		WorkStartTime:  formatInstantPtr(s.day.StartedAt),
		WorkEndTime:    formatInstantPtr(s.day.EndedAt),
		PalletsChecked: s.day.PalletsChecked,
		IsWorkingDay:   s.day.Open,
	}

	for key, day := range s.history {
		archived := archivedDayDTO{
			WorkStart:      formatInstantPtr(day.WorkStart),
			WorkEnd:        formatInstantPtr(day.WorkEnd),
			PalletsChecked: day.PalletsChecked,
			Checks:         make([]checkDTO, 0, len(day.Checks)),
		}
		for _, check := range day.Checks {
			archived.Checks = append(archived.Checks, checkToDTO(check))
		}
		dto.AllDaysHistory[key] = archived
	}

	for _, check := range s.day.Checks {
		dto.TodayChecks = append(dto.TodayChecks, checkToDTO(check))
	}
	if s.current != nil {
		current := checkToDTO(*s.current)
		dto.CurrentPalletCheck = &current
	}

	totals := domain.ComputeTotals(s.day.Checks)
	dto.TodayStats = statsDTO{
		TotalPallets: totals.Pallets,
		TotalBoxes:   totals.Boxes,
		TotalErrors:  totals.Errors,
	}

	return json.Marshal(dto)
}

type statsDTO struct {
	TotalPallets int `json:"totalPallets"`
	TotalBoxes   int `json:"totalBoxes"`
	TotalErrors  int `json:"totalErrors"`
}

// saveLocked persists the snapshot under the session-data key.
// Caller must hold s.mu.
func (s *Service) saveLocked(ctx context.Context) error {
	raw, err := s.encodeLocked()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.store.Set(ctx, keySessionData, raw); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Save persists the current session snapshot.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(ctx); err != nil {
		return fmt.Errorf("tracker.Save: %w", err)
	}
	s.log.InfoContext(ctx, "session saved")
	return nil
}

// Load restores the session from the persisted snapshot.
//
// A missing snapshot starts a fresh session. A malformed snapshot also starts
// a fresh session: losing the data is accepted over refusing to start. A day
// left open longer than the stale threshold is healed by force-closing it
// with a synthetic end of start + the assumed shift length.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()

	raw, err := s.store.Get(ctx, keySessionData)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("tracker.Load: %w", err)
	}

	var dto snapshotDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		s.log.WarnContext(ctx, "malformed session snapshot, starting fresh",
			slog.String("error", err.Error()))
		return nil
	}

	now := s.now()

	for key, archived := range dto.AllDaysHistory {
		day := domain.ArchivedDay{
			WorkStart:      parseInstantPtr(archived.WorkStart),
			WorkEnd:        parseInstantPtr(archived.WorkEnd),
			PalletsChecked: archived.PalletsChecked,
		}
		for _, check := range archived.Checks {
			day.Checks = append(day.Checks, checkFromDTO(check, now))
		}
		s.history[key] = day
	}

	s.day = domain.WorkDay{
		StartedAt:      parseInstantPtr(dto.WorkStartTime),
		EndedAt:        parseInstantPtr(dto.WorkEndTime),
		Open:           dto.IsWorkingDay,
		PalletsChecked: dto.PalletsChecked,
	}
	for _, check := range dto.TodayChecks {
		s.day.Checks = append(s.day.Checks, checkFromDTO(check, now))
	}

	if dto.CurrentPalletCheck != nil {
		current := checkFromDTO(*dto.CurrentPalletCheck, now)
		s.current = &current
		s.phase = domain.PhaseInProgress
	}

	s.healLocked(now)

	s.log.InfoContext(ctx, "session loaded",
		slog.Int("history_days", len(s.history)),
		slog.Int("today_checks", len(s.day.Checks)),
		slog.Bool("work_day_open", s.day.Open),
	)
	return nil
}

// resetLocked clears the session to the fresh empty state.
// Caller must hold s.mu.
func (s *Service) resetLocked() {
	s.day = domain.WorkDay{}
	s.current = nil
	s.history = make(domain.History)
	s.pendingErrors = nil
	s.pending = nil
	s.phase = domain.PhaseIdle
}

// healLocked force-closes a work day that was left open past the stale
// threshold: the session was abandoned mid-shift, and the synthetic end is a
// standard-shift placeholder, not a measured value. Caller must hold s.mu.
func (s *Service) healLocked(now time.Time) {
	if !s.day.Open || s.day.StartedAt == nil {
		return
	}
	if now.Sub(*s.day.StartedAt) <= s.cfg.StaleAfter {
		return
	}

	end := s.day.StartedAt.Add(s.cfg.AssumedShift)
	s.day.Open = false
	s.day.EndedAt = &end
	s.current = nil
	s.phase = domain.PhaseIdle

	s.log.Warn("stale work day healed",
		slog.Time("started_at", *s.day.StartedAt),
		slog.Time("synthetic_end", end),
	)
}
