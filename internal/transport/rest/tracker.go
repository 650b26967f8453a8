package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
	"github.com/heartmarshall/pallettrack-backend/internal/service/tracker"
)

// trackerService defines the minimal interface needed by TrackerHandler.
type trackerService interface {
	Status(ctx context.Context) tracker.Status
	StartWorkDay(ctx context.Context) tracker.Status
	RequestEndWorkDay(ctx context.Context) (*tracker.Confirmation, error)
	RequestStartCheck(ctx context.Context, input tracker.StartCheckInput) (*tracker.Confirmation, error)
	Confirm(ctx context.Context, token uuid.UUID) (tracker.ConfirmResult, error)
	CancelConfirmation(ctx context.Context)
	RequestEndCheck(ctx context.Context) error
	CompleteNoErrors(ctx context.Context) (tracker.FinalizeResult, error)
	BeginErrorCollection(ctx context.Context) error
	AddPendingError(ctx context.Context, input tracker.AddErrorInput) error
	RemovePendingError(ctx context.Context, index int) error
	PendingErrors(ctx context.Context) []domain.ErrorReport
	FinishErrorCollection(ctx context.Context) (tracker.FinalizeResult, error)
	RequestCancelCollection(ctx context.Context) (*tracker.Confirmation, error)
	Save(ctx context.Context) error
	History(ctx context.Context) domain.History
	DayDetails(ctx context.Context, dateKey string) (domain.ArchivedDay, error)
	CheckStats(ctx context.Context, index int) (domain.PalletCheck, error)
}

// TrackerHandler serves shift-tracking REST endpoints.
type TrackerHandler struct {
	svc trackerService
	log *slog.Logger
}

// NewTrackerHandler creates a TrackerHandler.
func NewTrackerHandler(svc trackerService, logger *slog.Logger) *TrackerHandler {
	return &TrackerHandler{svc: svc, log: logger.With("handler", "tracker")}
}

type productResponse struct {
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
}

type errorReportResponse struct {
	Type    string           `json:"type"`
	Comment string           `json:"comment"`
	Product *productResponse `json:"product,omitempty"`
}

type checkResponse struct {
	ID        string                `json:"id"`
	Code      string                `json:"code"`
	BoxCount  int                   `json:"boxCount"`
	StartedAt time.Time             `json:"startedAt"`
	EndedAt   *time.Time            `json:"endedAt,omitempty"`
	Duration  string                `json:"duration,omitempty"`
	Errors    []errorReportResponse `json:"errors"`
}

type totalsResponse struct {
	Pallets int `json:"totalPallets"`
	Boxes   int `json:"totalBoxes"`
	Errors  int `json:"totalErrors"`
}

type confirmationResponse struct {
	Token   string `json:"token"`
	Action  string `json:"action"`
	Message string `json:"message"`
}

type statusResponse struct {
	WorkDayOpen         bool                  `json:"workDayOpen"`
	WorkStartedAt       *time.Time            `json:"workStartedAt,omitempty"`
	WorkEndedAt         *time.Time            `json:"workEndedAt,omitempty"`
	PalletsChecked      int                   `json:"palletsChecked"`
	DailyQuota          int                   `json:"dailyQuota"`
	Phase               string                `json:"phase"`
	Checks              []checkResponse       `json:"checks"`
	Current             *checkResponse        `json:"current,omitempty"`
	Totals              totalsResponse        `json:"totals"`
	PendingConfirmation *confirmationResponse `json:"pendingConfirmation,omitempty"`
	PendingErrorCount   int                   `json:"pendingErrorCount"`
}

type finalizeResponse struct {
	Check          checkResponse  `json:"check"`
	Totals         totalsResponse `json:"totals"`
	PalletsChecked int            `json:"palletsChecked"`
	QuotaReached   bool           `json:"quotaReached"`
}

func toErrorReportResponse(report domain.ErrorReport) errorReportResponse {
	resp := errorReportResponse{Type: report.Type.String(), Comment: report.Comment}
	if report.Product != nil {
		resp.Product = &productResponse{
			ProductCode: report.Product.ProductCode,
			ProductName: report.Product.ProductName,
			Quantity:    report.Product.Quantity,
			Unit:        report.Product.Unit,
		}
	}
	return resp
}

func toCheckResponse(check domain.PalletCheck) checkResponse {
	resp := checkResponse{
		ID:        check.ID.String(),
		Code:      check.Code,
		BoxCount:  check.BoxCount,
		StartedAt: check.StartedAt,
		EndedAt:   check.EndedAt,
		Duration:  check.Duration,
		Errors:    make([]errorReportResponse, 0, len(check.Errors)),
	}
	for _, report := range check.Errors {
		resp.Errors = append(resp.Errors, toErrorReportResponse(report))
	}
	return resp
}

func toTotalsResponse(totals domain.DayTotals) totalsResponse {
	return totalsResponse{Pallets: totals.Pallets, Boxes: totals.Boxes, Errors: totals.Errors}
}

func toConfirmationResponse(c *tracker.Confirmation) *confirmationResponse {
	if c == nil {
		return nil
	}
	return &confirmationResponse{Token: c.Token.String(), Action: c.Action, Message: c.Message}
}

func toStatusResponse(status tracker.Status) statusResponse {
	resp := statusResponse{
		WorkDayOpen:         status.Day.Open,
		WorkStartedAt:       status.Day.StartedAt,
		WorkEndedAt:         status.Day.EndedAt,
		PalletsChecked:      status.Day.PalletsChecked,
		DailyQuota:          status.DailyQuota,
		Phase:               status.Phase.String(),
		Checks:              make([]checkResponse, 0, len(status.Day.Checks)),
		Totals:              toTotalsResponse(status.Totals),
		PendingConfirmation: toConfirmationResponse(status.PendingConfirmation),
		PendingErrorCount:   status.PendingErrorCount,
	}
	for _, check := range status.Day.Checks {
		resp.Checks = append(resp.Checks, toCheckResponse(check))
	}
	if status.Current != nil {
		current := toCheckResponse(*status.Current)
		resp.Current = &current
	}
	return resp
}

func toFinalizeResponse(result tracker.FinalizeResult) finalizeResponse {
	return finalizeResponse{
		Check:          toCheckResponse(result.Check),
		Totals:         toTotalsResponse(result.Totals),
		PalletsChecked: result.PalletsChecked,
		QuotaReached:   result.QuotaReached,
	}
}

// Status handles GET /api/tracker/status.
func (h *TrackerHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatusResponse(h.svc.Status(r.Context())))
}

// StartWorkDay handles POST /api/tracker/workday/start.
func (h *TrackerHandler) StartWorkDay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatusResponse(h.svc.StartWorkDay(r.Context())))
}

// RequestEndWorkDay handles POST /api/tracker/workday/end-request.
func (h *TrackerHandler) RequestEndWorkDay(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.svc.RequestEndWorkDay(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfirmationResponse(confirmation))
}

type startCheckRequest struct {
	Code     string `json:"code"`
	BoxCount int    `json:"boxCount"`
}

// RequestStartCheck handles POST /api/tracker/checks/start-request.
func (h *TrackerHandler) RequestStartCheck(w http.ResponseWriter, r *http.Request) {
	var req startCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	confirmation, err := h.svc.RequestStartCheck(r.Context(), tracker.StartCheckInput{
		Code:     req.Code,
		BoxCount: req.BoxCount,
	})
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfirmationResponse(confirmation))
}

type confirmRequest struct {
	Token string `json:"token"`
}

type confirmResponse struct {
	Action       string         `json:"action"`
	StartedCheck *checkResponse `json:"startedCheck,omitempty"`
	Status       statusResponse `json:"status"`
}

// Confirm handles POST /api/tracker/confirm.
func (h *TrackerHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := uuid.Parse(req.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid confirmation token")
		return
	}

	result, err := h.svc.Confirm(r.Context(), token)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	resp := confirmResponse{Action: result.Action, Status: toStatusResponse(result.Status)}
	if result.StartedCheck != nil {
		check := toCheckResponse(*result.StartedCheck)
		resp.StartedCheck = &check
	}
	writeJSON(w, http.StatusOK, resp)
}

// CancelConfirmation handles POST /api/tracker/cancel-confirmation.
func (h *TrackerHandler) CancelConfirmation(w http.ResponseWriter, r *http.Request) {
	h.svc.CancelConfirmation(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RequestEndCheck handles POST /api/tracker/checks/end-request.
func (h *TrackerHandler) RequestEndCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RequestEndCheck(r.Context()); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CompleteNoErrors handles POST /api/tracker/checks/no-errors.
func (h *TrackerHandler) CompleteNoErrors(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CompleteNoErrors(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toFinalizeResponse(result))
}

// BeginErrorCollection handles POST /api/tracker/errors/begin.
func (h *TrackerHandler) BeginErrorCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.BeginErrorCollection(r.Context()); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type addErrorRequest struct {
	Type    string           `json:"type"`
	Comment string           `json:"comment"`
	Product *productResponse `json:"product,omitempty"`
}

// AddPendingError handles POST /api/tracker/errors.
func (h *TrackerHandler) AddPendingError(w http.ResponseWriter, r *http.Request) {
	var req addErrorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := tracker.AddErrorInput{
		Type:    domain.ErrorType(req.Type),
		Comment: req.Comment,
	}
	if req.Product != nil {
		input.Product = &domain.ProductDetails{
			ProductCode: req.Product.ProductCode,
			ProductName: req.Product.ProductName,
			Quantity:    req.Product.Quantity,
			Unit:        req.Product.Unit,
		}
	}

	if err := h.svc.AddPendingError(r.Context(), input); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// RemovePendingError handles DELETE /api/tracker/errors/{index}.
func (h *TrackerHandler) RemovePendingError(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}
	if err := h.svc.RemovePendingError(r.Context(), index); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PendingErrors handles GET /api/tracker/errors.
func (h *TrackerHandler) PendingErrors(w http.ResponseWriter, r *http.Request) {
	pending := h.svc.PendingErrors(r.Context())
	resp := make([]errorReportResponse, 0, len(pending))
	for _, report := range pending {
		resp = append(resp, toErrorReportResponse(report))
	}
	writeJSON(w, http.StatusOK, resp)
}

// FinishErrorCollection handles POST /api/tracker/errors/finish.
func (h *TrackerHandler) FinishErrorCollection(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.FinishErrorCollection(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toFinalizeResponse(result))
}

// RequestCancelCollection handles POST /api/tracker/errors/cancel-request.
func (h *TrackerHandler) RequestCancelCollection(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.svc.RequestCancelCollection(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfirmationResponse(confirmation))
}

// Save handles POST /api/tracker/save.
func (h *TrackerHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Save(r.Context()); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type archivedDayResponse struct {
	WorkStart      *time.Time      `json:"workStart,omitempty"`
	WorkEnd        *time.Time      `json:"workEnd,omitempty"`
	PalletsChecked int             `json:"palletsChecked"`
	Checks         []checkResponse `json:"checks"`
}

func toArchivedDayResponse(day domain.ArchivedDay) archivedDayResponse {
	resp := archivedDayResponse{
		WorkStart:      day.WorkStart,
		WorkEnd:        day.WorkEnd,
		PalletsChecked: day.PalletsChecked,
		Checks:         make([]checkResponse, 0, len(day.Checks)),
	}
	for _, check := range day.Checks {
		resp.Checks = append(resp.Checks, toCheckResponse(check))
	}
	return resp
}

// History handles GET /api/tracker/history.
func (h *TrackerHandler) History(w http.ResponseWriter, r *http.Request) {
	history := h.svc.History(r.Context())
	resp := make(map[string]archivedDayResponse, len(history))
	for key, day := range history {
		resp[key] = toArchivedDayResponse(day)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DayDetails handles GET /api/tracker/history/{date}.
func (h *TrackerHandler) DayDetails(w http.ResponseWriter, r *http.Request) {
	day, err := h.svc.DayDetails(r.Context(), r.PathValue("date"))
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toArchivedDayResponse(day))
}

// CheckStats handles GET /api/tracker/checks/{index}/stats.
func (h *TrackerHandler) CheckStats(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}
	check, err := h.svc.CheckStats(r.Context(), index)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckResponse(check))
}
