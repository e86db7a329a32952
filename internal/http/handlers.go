package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/amqp"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/budget"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/export"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/report"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/sheets"
	syncsvc "github.com/sparklingTalent/Quickbook-account-automation/internal/sync"
)

const serviceName = "QuickBooks Accounting Automation"

// Handler holds the API's dependencies. The sync service is nil when Google
// Sheets is not configured; sheet-touching endpoints then answer 400.
type Handler struct {
	reports  *report.Service
	source   payroll.Source
	budgets  budget.Store
	sync     *syncsvc.Service
	autoSync *syncsvc.AutoSync
	logger   *log.Logger
	now      func() time.Time
}

// NewHandler creates the API handler.
func NewHandler(
	reports *report.Service,
	source payroll.Source,
	budgets budget.Store,
	syncService *syncsvc.Service,
	autoSync *syncsvc.AutoSync,
	logger *log.Logger,
) *Handler {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	return &Handler{
		reports:  reports,
		source:   source,
		budgets:  budgets,
		sync:     syncService,
		autoSync: autoSync,
		logger:   logger,
		now:      time.Now,
	}
}

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Employees lists the payroll source's roster.
func (h *Handler) Employees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.source.GetEmployees(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, fmt.Sprintf("%v: %v", core.ErrUpstreamUnavailable, err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

// varianceReportRequest is the POST /reports/variance body.
type varianceReportRequest struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Format string `json:"format"`
	Months int    `json:"months"`
}

// VarianceReport generates one month's report in the requested format:
// json (default), csv attachment, or a push to Google Sheets.
func (h *Handler) VarianceReport(w http.ResponseWriter, r *http.Request) {
	var req varianceReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Format == "" {
		req.Format = "json"
	}

	rows, err := h.reports.GenerateVariance(r.Context(), req.Year, req.Month)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	rows = report.WithStatus(rows)

	switch req.Format {
	case "json":
		h.autoSync.OnReportAccess(r.Context(), req.Year, req.Month)
		respondJSON(w, http.StatusOK, rows)

	case "csv":
		var buf bytes.Buffer
		if err := export.WriteVarianceCSV(&buf, rows); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.CSVFileName(req.Year, req.Month)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())

	case "sheets":
		if h.sync == nil {
			respondCoreError(w, core.ErrSheetsNotConfigured)
			return
		}
		if err := h.sync.SyncMonth(r.Context(), req.Year, req.Month); err != nil {
			respondCoreError(w, err)
			return
		}
		h.autoSync.OnReportAccess(r.Context(), req.Year, req.Month)
		respondJSON(w, http.StatusOK, map[string]any{
			"status":     "success",
			"message":    "Report exported to Google Sheets",
			"sheet_name": sheets.VarianceSheetName(req.Year, req.Month),
		})

	default:
		respondError(w, http.StatusBadRequest, "unsupported format: "+req.Format)
	}
}

// VarianceTrends returns the historical trend series.
func (h *Handler) VarianceTrends(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months", 12)
	if err != nil || months < 1 || months > 24 {
		respondError(w, http.StatusBadRequest, "months must be an integer between 1 and 24")
		return
	}
	endYear, err := queryInt(r, "end_year", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end_year")
		return
	}
	endMonth, err := queryInt(r, "end_month", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end_month")
		return
	}

	rows, err := h.reports.GetTrends(r.Context(), months, endYear, endMonth)
	if err != nil {
		respondCoreError(w, err)
		return
	}

	// Serving live current-month data keeps the Latest sheet worth refreshing.
	if endYear == 0 || endMonth == 0 {
		h.autoSync.OnDataAccess(r.Context())
	}
	respondJSON(w, http.StatusOK, rows)
}

// VarianceByDepartment returns only the department-aggregate rows.
func (h *Handler) VarianceByDepartment(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil || year == 0 {
		respondError(w, http.StatusBadRequest, "year is required")
		return
	}
	month, err := queryInt(r, "month", 0)
	if err != nil || month == 0 {
		respondError(w, http.StatusBadRequest, "month is required")
		return
	}

	rows, err := h.reports.GenerateVariance(r.Context(), year, month)
	if err != nil {
		respondCoreError(w, err)
		return
	}

	deptRows := make([]core.VarianceRow, 0)
	for _, row := range rows {
		if row.IsDepartmentTotal() {
			deptRows = append(deptRows, row)
		}
	}
	respondJSON(w, http.StatusOK, deptRows)
}

// dashboardResponse bundles everything the dashboard needs in one call.
type dashboardResponse struct {
	Trends     []core.TrendRow    `json:"trends"`
	Department []core.VarianceRow `json:"department"`
	Employees  []core.Employee    `json:"employees"`
	Report     []core.VarianceRow `json:"report"`
}

// Dashboard loads the report, trends, and roster concurrently.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil || year == 0 {
		respondError(w, http.StatusBadRequest, "year is required")
		return
	}
	month, err := queryInt(r, "month", 0)
	if err != nil || month == 0 {
		respondError(w, http.StatusBadRequest, "month is required")
		return
	}
	months, err := queryInt(r, "months", 12)
	if err != nil || months < 1 || months > 24 {
		respondError(w, http.StatusBadRequest, "months must be an integer between 1 and 24")
		return
	}

	var resp dashboardResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		rows, err := h.reports.GenerateVariance(ctx, year, month)
		if err != nil {
			return err
		}
		resp.Report = report.WithStatus(rows)
		return nil
	})
	g.Go(func() error {
		trends, err := h.reports.GetTrends(ctx, months, year, month)
		if err != nil {
			return err
		}
		resp.Trends = trends
		return nil
	})
	g.Go(func() error {
		employees, err := h.source.GetEmployees(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
		}
		resp.Employees = employees
		return nil
	})
	if err := g.Wait(); err != nil {
		respondCoreError(w, err)
		return
	}

	resp.Department = make([]core.VarianceRow, 0)
	for _, row := range resp.Report {
		if row.IsDepartmentTotal() {
			resp.Department = append(resp.Department, row)
		}
	}

	now := h.now()
	if year == now.Year() && month == int(now.Month()) {
		h.autoSync.OnDataAccess(r.Context())
	}
	respondJSON(w, http.StatusOK, resp)
}

// SyncSheets pushes reports to Google Sheets on demand.
func (h *Handler) SyncSheets(w http.ResponseWriter, r *http.Request) {
	if h.sync == nil {
		respondCoreError(w, core.ErrSheetsNotConfigured)
		return
	}

	syncType := r.URL.Query().Get("sync_type")
	if syncType == "" {
		syncType = amqp.SyncLatest
	}
	months, err := queryInt(r, "months", syncsvc.DefaultHistoricalMonths)
	if err != nil || months < 1 || months > 24 {
		respondError(w, http.StatusBadRequest, "months must be an integer between 1 and 24")
		return
	}

	ctx := r.Context()
	switch syncType {
	case amqp.SyncLatest:
		h.respondSyncResult(w, ctx, h.sync.SyncLatest(ctx),
			"Latest report synced to Google Sheets", sheets.LatestSheetName)
	case amqp.SyncCurrentMonth, "current":
		h.respondSyncResult(w, ctx, h.sync.SyncCurrentMonth(ctx),
			"Current month synced to Google Sheets", "")
	case amqp.SyncHistorical:
		h.respondSyncResult(w, ctx, h.sync.SyncHistorical(ctx, months),
			fmt.Sprintf("%d months of historical trends synced", months), sheets.TrendsSheetName(months))
	case amqp.SyncAll:
		results := h.sync.SyncAll(ctx)
		status := "success"
		if !results.OK() {
			status = "partial"
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"status":  status,
			"message": "All data synced to Google Sheets",
			"results": results,
		})
	default:
		respondError(w, http.StatusBadRequest, "sync_type must be one of latest, current_month, historical, all")
	}
}

func (h *Handler) respondSyncResult(w http.ResponseWriter, ctx context.Context, err error, message, sheetName string) {
	if err != nil {
		h.logger.ErrorContext(ctx, "Sync request failed", log.FieldError, err)
		respondCoreError(w, err)
		return
	}
	resp := map[string]any{"status": "success", "message": message}
	if sheetName != "" {
		resp["sheet_name"] = sheetName
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListBudgets returns every provisioned entry for one month.
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil || year == 0 {
		respondError(w, http.StatusBadRequest, "year is required")
		return
	}
	month, err := queryInt(r, "month", 0)
	if err != nil || !core.ValidMonth(month) {
		respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	entries, err := h.budgets.GetAllBudgets(r.Context(), core.MonthString(month), year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	list := make([]core.BudgetEntry, 0, len(entries))
	for _, entry := range entries {
		list = append(list, entry)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EmployeeID < list[j].EmployeeID })

	respondJSON(w, http.StatusOK, map[string]any{"budgets": list, "count": len(list)})
}

// budgetUpsertRequest is the POST /budgets body. Month is numeric here and
// converted to the store's two-digit key.
type budgetUpsertRequest struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Department   string          `json:"department"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Amount       decimal.Decimal `json:"amount"`
}

// UpsertBudget provisions one budget entry.
func (h *Handler) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EmployeeID == "" {
		respondError(w, http.StatusBadRequest, "employee_id is required")
		return
	}
	if !core.ValidMonth(req.Month) {
		respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	if req.Year < 1900 {
		respondError(w, http.StatusBadRequest, "year is required")
		return
	}
	if req.Amount.IsNegative() {
		respondError(w, http.StatusBadRequest, "amount cannot be negative")
		return
	}

	entry := core.BudgetEntry{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Department:   req.Department,
		Month:        core.MonthString(req.Month),
		Year:         req.Year,
		Amount:       req.Amount,
	}
	if err := h.budgets.SetBudget(r.Context(), entry); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "Budget entry upserted",
		log.FieldOperation, log.OpUpsert,
		log.FieldEmployeeID, entry.EmployeeID,
		log.FieldYear, entry.Year,
		log.FieldMonth, entry.Month)
	respondJSON(w, http.StatusCreated, map[string]any{"status": "success", "key": budget.EntryKey(entry)})
}
