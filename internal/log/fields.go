package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldYear       = "year"
	FieldMonth      = "month"
	FieldMonths     = "months"
	FieldEmployeeID = "employee_id"
	FieldDepartment = "department"
	FieldSyncType   = "sync_type"
	FieldSheetName  = "sheet_name"
	FieldBackend    = "backend"
	FieldRowCount   = "row_count"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentPayroll = "payroll"
	ComponentBudget  = "budget"
	ComponentReport  = "report"
	ComponentSheets  = "sheets"
	ComponentSync    = "sync"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
)

// Standard operation names.
const (
	OpAggregate = "aggregate"
	OpVariance  = "variance"
	OpTrends    = "trends"
	OpExport    = "export"
	OpSync      = "sync"
	OpUpsert    = "upsert"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
