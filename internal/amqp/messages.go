package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sync types carried by ReportSyncMessage.
const (
	SyncLatest       = "latest"
	SyncCurrentMonth = "current_month"
	SyncHistorical   = "historical"
	SyncAll          = "all"
)

// ReportSyncMessage asks the worker to push reports to Google Sheets. The
// message carries only the sync target; the worker recomputes the report from
// source data so stale payloads can never be written.
type ReportSyncMessage struct {
	SyncType  string    `json:"sync_type"`
	Year      int       `json:"year,omitempty"`
	Month     int       `json:"month,omitempty"`
	Months    int       `json:"months,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportSyncMessage creates a message for the given sync type.
func NewReportSyncMessage(syncType string) *ReportSyncMessage {
	return &ReportSyncMessage{SyncType: syncType, Timestamp: time.Now()}
}

// NewHistoricalSyncMessage creates a historical-trends sync message for a
// window of months.
func NewHistoricalSyncMessage(months int) *ReportSyncMessage {
	return &ReportSyncMessage{SyncType: SyncHistorical, Months: months, Timestamp: time.Now()}
}

// Validate checks the sync type and window.
func (m *ReportSyncMessage) Validate() error {
	switch m.SyncType {
	case SyncLatest, SyncCurrentMonth, SyncAll:
		return nil
	case SyncHistorical:
		if m.Months <= 0 {
			return fmt.Errorf("historical sync requires a positive months window, got %d", m.Months)
		}
		return nil
	default:
		return fmt.Errorf("unknown sync type %q", m.SyncType)
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportSyncMessageFromJSON creates a message from JSON bytes.
func ReportSyncMessageFromJSON(data []byte) (*ReportSyncMessage, error) {
	var msg ReportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
