package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSyncMessageRoundTrip(t *testing.T) {
	msg := NewHistoricalSyncMessage(12)

	data, err := msg.ToJSON()
	require.NoError(t, err)

	decoded, err := ReportSyncMessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, SyncHistorical, decoded.SyncType)
	assert.Equal(t, 12, decoded.Months)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestReportSyncMessageValidate(t *testing.T) {
	assert.NoError(t, NewReportSyncMessage(SyncLatest).Validate())
	assert.NoError(t, NewReportSyncMessage(SyncCurrentMonth).Validate())
	assert.NoError(t, NewReportSyncMessage(SyncAll).Validate())
	assert.NoError(t, NewHistoricalSyncMessage(6).Validate())

	assert.Error(t, NewReportSyncMessage(SyncHistorical).Validate(),
		"historical without a window is rejected")
	assert.Error(t, NewReportSyncMessage("resync-everything").Validate())

	_, err := ReportSyncMessageFromJSON([]byte("{not json"))
	assert.Error(t, err)
}
