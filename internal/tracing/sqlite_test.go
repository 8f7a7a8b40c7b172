package tracing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trace.sqlite3")

	tr, err := OpenSQLite(path)
	require.NoError(t, err, "opening trace database should succeed")

	t.Cleanup(func() { tr.Close() })

	return tr
}

func TestSQLiteRecordsAndFlushesCommands(t *testing.T) {
	tr := openTestSQLite(t)

	tr.RecordCommand(CommandEntry{AtNanos: 1, CommandID: 0, ClientID: 5, CorrelationID: 100, ChannelURI: "aeron:udp?endpoint=localhost:4000"})
	tr.Flush()

	var channelURI string
	row := tr.db.QueryRow("SELECT ChannelURI FROM commands WHERE ClientID = 5")
	require.NoError(t, row.Scan(&channelURI))
	assert.Equal(t, "aeron:udp?endpoint=localhost:4000", channelURI)
}

func TestSQLiteRecordsAndFlushesEvents(t *testing.T) {
	tr := openTestSQLite(t)

	tr.RecordEvent(EventEntry{AtNanos: 2, EventID: 3, ClientID: 9, CorrelationID: 7, ErrorCode: 1, Message: "boom"})
	tr.Flush()

	var msg string
	row := tr.db.QueryRow("SELECT Message FROM events WHERE ClientID = 9")
	require.NoError(t, row.Scan(&msg))
	assert.Equal(t, "boom", msg)
}

func TestSQLiteFlushIsNoOpWhenEmpty(t *testing.T) {
	tr := openTestSQLite(t)

	tr.Flush() // should not panic or open a transaction against nothing
}

func TestNullTracerDiscardsEverything(t *testing.T) {
	var n Null
	n.RecordCommand(CommandEntry{})
	n.RecordEvent(EventEntry{})
	n.Flush()
	assert.NoError(t, n.Close())
}
