package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/itingen/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	events := internal.CreateTestItinerary()
	days := internal.Aggregate(events)

	var buf bytes.Buffer
	require.NoError(t, (&JSONLExporter{}).Export(context.Background(), days, &buf))

	var lines int
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec), scanner.Text())
		assert.NotEmpty(t, rec["day"])
		assert.NotEmpty(t, rec["event_heading"])
		lines++
	}
	assert.Equal(t, len(events), lines)
}

func TestJSONLExporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := (&JSONLExporter{}).Export(ctx, internal.Aggregate(internal.CreateTestItinerary()), &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestJSONLExporter_Extension(t *testing.T) {
	assert.Equal(t, "jsonl", (&JSONLExporter{}).Extension())
}
