package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testReport() *Report {
	return &Report{
		Name:         "crx-1",
		Dataset:      "crx.data",
		Label:        "class",
		TrainSamples: 414,
		TestSamples:  276,
		Nodes:        7,
		Depth:        3,
		Accuracy:     0.85,
		Duration:     1500 * time.Millisecond,
	}
}

func TestFields(t *testing.T) {
	fields := testReport().Fields()
	require.Equal(t, "414", fields["train_samples"])
	require.Equal(t, "0.85", fields["accuracy"])
	require.Equal(t, "1.5s", fields["duration"])
	require.Len(t, fields, 9)
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	lr := NewLogReporter(zerolog.New(&buf))
	require.NoError(t, lr.Report(context.Background(), testReport()))
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	require.Equal(t, "info", event["level"])
	require.Equal(t, "class", event["label"])
	require.Equal(t, 7.0, event["nodes"])
	require.Equal(t, 0.85, event["accuracy"])
}

func TestMulti(t *testing.T) {
	var calls []string
	record := func(name string, err error) Reporter {
		return ReporterFunc(func(context.Context, *Report) error {
			calls = append(calls, name)
			return err
		})
	}
	boom := errors.New("boom")
	err := Multi(record("a", nil), record("b", boom), record("c", nil)).Report(context.Background(), testReport())
	require.Equal(t, boom, err)
	require.Equal(t, []string{"a", "b"}, calls)
}
