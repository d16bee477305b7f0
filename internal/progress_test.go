package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Aggregating",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Rendering",
			fn: func() error {
				return errors.New("render failed")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		steps   []ProgressStep
		wantErr bool
	}{
		{
			name: "successful steps",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return nil }},
			},
			wantErr: false,
		},
		{
			name: "step with error",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return errors.New("step error") }},
			},
			wantErr: true,
		},
		{
			name:    "empty steps",
			steps:   []ProgressStep{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgressWithSteps(ctx, tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgressWithSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgressWithSteps_CancelledBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0

	steps := []ProgressStep{
		{Message: "Step 1", Fn: func() error { ran++; cancel(); return nil }},
		{Message: "Step 2", Fn: func() error { ran++; return nil }},
	}

	err := ShowProgressWithSteps(ctx, steps)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ShowProgressWithSteps() error = %v, want context.Canceled", err)
	}
	if ran != 1 {
		t.Errorf("ran %d steps, want 1", ran)
	}
}

func TestShowProgressWithSteps_LogsMessageVerbatim(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)
	SetLogLevel(LogLevelInfo)

	steps := []ProgressStep{{Message: "Trimming 22% borders", Fn: func() error { return nil }}}
	if err := ShowProgressWithSteps(context.Background(), steps); err != nil {
		t.Fatalf("ShowProgressWithSteps() error = %v", err)
	}
	if err := ShowProgress(context.Background(), "100% done", func() error { return nil }); err != nil {
		t.Fatalf("ShowProgress() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Trimming 22% borders", "100% done"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "%!") {
		t.Errorf("log output has formatting noise: %q", out)
	}
}
