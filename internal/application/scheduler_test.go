package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awakzdev/stockfeed/internal/application"
	"github.com/awakzdev/stockfeed/internal/domain/model"
)

type mockDispatcher struct {
	triggers []model.TriggerKind
	symbols  []string
}

func (m *mockDispatcher) Dispatch(_ context.Context, trigger model.TriggerKind, symbol string) error {
	m.triggers = append(m.triggers, trigger)
	m.symbols = append(m.symbols, symbol)
	return nil
}

func TestNextFireTime(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		runAt string
		want  time.Time
	}{
		{
			name:  "later today",
			now:   time.Date(2026, 8, 31, 5, 0, 0, 0, time.UTC),
			runAt: "06:30",
			want:  time.Date(2026, 8, 31, 6, 30, 0, 0, time.UTC),
		},
		{
			name:  "already passed rolls to tomorrow",
			now:   time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC),
			runAt: "06:30",
			want:  time.Date(2026, 9, 1, 6, 30, 0, 0, time.UTC),
		},
		{
			name:  "exactly at fire time rolls to tomorrow",
			now:   time.Date(2026, 8, 31, 6, 30, 0, 0, time.UTC),
			runAt: "06:30",
			want:  time.Date(2026, 9, 1, 6, 30, 0, 0, time.UTC),
		},
		{
			name:  "month boundary",
			now:   time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC),
			runAt: "22:00",
			want:  time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := application.NextFireTime(tt.now, tt.runAt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextFireTime_Invalid(t *testing.T) {
	_, err := application.NextFireTime(time.Now(), "6:30pm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run-at time")
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	dispatcher := &mockDispatcher{}
	s := application.NewScheduler(dispatcher, "06:30")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
	assert.Empty(t, dispatcher.triggers, "no run fires before the scheduled time")
}

func TestScheduler_InvalidRunAt(t *testing.T) {
	s := application.NewScheduler(&mockDispatcher{}, "not-a-time")

	err := s.Start(context.Background())

	require.Error(t, err)
}
