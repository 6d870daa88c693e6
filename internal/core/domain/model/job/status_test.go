package job_test

import (
	"testing"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	for _, status := range job.Statuses() {
		require.NoError(t, status.Validate(), status.String())
	}

	require.ErrorIs(t, job.Unknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, job.Status(42).Validate(), errs.ErrValueIsInvalid)
	assert.Equal(t, "Unknown", job.Status(42).String())
}

func TestParseStatus(t *testing.T) {
	t.Run("should parse names case-insensitively", func(t *testing.T) {
		status, err := job.ParseStatus("inprogress")

		require.NoError(t, err)
		assert.Equal(t, job.InProgress, status)
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, name := range []string{"", "Unknown", "done"} {
			_, err := job.ParseStatus(name)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, name)
		}
	})
}

func TestStatus_Transitions(t *testing.T) {
	type step func(job.Status) (job.Status, error)

	tests := []struct {
		name    string
		from    job.Status
		step    step
		want    job.Status
		wantErr bool
	}{
		{"accept pending", job.Pending, job.Status.Accept, job.Accepted, false},
		{"accept accepted", job.Accepted, job.Status.Accept, job.Unknown, true},
		{"accept cancelled", job.Cancelled, job.Status.Accept, job.Unknown, true},
		{"start accepted", job.Accepted, job.Status.Start, job.InProgress, false},
		{"start pending", job.Pending, job.Status.Start, job.Unknown, true},
		{"complete in progress", job.InProgress, job.Status.Complete, job.Completed, false},
		{"complete accepted", job.Accepted, job.Status.Complete, job.Unknown, true},
		{"complete completed", job.Completed, job.Status.Complete, job.Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.step(tt.from)

			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidState)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_Cancel(t *testing.T) {
	tests := []struct {
		from            job.Status
		allowInProgress bool
		wantErr         bool
	}{
		{job.Pending, false, false},
		{job.Accepted, false, false},
		{job.InProgress, false, true},
		{job.InProgress, true, false},
		{job.Completed, true, true},
		{job.Cancelled, true, true},
	}

	for _, tt := range tests {
		got, err := tt.from.Cancel(tt.allowInProgress)

		if tt.wantErr {
			require.ErrorIs(t, err, errs.ErrInvalidState, tt.from.String())
			continue
		}
		require.NoError(t, err, tt.from.String())
		assert.Equal(t, job.Cancelled, got)
	}
}

func TestStatus_ValidateCanHaveCollector(t *testing.T) {
	withCollector := map[job.Status]bool{
		job.Pending:    false,
		job.Accepted:   true,
		job.InProgress: true,
		job.Completed:  true,
		job.Cancelled:  false,
	}

	for status, required := range withCollector {
		require.NoError(t, status.ValidateCanHaveCollector(required), status.String())
		require.ErrorIs(t, status.ValidateCanHaveCollector(!required), errs.ErrValueIsInvalid, status.String())
	}
}

func TestStatus_Flags(t *testing.T) {
	assert.True(t, job.Completed.IsTerminal())
	assert.True(t, job.Cancelled.IsTerminal())
	assert.False(t, job.InProgress.IsTerminal())
	assert.True(t, job.Accepted.IsActive())
	assert.True(t, job.InProgress.IsActive())
	assert.False(t, job.Pending.IsActive())
}
