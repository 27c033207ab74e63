package submit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/expand"
	"github.com/dalemusser/strataassign/internal/app/assign/submit"
	"github.com/dalemusser/strataassign/internal/domain/models"
	"github.com/dalemusser/strataassign/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(n int) []models.AssignmentRecord {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.AssignmentRecord, n)
	for i := range out {
		out[i] = models.AssignmentRecord{CourseID: "c1", StudentID: "u1", Title: "Algebra", DueDate: due, Priority: models.PriorityMedium}
	}
	return out
}

type messageErr struct{ msg string }

func (e messageErr) Error() string               { return "status 409" }
func (e messageErr) CollaboratorMessage() string { return e.msg }

func TestSubmit_BatchSuccess(t *testing.T) {
	w := testutil.NewFakeWriter()
	c := submit.New(w, nil)

	out, err := c.Submit(context.Background(), expand.PerStudent, records(3))
	require.NoError(t, err)
	assert.Equal(t, 3, out.Created)
	require.Len(t, w.Batches, 1)
	assert.Len(t, w.Batches[0], 3)
	assert.Empty(t, w.Singles)
}

func TestSubmit_GroupUsesSingleCreate(t *testing.T) {
	w := testutil.NewFakeWriter()
	c := submit.New(w, nil)

	out, err := c.Submit(context.Background(), expand.Group, records(1))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Created)
	assert.Len(t, w.Singles, 1)
	assert.Empty(t, w.Batches)
}

func TestSubmit_EmptyMakesNoCall(t *testing.T) {
	w := testutil.NewFakeWriter()
	c := submit.New(w, nil)

	_, err := c.Submit(context.Background(), expand.PerStudent, nil)
	assert.ErrorIs(t, err, expand.ErrNothingToCreate)
	assert.Zero(t, w.Calls())
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name  string
		reply models.CreateReply
		err   error
		want  string
	}{
		{"rejected with message", models.CreateReply{Error: "Due date is after term end"}, nil, "Due date is after term end"},
		{"rejected without message", models.CreateReply{}, nil, submit.GenericFailure},
		{"transport error", models.CreateReply{}, errors.New("connection refused"), submit.GenericFailure},
		{"status with message", models.CreateReply{}, messageErr{"Course archived"}, "Course archived"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.NewFakeWriter()
			w.Reply = tt.reply
			w.Err = tt.err
			c := submit.New(w, nil)

			_, err := c.Submit(context.Background(), expand.PerStudent, records(2))
			var serr *submit.Error
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Equal(t, tt.want, serr.Message)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
