// Package submit sends expanded assignment records to the persistence
// collaborator and reports one outcome for the whole batch.
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/strataassign/internal/app/assign/expand"
	"github.com/dalemusser/strataassign/internal/domain/models"
	"go.uber.org/zap"
)

// GenericFailure is shown when the collaborator gives no message.
const GenericFailure = "Failed to create assignments"

// Writer is the persistence collaborator's write contract.
type Writer interface {
	// CreateBatch stores every record or reports why it did not.
	CreateBatch(ctx context.Context, records []models.AssignmentRecord) (models.CreateReply, error)
	// CreateOne stores a single group-target record.
	CreateOne(ctx context.Context, record models.AssignmentRecord) (models.CreateReply, error)
}

// Error is a failed submission. Message is safe to show the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit: %s: %v", e.Message, e.Err)
	}
	return "submit: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// errRejected marks a reply with success=false.
var errRejected = errors.New("collaborator rejected the request")

// Outcome is a successful submission.
type Outcome struct {
	Created int `json:"created"`
}

// Coordinator submits batches through a Writer.
type Coordinator struct {
	w   Writer
	log *zap.Logger
}

// New returns a coordinator writing through w.
func New(w Writer, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{w: w, log: logger}
}

// Submit sends records as one unit. Group mode records go through
// CreateOne; per-student batches through CreateBatch. Any failure fails
// the whole batch. An empty batch is refused without a call.
func (c *Coordinator) Submit(ctx context.Context, mode expand.Mode, records []models.AssignmentRecord) (Outcome, error) {
	if len(records) == 0 {
		return Outcome{}, expand.ErrNothingToCreate
	}

	var (
		reply models.CreateReply
		err   error
	)
	if mode == expand.Group && len(records) == 1 {
		reply, err = c.w.CreateOne(ctx, records[0])
	} else {
		reply, err = c.w.CreateBatch(ctx, records)
	}

	switch {
	case err != nil:
		c.log.Error("assignment write failed",
			zap.String("mode", string(mode)),
			zap.Int("records", len(records)),
			zap.Error(err))
		return Outcome{}, &Error{Message: messageOf(err), Err: err}
	case !reply.Success:
		msg := reply.Error
		if msg == "" {
			msg = GenericFailure
		}
		c.log.Error("assignment write rejected",
			zap.String("mode", string(mode)),
			zap.Int("records", len(records)),
			zap.String("collaborator_error", reply.Error))
		return Outcome{}, &Error{Message: msg, Err: errRejected}
	}
	return Outcome{Created: len(records)}, nil
}

// Messager is implemented by transport errors that carry the
// collaborator's own error message.
type Messager interface {
	CollaboratorMessage() string
}

func messageOf(err error) string {
	var m Messager
	if errors.As(err, &m) && m.CollaboratorMessage() != "" {
		return m.CollaboratorMessage()
	}
	return GenericFailure
}
