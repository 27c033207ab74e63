package restclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/strataassign/internal/domain/models"
)

type batchRequest struct {
	Assignments []models.AssignmentRecord `json:"assignments"`
}

// CreateBatch posts {assignments: [...]} and returns the collaborator's
// {success, error} reply.
func (c *Client) CreateBatch(ctx context.Context, records []models.AssignmentRecord) (models.CreateReply, error) {
	var reply models.CreateReply
	if err := c.do(ctx, http.MethodPost, "/assignments/batch", batchRequest{Assignments: records}, &reply); err != nil {
		return models.CreateReply{}, err
	}
	return reply, nil
}

// CreateOne posts a single record. The collaborator answers with the
// created entity, which is not inspected beyond an optional success flag
// and error message; an error message without a flag is a failure.
func (c *Client) CreateOne(ctx context.Context, record models.AssignmentRecord) (models.CreateReply, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/assignments", record, &raw); err != nil {
		return models.CreateReply{}, err
	}
	var ack struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &ack) == nil {
		switch {
		case ack.Success != nil:
			return models.CreateReply{Success: *ack.Success, Error: ack.Error}, nil
		case ack.Error != "":
			return models.CreateReply{Error: ack.Error}, nil
		}
	}
	return models.CreateReply{Success: true}, nil
}
