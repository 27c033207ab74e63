// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataassign/internal/app/system/txn"
	"github.com/dalemusser/strataassign/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Reply messages for rejected writes.
const (
	MsgDuplicate = "An assignment for this content, student and due date already exists"
	MsgInvalid   = "Assignment has no content or no target"
)

var errInvalid = errors.New("invalid assignment record")

// Store persists assignment records. It implements submit.Writer for
// deployments where assignments live in the service's own database.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{c: db.Collection("assignments"), log: logger}
}

func toDocs(records []models.AssignmentRecord, batchID string, now time.Time) ([]interface{}, error) {
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		a := models.NewAssignment(r)
		if a.ContentID == "" || a.TargetKind == "" {
			return nil, errInvalid
		}
		a.ID = primitive.NewObjectID()
		a.BatchID = batchID
		a.CreatedAt = now
		docs = append(docs, a)
	}
	return docs, nil
}

// CreateBatch stores every record under one batch id, all or nothing when
// the server supports transactions.
func (s *Store) CreateBatch(ctx context.Context, records []models.AssignmentRecord) (models.CreateReply, error) {
	docs, err := toDocs(records, uuid.NewString(), time.Now().UTC())
	if err != nil {
		return models.CreateReply{Error: MsgInvalid}, nil
	}

	err = txn.Run(ctx, s.c.Database().Client(), s.log, func(ctx context.Context) error {
		_, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
		return err
	})
	return s.reply(err, len(docs))
}

// CreateOne stores a single record.
func (s *Store) CreateOne(ctx context.Context, record models.AssignmentRecord) (models.CreateReply, error) {
	docs, err := toDocs([]models.AssignmentRecord{record}, "", time.Now().UTC())
	if err != nil {
		return models.CreateReply{Error: MsgInvalid}, nil
	}
	_, err = s.c.InsertOne(ctx, docs[0])
	return s.reply(err, 1)
}

func (s *Store) reply(err error, n int) (models.CreateReply, error) {
	switch {
	case err == nil:
		return models.CreateReply{Success: true}, nil
	case wafflemongo.IsDup(err):
		s.log.Warn("duplicate assignment rejected", zap.Int("records", n), zap.Error(err))
		return models.CreateReply{Error: MsgDuplicate}, nil
	}
	return models.CreateReply{}, err
}

// ListByBatch returns the assignments created together by one CreateBatch.
func (s *Store) ListByBatch(ctx context.Context, batchID string) ([]models.Assignment, error) {
	cur, err := s.c.Find(ctx, bson.M{"batch_id": batchID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByStudent returns a student's per-student assignments by due date.
func (s *Store) ListByStudent(ctx context.Context, studentID string) ([]models.Assignment, error) {
	cur, err := s.c.Find(ctx, bson.M{"student_id": studentID}, options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns how many assignments are stored.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
