// Package txn runs a unit of MongoDB work in a transaction when the
// deployment supports one, and directly otherwise (standalone servers).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server codes for "transactions are not available here".
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation
	51:  true,
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err means the server cannot run
// transactions (typically a standalone mongod).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}
	s := strings.ToLower(err.Error())
	has := func(words ...string) bool {
		for _, w := range words {
			if !strings.Contains(s, w) {
				return false
			}
		}
		return true
	}
	return has("transaction", "replica set") ||
		has("session", "not supported") ||
		has("transaction", "session") ||
		has("illegal operation")
}

// Run executes fn inside a transaction on client. If the server does not
// support transactions, fn runs once more without one.
func Run(ctx context.Context, client *mongo.Client, logger *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if logger != nil {
			logger.Debug("transactions unavailable, running without", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}
