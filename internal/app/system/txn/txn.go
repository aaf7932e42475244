// Package txn runs multi-collection writes inside a MongoDB transaction
// when the deployment supports one.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction. fn must use the ctx it is given so
// its operations join the session.
//
// Standalone servers reject transactions; in that case Run logs a warning
// and executes fn once without a transaction. A failure half-way through
// then leaves earlier writes in place.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runWithout(ctx, log, err, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return runWithout(ctx, log, err, fn)
	}
	return err
}

func runWithout(ctx context.Context, log *zap.Logger, cause error, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Warn("transactions unsupported; running writes without one", zap.Error(cause))
	}
	return fn(ctx)
}

const (
	codeNoSuchTransaction           = 251
	codeTransactionExceededLifetime = 290
)

// IsNotSupported reports whether err says the server cannot run a
// transaction (standalone mongod, unsupported command inside a transaction).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	// Aborts on a replica set are real transaction failures; retrying
	// without a transaction would drop atomicity.
	var se mongo.ServerError
	if errors.As(err, &se) {
		if se.HasErrorLabel("TransientTransactionError") ||
			se.HasErrorCode(codeNoSuchTransaction) ||
			se.HasErrorCode(codeTransactionExceededLifetime) {
			return false
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, IllegalOperation (legacy), OperationNotSupportedInTransaction
			return true
		}
	}
	s := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(s, kw) {
			hits++
		}
	}
	return hits >= 2
}
