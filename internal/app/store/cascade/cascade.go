// Package cascade removes a casa or a member together with the rows that
// hang off it. Callers wrap these in txn.Run so the removal is all or
// nothing where the deployment allows it.
package cascade

import (
	"context"
	"errors"

	attendancestore "github.com/dalemusser/casadefe/internal/app/store/attendance"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	contentstore "github.com/dalemusser/casadefe/internal/app/store/content"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	reportstore "github.com/dalemusser/casadefe/internal/app/store/reports"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DeleteCasa removes attendance, members, reports, testimonies and prayer
// requests of casaID, then the casa itself. Returns casastore.ErrNotFound
// when the casa was already gone.
func DeleteCasa(ctx context.Context, db *mongo.Database, casaID primitive.ObjectID) error {
	if _, err := attendancestore.New(db).DeleteByCasa(ctx, casaID); err != nil {
		return err
	}
	if _, err := memberstore.New(db).DeleteByCasa(ctx, casaID); err != nil {
		return err
	}
	if _, err := reportstore.New(db).DeleteByCasa(ctx, casaID); err != nil {
		return err
	}
	if err := contentstore.New(db).DeleteByCasa(ctx, casaID); err != nil {
		return err
	}
	n, err := casastore.New(db).Delete(ctx, casaID)
	if err != nil {
		return err
	}
	if n == 0 {
		return casastore.ErrNotFound
	}
	return nil
}

// DeleteMember removes the member's attendance, then the member.
func DeleteMember(ctx context.Context, db *mongo.Database, memberID primitive.ObjectID) error {
	ids := []primitive.ObjectID{memberID}
	if _, err := attendancestore.New(db).DeleteByMembers(ctx, ids); err != nil {
		return err
	}
	n, err := memberstore.New(db).Delete(ctx, memberID)
	if err != nil {
		return err
	}
	if n == 0 {
		return memberstore.ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err is a not-found from either store.
func IsNotFound(err error) bool {
	return errors.Is(err, casastore.ErrNotFound) || errors.Is(err, memberstore.ErrNotFound)
}
