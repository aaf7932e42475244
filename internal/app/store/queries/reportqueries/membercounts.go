package reportqueries

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CountMembersPerCasa returns member counts keyed by casa. An empty ids
// slice counts every casa.
func CountMembersPerCasa(ctx context.Context, db *mongo.Database, casaIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	result := make(map[primitive.ObjectID]int64)

	match := bson.M{}
	if len(casaIDs) > 0 {
		match["casa_id"] = bson.M{"$in": casaIDs}
	}
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$casa_id", "count": bson.M{"$sum": 1}}},
	}

	cur, err := db.Collection("members").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = row.Count
	}
	return result, cur.Err()
}
