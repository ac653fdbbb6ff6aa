// internal/repository/mongo.go
package repository

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/models"
)

// MongoProfileRepository reads candidate profiles from a collection of profile documents.
type MongoProfileRepository struct {
	collection    *mongo.Collection
	maxCandidates int
	logger        logger.Logger
}

func NewMongoProfileRepository(collection *mongo.Collection, maxCandidates int, log logger.Logger) *MongoProfileRepository {
	return &MongoProfileRepository{
		collection:    collection,
		maxCandidates: maxCandidates,
		logger:        log.WithFields(map[string]interface{}{"repository": "mongo"}),
	}
}

func (r *MongoProfileRepository) FetchProfiles(ctx context.Context, q models.ProfileQuery) ([]models.ProfessionalProfile, error) {
	opts := options.Find().SetSort(mongoSort(q.SortHint))
	if window := candidateWindow(q, r.maxCandidates); window > 0 {
		opts.SetLimit(int64(window))
	}

	cursor, err := r.collection.Find(ctx, BuildMongoFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := make([]models.ProfessionalProfile, 0)
	for cursor.Next(ctx) {
		var p models.ProfessionalProfile
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		if p.CategoryIDs == nil {
			p.CategoryIDs = []string{}
		}
		if p.AreaIDs == nil {
			p.AreaIDs = []string{}
		}
		profiles = append(profiles, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	if err := checkCandidateCap(r.logger, q, len(profiles), r.maxCandidates); err != nil {
		return nil, err
	}
	return profiles, nil
}

// BuildMongoFilter translates the pushed-down predicates. Array fields match on element equality.
func BuildMongoFilter(q models.ProfileQuery) bson.M {
	filter := bson.M{}
	if q.CategoryID != "" {
		filter["categoryIds"] = q.CategoryID
	}
	if q.AreaID != "" {
		filter["areaIds"] = q.AreaID
	}
	if q.Verified != nil {
		filter["verified"] = *q.Verified
	}
	if q.AvailableNow != nil {
		filter["active"] = *q.AvailableNow
	}
	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["minPrice"] = price
	}
	if q.MinRating != nil {
		filter["ratingAvg"] = bson.M{"$gte": *q.MinRating}
	}
	if q.ResponseTimeMax != nil {
		filter["responseTimeAvgMins"] = bson.M{"$lte": *q.ResponseTimeMax}
	}
	if q.Query != "" {
		pattern := regexp.QuoteMeta(q.Query)
		or := []bson.M{
			{"displayName": bson.M{"$regex": pattern, "$options": "i"}},
			{"companyName": bson.M{"$regex": pattern, "$options": "i"}},
		}
		if !q.NamesOnly {
			or = append(or, bson.M{"about": bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter["$or"] = or
	}
	return filter
}

func mongoSort(hint models.SortKey) bson.D {
	switch hint {
	case models.SortInsertion:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortRating:
		return bson.D{{Key: "ratingAvg", Value: -1}, {Key: "ratingCount", Value: -1}, {Key: "_id", Value: 1}}
	case models.SortPriceLowToHigh:
		return bson.D{{Key: "minPrice", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceHighToLow:
		return bson.D{{Key: "minPrice", Value: -1}, {Key: "_id", Value: 1}}
	case models.SortResponseTime:
		return bson.D{{Key: "responseTimeAvgMins", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "verified", Value: -1}, {Key: "ratingAvg", Value: -1}, {Key: "_id", Value: 1}}
	}
}
