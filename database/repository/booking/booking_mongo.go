package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meetwise/config"
	"meetwise/database"
	"meetwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoBookingRepo) Insert(ctx context.Context, rec *models.BookingRequest) error {
	ctx, cancel := newContext(ctx, queryTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByToken(ctx context.Context, token string) (*models.BookingRequest, error) {
	ctx, cancel := newContext(ctx, queryTimeout)
	defer cancel()

	var rec models.BookingRequest
	err := r.coll.FindOne(ctx, bson.M{"approval_token": token}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &rec, nil
}

// Approve performs the conditional pending -> approved transition. The filter
// carries the status precondition, so the flip, the approvedAt stamp, and the
// event ID land atomically or not at all.
func (r *MongoBookingRepo) Approve(ctx context.Context, token, calendarEventID string, approvedAt time.Time) (*models.BookingRequest, error) {
	ctx, cancel := newContext(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"approval_token": token,
		"status":         models.StatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":            models.StatusApproved,
			"approved_at":       approvedAt,
			"calendar_event_id": calendarEventID,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec models.BookingRequest
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// No pending record matched: either the token is unknown or another
		// caller won the transition.
		if _, getErr := r.GetByToken(ctx, token); getErr != nil {
			if errors.Is(getErr, ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, getErr
		}
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to approve booking: %w", err)
	}
	return &rec, nil
}

// Decline performs the conditional pending -> declined transition.
func (r *MongoBookingRepo) Decline(ctx context.Context, token string) (bool, error) {
	ctx, cancel := newContext(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"approval_token": token,
		"status":         models.StatusPending,
	}
	update := bson.M{"$set": bson.M{"status": models.StatusDeclined}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to decline booking: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoBookingRepo) List(ctx context.Context, status string, limit int64) ([]models.BookingRequest, error) {
	ctx, cancel := newContext(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var recs []models.BookingRequest
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return recs, nil
}
