package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

const sessionCollection = "dashboard_sessions"

// SessionRepository is the mongo flavour of the durable session backend.
// Expired documents are reaped by a TTL index; reads filter them out too,
// since the reaper runs only about once a minute.
type SessionRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionCollection), now: time.Now}
}

type mongoSession struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// EnsureIndexes creates the TTL index on expires_at.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("create session ttl index: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, key string) ([]byte, error) {
	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": r.now()}}

	var doc mongoSession
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return doc.Value, nil
}

func (r *SessionRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := r.now()
	doc := mongoSession{
		Key:       key,
		Value:     value,
		ExpiresAt: now.Add(ttl),
		UpdatedAt: now,
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
