package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
	users  *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{Client: cli, DB: db, users: db.Collection("users")}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique email index and a TTL index on
// otp_expiry. Verification unsets otp_expiry, so only accounts that never
// confirmed their email are reclaimed by the TTL monitor.
func (s *Store) EnsureIndexes(ctx context.Context, unverifiedGrace time.Duration) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys: bson.D{{Key: "otp_expiry", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(int32(unverifiedGrace / time.Second)).
				SetName("ttl_unverified"),
		},
	})
	return err
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}

func startSpan(ctx context.Context, op string, opts ...ddtrace.StartSpanOption) (ddtrace.Span, context.Context) {
	opts = append(opts, tracer.ServiceName("mongo"), tracer.ResourceName(op))
	return tracer.StartSpanFromContext(ctx, "mongo."+op, opts...)
}

func finish(sp ddtrace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		sp.Finish(tracer.WithError(err))
		return
	}
	sp.Finish()
}
