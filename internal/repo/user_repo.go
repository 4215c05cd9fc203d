package repo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/algojourney/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, u *domain.User) (err error) {
	sp, ctx := startSpan(ctx, "user.insert")
	defer func() { finish(sp, err) }()

	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	res, err := s.users.InsertOne(ctx, u)
	if IsDup(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (u *domain.User, err error) {
	sp, ctx := startSpan(ctx, "user.find_by_email")
	defer func() { finish(sp, err) }()
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Store) FindUserByID(ctx context.Context, id string) (u *domain.User, err error) {
	sp, ctx := startSpan(ctx, "user.find_by_id", tracer.Tag("user_id", id))
	defer func() { finish(sp, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := s.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeletePendingUser removes an unverified account still holding otp.
// It reports false when the account moved on (verified or re-issued code).
func (s *Store) DeletePendingUser(ctx context.Context, email, otp string) (ok bool, err error) {
	sp, ctx := startSpan(ctx, "user.delete_pending")
	defer func() { finish(sp, err) }()

	res, err := s.users.DeleteOne(ctx, bson.M{"email": email, "verified": false, "otp": otp})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// MarkVerified flips a pending account to verified and clears its code in
// one conditional update, so a code is consumed at most once.
func (s *Store) MarkVerified(ctx context.Context, email, otp string) (ok bool, err error) {
	sp, ctx := startSpan(ctx, "user.mark_verified")
	defer func() { finish(sp, err) }()

	res, err := s.users.UpdateOne(ctx,
		bson.M{"email": email, "verified": false, "otp": otp},
		bson.M{
			"$set":   bson.M{"verified": true, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"otp": "", "otp_expiry": ""},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (s *Store) SetOTP(ctx context.Context, email, otp string, expiry time.Time) (ok bool, err error) {
	sp, ctx := startSpan(ctx, "user.set_otp")
	defer func() { finish(sp, err) }()

	res, err := s.users.UpdateOne(ctx,
		bson.M{"email": email, "verified": false},
		bson.M{"$set": bson.M{"otp": otp, "otp_expiry": expiry.UTC(), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *Store) DeleteExpiredUnverified(ctx context.Context, before time.Time) (n int64, err error) {
	sp, ctx := startSpan(ctx, "user.sweep_unverified")
	defer func() { finish(sp, err) }()

	res, err := s.users.DeleteMany(ctx, bson.M{
		"verified":   false,
		"otp_expiry": bson.M{"$lt": before.UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) ReplaceKanban(ctx context.Context, email string, k domain.Kanban) (err error) {
	sp, ctx := startSpan(ctx, "user.replace_kanban")
	defer func() { finish(sp, err) }()

	res, err := s.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"kanban": k.Normalize(), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTemplate replaces the code of one language, leaving the others intact.
func (s *Store) SetTemplate(ctx context.Context, id, language, code string) (err error) {
	sp, ctx := startSpan(ctx, "user.set_template", tracer.Tag("language", language))
	defer func() { finish(sp, err) }()

	return s.updateByID(ctx, id, bson.M{"$set": bson.M{
		"templates." + language: code,
		"updated_at":            time.Now().UTC(),
	}})
}

func (s *Store) SetHandle(ctx context.Context, id, handle string) (u *domain.User, err error) {
	sp, ctx := startSpan(ctx, "user.set_handle")
	defer func() { finish(sp, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var out domain.User
	err = s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"cf_handle": handle, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// EnsurePomodoro creates zeroed counter arrays of nominal length where
// missing. Positional $inc needs real arrays to land on.
func (s *Store) EnsurePomodoro(ctx context.Context, id string) (err error) {
	sp, ctx := startSpan(ctx, "user.ensure_pomodoro")
	defer func() { finish(sp, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	fields := []struct {
		path string
		n    int
	}{
		{"pomodoro.weekly", domain.WeeksPerYear},
		{"pomodoro.daily", domain.DaysPerWeek},
	}
	for _, f := range fields {
		_, err := s.users.UpdateOne(ctx,
			bson.M{"_id": oid, f.path: bson.M{"$not": bson.M{"$type": "array"}}},
			bson.M{"$set": bson.M{f.path: make([]int, f.n)}},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ResetPomodoro zeroes the selected arrays only if updated_at still equals
// last, so concurrent callers that observed the same rollover reset once.
func (s *Store) ResetPomodoro(ctx context.Context, id string, last time.Time, weekly, daily bool, now time.Time) (ok bool, err error) {
	sp, ctx := startSpan(ctx, "user.reset_pomodoro")
	defer func() { finish(sp, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}
	set := bson.M{"pomodoro.updated_at": now.UTC()}
	if weekly {
		set["pomodoro.weekly"] = make([]int, domain.WeeksPerYear)
	}
	if daily {
		set["pomodoro.daily"] = make([]int, domain.DaysPerWeek)
	}
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid, "pomodoro.updated_at": last.UTC()},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// IncPomodoro adds minutes to one weekly and one daily bucket atomically.
// pomodoro.updated_at only moves forward, so a late request stamped before
// a rollover cannot make the next request reset the arrays again.
func (s *Store) IncPomodoro(ctx context.Context, id string, week, day, minutes int, now time.Time) (err error) {
	sp, ctx := startSpan(ctx, "user.inc_pomodoro",
		tracer.Tag("week", week), tracer.Tag("day", day))
	defer func() { finish(sp, err) }()

	return s.updateByID(ctx, id, bson.M{
		"$inc": bson.M{
			"pomodoro.weekly." + strconv.Itoa(week): minutes,
			"pomodoro.daily." + strconv.Itoa(day):   minutes,
		},
		"$max": bson.M{"pomodoro.updated_at": now.UTC()},
		"$set": bson.M{"updated_at": now.UTC()},
	})
}

func (s *Store) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
