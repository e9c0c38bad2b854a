package dao

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/datagate/internal/web/files/model"
	"github.com/Laisky/datagate/library/db/mongo"
)

const colUsers = "users"

// Users db
type Users struct {
	db mongo.DB
}

func NewUsers(db mongo.DB) *Users {
	return &Users{db: db}
}

func (d *Users) GetUsersCol() *mongoLib.Collection {
	return d.db.GetCol(colUsers)
}

// Get loads the user record for the given uid.
func (d *Users) Get(ctx context.Context, uid string) (*model.User, error) {
	user := new(model.User)
	if err := d.GetUsersCol().
		FindOne(ctx, bson.M{"uid": uid}).
		Decode(user); err != nil {
		if mongo.NotFound(err) {
			return nil, model.NewError(model.ErrCodeNotFound, "user `%s` not found", uid)
		}

		return nil, errors.Wrapf(err, "get user `%s`", uid)
	}

	return user, nil
}

// IncrFileCount adjusts the denormalized counter server-side. It is an
// atomic $inc, never read-modify-write, so concurrent uploads and deletes
// from the same user cannot lose updates.
func (d *Users) IncrFileCount(ctx context.Context, uid string, delta int64) error {
	res, err := d.GetUsersCol().
		UpdateOne(ctx,
			bson.M{"uid": uid},
			bson.M{"$inc": bson.M{"file_count": delta}},
		)
	if err != nil {
		return errors.Wrapf(err, "incr file count of `%s`", uid)
	}
	if res.MatchedCount == 0 {
		return model.NewError(model.ErrCodeNotFound, "user `%s` not found", uid)
	}

	return nil
}

// SetFileCount overwrites the counter, used only by the reconcile repair.
func (d *Users) SetFileCount(ctx context.Context, uid string, count int64) error {
	return d.setField(ctx, uid, "file_count", count)
}

// SetFileLimit updates the file count ceiling, last-writer-wins.
func (d *Users) SetFileLimit(ctx context.Context, uid string, limit int64) error {
	return d.setField(ctx, uid, "file_limit", limit)
}

// SetMaxFileSize updates the single-file byte ceiling, last-writer-wins.
func (d *Users) SetMaxFileSize(ctx context.Context, uid string, size int64) error {
	return d.setField(ctx, uid, "max_file_size", size)
}

// SetRole updates the role, last-writer-wins.
func (d *Users) SetRole(ctx context.Context, uid string, role model.Role) error {
	return d.setField(ctx, uid, "user_type", role)
}

func (d *Users) setField(ctx context.Context, uid, field string, value any) error {
	res, err := d.GetUsersCol().
		UpdateOne(ctx,
			bson.M{"uid": uid},
			bson.M{"$set": bson.M{field: value}},
		)
	if err != nil {
		return errors.Wrapf(err, "set %s of `%s`", field, uid)
	}
	if res.MatchedCount == 0 {
		return model.NewError(model.ErrCodeNotFound, "user `%s` not found", uid)
	}

	return nil
}

// List returns all user records for administrative enumeration.
func (d *Users) List(ctx context.Context) (users []*model.User, err error) {
	cur, err := d.GetUsersCol().Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}

	users = []*model.User{}
	if err = cur.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "load users")
	}

	return users, nil
}
