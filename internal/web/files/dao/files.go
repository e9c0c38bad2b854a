package dao

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/datagate/internal/web/files/model"
	"github.com/Laisky/datagate/library/db/mongo"
)

const colFiles = "files"

// Files db
type Files struct {
	db mongo.DB
}

func NewFiles(db mongo.DB) *Files {
	return &Files{db: db}
}

func (d *Files) GetFilesCol() *mongoLib.Collection {
	return d.db.GetCol(colFiles)
}

// listings are newest first, a guaranteed contract
var sortNewestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// Create inserts the record and returns its generated id.
func (d *Files) Create(ctx context.Context, file *model.File) (string, error) {
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	if _, err := d.GetFilesCol().InsertOne(ctx, file); err != nil {
		return "", errors.Wrapf(err, "insert file record `%s`", file.FileName)
	}

	return file.ID.Hex(), nil
}

// Get loads one file record by id.
func (d *Files) Get(ctx context.Context, id string) (*model.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.NewError(model.ErrCodeNotFound, "file `%s` not found", id)
	}

	file := new(model.File)
	if err := d.GetFilesCol().
		FindOne(ctx, bson.M{"_id": oid}).
		Decode(file); err != nil {
		if mongo.NotFound(err) {
			return nil, model.NewError(model.ErrCodeNotFound, "file `%s` not found", id)
		}

		return nil, errors.Wrapf(err, "get file `%s`", id)
	}

	return file, nil
}

// Delete removes the record; a missing id is NotFound and mutates nothing.
func (d *Files) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.NewError(model.ErrCodeNotFound, "file `%s` not found", id)
	}

	res, err := d.GetFilesCol().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrapf(err, "delete file record `%s`", id)
	}
	if res.DeletedCount == 0 {
		return model.NewError(model.ErrCodeNotFound, "file `%s` not found", id)
	}

	return nil
}

// ListByOwner returns the owner's file records, newest first.
func (d *Files) ListByOwner(ctx context.Context, ownerUID string) ([]*model.File, error) {
	return d.list(ctx, bson.M{"owner_uid": ownerUID})
}

// ListAll returns every file record, newest first.
func (d *Files) ListAll(ctx context.Context) ([]*model.File, error) {
	return d.list(ctx, bson.M{})
}

func (d *Files) list(ctx context.Context, query bson.M) (files []*model.File, err error) {
	cur, err := d.GetFilesCol().Find(ctx, query, sortNewestFirst)
	if err != nil {
		return nil, errors.Wrap(err, "find files")
	}

	files = []*model.File{}
	if err = cur.All(ctx, &files); err != nil {
		return nil, errors.Wrap(err, "load files")
	}

	return files, nil
}

// CountByOwner recounts the owner's records from the source of truth.
func (d *Files) CountByOwner(ctx context.Context, ownerUID string) (int64, error) {
	cnt, err := d.GetFilesCol().CountDocuments(ctx, bson.M{"owner_uid": ownerUID})
	if err != nil {
		return 0, errors.Wrapf(err, "count files of `%s`", ownerUID)
	}

	return cnt, nil
}

// SetDownloadURL refreshes the cached signed URL on the record.
func (d *Files) SetDownloadURL(ctx context.Context, id, url string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.NewError(model.ErrCodeNotFound, "file `%s` not found", id)
	}

	if _, err := d.GetFilesCol().
		UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"download_url": url}},
		); err != nil {
		return errors.Wrapf(err, "set download url of `%s`", id)
	}

	return nil
}
