package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File is a per-file metadata record. The storage path addresses exactly
// one blob in the object store for the lifetime of the record.
type File struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerUID    string             `bson:"owner_uid" json:"owner_uid"`
	FileName    string             `bson:"file_name" json:"file_name"`
	FileSize    int64              `bson:"file_size" json:"file_size"`
	ContentType string             `bson:"content_type" json:"content_type"`
	StoragePath string             `bson:"storage_path" json:"-"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	DownloadURL string             `bson:"download_url,omitempty" json:"download_url,omitempty"`
}
