package entity

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/listing-service/pkg/utils"
)

// PhotoRef ties a photo source URL to its derived blob storage key.
// Created when a record enters the photo fan-out stage, discarded once the
// upload attempt completes; only the key survives on the record.
type PhotoRef struct {
	SourceURL string
	Key       string
}

// NewPhotoRef derives the storage key {record-id}/{original-filename}.
func NewPhotoRef(id primitive.ObjectID, sourceURL string) PhotoRef {
	return PhotoRef{
		SourceURL: sourceURL,
		Key:       fmt.Sprintf("%s/%s", id.Hex(), utils.FilenameFromURL(sourceURL)),
	}
}
