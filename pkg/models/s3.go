package models

import (
	"strings"
	"time"
)

// S3Object points a single object in a bucket
type S3Object struct {
	Region string `json:"region"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// NewS3Object is constructor of S3Object
func NewS3Object(region, bucket, key string) S3Object {
	return S3Object{
		Region: region,
		Bucket: bucket,
		Key:    key,
	}
}

// ListEntry is one entry of a bucket listing page
type ListEntry struct {
	Key          string
	LastModified time.Time
}

// IsFolderMarker returns true for zero-length keys some tools create to
// simulate directories in the flat key space.
func (x *ListEntry) IsFolderMarker() bool {
	return strings.HasSuffix(x.Key, "/")
}

// IsJSON returns true when the key points an analysis result document
func (x *ListEntry) IsJSON() bool {
	return strings.HasSuffix(x.Key, ".json")
}

// Basename returns the final path segment of the key
func (x *ListEntry) Basename() string {
	parts := strings.Split(x.Key, "/")
	return parts[len(parts)-1]
}
