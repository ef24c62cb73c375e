package mock

import (
	"bytes"
	"errors"
	"io/ioutil"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/nsteele/drumanalytics/internal/adaptor"
)

// NewS3Client is constructor of S3 Mock
func NewS3Client(region string) adaptor.S3Client {
	return &S3Client{
		data: mockS3ClientDataStore,
	}
}

type s3MockObject struct {
	body         []byte
	lastModified time.Time
}

// S3Client is on memory S3Client mock
type S3Client struct {
	data map[string]map[string]*s3MockObject
}

var mockS3ClientDataStore = map[string]map[string]*s3MockObject{}

// PutS3Object stores an object body with a fixed last modified time into
// the shared mock data store. Use unique bucket names per test to avoid
// interference.
func PutS3Object(bucket, key string, body []byte, lastModified time.Time) {
	bkt, ok := mockS3ClientDataStore[bucket]
	if !ok {
		bkt = map[string]*s3MockObject{}
		mockS3ClientDataStore[bucket] = bkt
	}

	bkt[key] = &s3MockObject{
		body:         body,
		lastModified: lastModified,
	}
}

// ListObjectsV2 of S3Client returns a single page of keys matching the
// prefix, in lexical order as S3 does. Continuation tokens are not
// supported.
func (x *S3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	output := &s3.ListObjectsV2Output{
		KeyCount: aws.Int64(0),
	}

	bucket, ok := x.data[aws.StringValue(input.Bucket)]
	if !ok {
		return output, nil
	}

	var keys []string
	for key := range bucket {
		if strings.HasPrefix(key, aws.StringValue(input.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		obj := bucket[key]
		output.Contents = append(output.Contents, &s3.Object{
			Key:          aws.String(key),
			LastModified: aws.Time(obj.lastModified),
			Size:         aws.Int64(int64(len(obj.body))),
		})
	}
	output.KeyCount = aws.Int64(int64(len(output.Contents)))

	return output, nil
}

// GetObject of S3Client loads []bytes from memory
func (x *S3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	bucket, ok := x.data[aws.StringValue(input.Bucket)]
	if !ok {
		return nil, errors.New(s3.ErrCodeNoSuchKey)
	}
	obj, ok := bucket[aws.StringValue(input.Key)]
	if !ok {
		return nil, errors.New(s3.ErrCodeNoSuchKey)
	}

	return &s3.GetObjectOutput{
		Body:         ioutil.NopCloser(bytes.NewReader(obj.body)),
		LastModified: aws.Time(obj.lastModified),
	}, nil
}
