package service

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/nsteele/drumanalytics/internal"
	"github.com/nsteele/drumanalytics/internal/adaptor"
	"github.com/nsteele/drumanalytics/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const s3DownloadBufferSize = 2 * 1024 * 1024 // 2MB

var logger = internal.Logger

// S3Service is accessor to S3
type S3Service struct {
	newS3 adaptor.S3ClientFactory
}

// NewS3Service is constructor of S3Service
func NewS3Service(newS3 adaptor.S3ClientFactory) *S3Service {
	return &S3Service{
		newS3: newS3,
	}
}

// ListObjects returns entries of one listing page under the prefix.
// Continuation tokens are not followed, a prefix matching nothing yields
// an empty slice and no error.
func (x *S3Service) ListObjects(region, bucket, prefix string) ([]models.ListEntry, error) {
	client := x.newS3(region)
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}

	output, err := client.ListObjectsV2(input)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to list objects: %s/%s", bucket, prefix)
	}

	var entries []models.ListEntry
	for _, obj := range output.Contents {
		entries = append(entries, models.ListEntry{
			Key:          aws.StringValue(obj.Key),
			LastModified: aws.TimeValue(obj.LastModified),
		})
	}

	logger.WithFields(logrus.Fields{
		"bucket": bucket,
		"prefix": prefix,
		"count":  len(entries),
	}).Debug("Listed objects")

	return entries, nil
}

// GetObjectBody fetches the full byte content of an object
func (x *S3Service) GetObjectBody(src models.S3Object) ([]byte, error) {
	client := x.newS3(src.Region)
	input := &s3.GetObjectInput{
		Bucket: &src.Bucket,
		Key:    &src.Key,
	}

	output, err := client.GetObject(input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			return nil, errors.Wrapf(aerr, "Fail to get an object in AWS: %s/%s", src.Bucket, src.Key)
		}
		return nil, errors.Wrapf(err, "Fail to get an object in https: %s/%s", src.Bucket, src.Key)
	}
	defer output.Body.Close()

	raw, err := ioutil.ReadAll(output.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to read an object body: %s/%s", src.Bucket, src.Key)
	}

	return raw, nil
}

// DownloadToFile writes the full object content to path, overwriting an
// existing file of the same name.
func (x *S3Service) DownloadToFile(src models.S3Object, path string) error {
	client := x.newS3(src.Region)
	input := &s3.GetObjectInput{
		Bucket: &src.Bucket,
		Key:    &src.Key,
	}

	resp, err := client.GetObject(input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			return errors.Wrapf(aerr, "Fail to get an object in AWS: %s/%s", src.Bucket, src.Key)
		}
		return errors.Wrapf(err, "Fail to get an object in https: %s/%s", src.Bucket, src.Key)
	}
	defer resp.Body.Close()

	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Fail to create a local file: %s", path)
	}
	defer fd.Close()

	buf := make([]byte, s3DownloadBufferSize)
	readBytes, writeBytes := 0, 0

	for {
		r, rErr := resp.Body.Read(buf)
		readBytes += r

		if r > 0 {
			w, wErr := fd.Write(buf[:r])
			if wErr != nil {
				return errors.Wrapf(wErr, "Fail to write a local file: %s", path)
			}
			writeBytes += w
		}

		if rErr == io.EOF {
			break
		} else if rErr != nil {
			return errors.Wrapf(rErr, "Fail to read an object from S3: %s/%s", src.Bucket, src.Key)
		}
	}

	logger.WithFields(logrus.Fields{
		"write": writeBytes, "read": readBytes,
		"fpath": path, "srckey": src.Key,
	}).Trace("Downloaded S3 object")

	return nil
}
