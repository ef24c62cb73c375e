package service_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nsteele/drumanalytics/internal/mock"
	"github.com/nsteele/drumanalytics/internal/service"
	"github.com/nsteele/drumanalytics/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListObjects(t *testing.T) {
	bucket := uuid.New().String()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	mock.PutS3Object(bucket, "results/b.json", []byte("{}"), ts)
	mock.PutS3Object(bucket, "results/a.json", []byte("{}"), ts.Add(time.Hour))
	mock.PutS3Object(bucket, "uploads/take1.wav", []byte("RIFF"), ts)

	svc := service.NewS3Service(mock.NewS3Client)
	entries, err := svc.ListObjects("ap-northeast-1", bucket, "results/")
	require.NoError(t, err)
	require.Equal(t, 2, len(entries))
	assert.Equal(t, "results/a.json", entries[0].Key)
	assert.Equal(t, "results/b.json", entries[1].Key)
	assert.Equal(t, ts.Add(time.Hour), entries[0].LastModified)
	assert.Equal(t, ts, entries[1].LastModified)
}

func TestListObjectsEmptyPrefix(t *testing.T) {
	bucket := uuid.New().String()
	mock.PutS3Object(bucket, "uploads/take1.wav", []byte("RIFF"), time.Now())

	svc := service.NewS3Service(mock.NewS3Client)
	entries, err := svc.ListObjects("ap-northeast-1", bucket, "results/")
	require.NoError(t, err)
	assert.Equal(t, 0, len(entries))
}

func TestGetObjectBody(t *testing.T) {
	bucket := uuid.New().String()
	mock.PutS3Object(bucket, "results/a.json", []byte(`{"bpm":120}`), time.Now())

	svc := service.NewS3Service(mock.NewS3Client)
	raw, err := svc.GetObjectBody(models.NewS3Object("ap-northeast-1", bucket, "results/a.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"bpm":120}`, string(raw))

	_, err = svc.GetObjectBody(models.NewS3Object("ap-northeast-1", bucket, "results/missing.json"))
	assert.Error(t, err)
}

func TestDownloadToFile(t *testing.T) {
	bucket := uuid.New().String()
	mock.PutS3Object(bucket, "results/a.json", []byte(`{"bpm":120}`), time.Now())

	dir, err := ioutil.TempDir("", "drumanalytics")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	svc := service.NewS3Service(mock.NewS3Client)
	src := models.NewS3Object("ap-northeast-1", bucket, "results/a.json")
	path := filepath.Join(dir, "a.json")

	require.NoError(t, svc.DownloadToFile(src, path))
	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"bpm":120}`, string(raw))

	// Overwrites, not appends
	require.NoError(t, svc.DownloadToFile(src, path))
	raw, err = ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"bpm":120}`, string(raw))
}
