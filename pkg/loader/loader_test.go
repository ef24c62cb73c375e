package loader_test

import (
	"encoding/csv"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nsteele/drumanalytics/internal/mock"
	"github.com/nsteele/drumanalytics/internal/service"
	"github.com/nsteele/drumanalytics/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTable(t *testing.T, path string) [][]string {
	fd, err := os.Open(path)
	require.NoError(t, err)
	defer fd.Close()

	rows, err := csv.NewReader(fd).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestLoad(t *testing.T) {
	bucket := uuid.New().String()
	tsA := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tsB := tsA.Add(time.Hour)
	mock.PutS3Object(bucket, "results/", []byte{}, tsA)
	mock.PutS3Object(bucket, "results/a.json", []byte(`{"bpm":120}`), tsA)
	mock.PutS3Object(bucket, "results/b.json", []byte(`{"bpm":95,"genre":"rock"}`), tsB)
	mock.PutS3Object(bucket, "results/take1.wav", []byte("RIFF"), tsA)

	dir, err := ioutil.TempDir("", "drumanalytics")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	outFile := filepath.Join(dir, "analysis.csv")

	cfg := loader.Config{
		Bucket:     bucket,
		Prefix:     "results/",
		OutputFile: outFile,
	}
	svc := service.NewS3Service(mock.NewS3Client)
	require.NoError(t, loader.Load(cfg, svc))

	rows := loadTable(t, outFile)
	require.Equal(t, 3, len(rows))
	assert.Equal(t, []string{"bpm", "genre", "s3_key", "analysis_timestamp"}, rows[0])
	assert.Equal(t, []string{"120", "", "results/a.json", "2024-03-01T12:30:00Z"}, rows[1])
	assert.Equal(t, []string{"95", "rock", "results/b.json", "2024-03-01T13:30:00Z"}, rows[2])

	// One row per qualifying object, s3_key unique
	keys := map[string]bool{}
	for _, row := range rows[1:] {
		assert.False(t, keys[row[2]])
		keys[row[2]] = true
	}
}

func TestLoadIdempotent(t *testing.T) {
	bucket := uuid.New().String()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	mock.PutS3Object(bucket, "results/a.json", []byte(`{"bpm":120}`), ts)

	dir, err := ioutil.TempDir("", "drumanalytics")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	outFile := filepath.Join(dir, "analysis.csv")

	cfg := loader.Config{
		Bucket:     bucket,
		Prefix:     "results/",
		OutputFile: outFile,
	}
	svc := service.NewS3Service(mock.NewS3Client)

	require.NoError(t, loader.Load(cfg, svc))
	first := loadTable(t, outFile)

	require.NoError(t, loader.Load(cfg, svc))
	second := loadTable(t, outFile)

	assert.Equal(t, first, second)
}

func TestLoadInjectedFieldsOverwrite(t *testing.T) {
	bucket := uuid.New().String()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	mock.PutS3Object(bucket, "results/a.json", []byte(`{"s3_key":"bogus","analysis_timestamp":"bogus","bpm":1}`), ts)

	dir, err := ioutil.TempDir("", "drumanalytics")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	outFile := filepath.Join(dir, "analysis.csv")

	cfg := loader.Config{
		Bucket:     bucket,
		Prefix:     "results/",
		OutputFile: outFile,
	}
	svc := service.NewS3Service(mock.NewS3Client)
	require.NoError(t, loader.Load(cfg, svc))

	rows := loadTable(t, outFile)
	require.Equal(t, 2, len(rows))
	assert.Equal(t, []string{"bpm", "s3_key", "analysis_timestamp"}, rows[0])
	assert.Equal(t, "results/a.json", rows[1][1])
	assert.Equal(t, "2024-03-01T12:30:00Z", rows[1][2])
}

func TestLoadNoMatch(t *testing.T) {
	bucket := uuid.New().String()
	mock.PutS3Object(bucket, "results/", []byte{}, time.Now())
	mock.PutS3Object(bucket, "results/take1.wav", []byte("RIFF"), time.Now())

	dir, err := ioutil.TempDir("", "drumanalytics")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	outFile := filepath.Join(dir, "analysis.csv")

	cfg := loader.Config{
		Bucket:     bucket,
		Prefix:     "results/",
		OutputFile: outFile,
	}
	svc := service.NewS3Service(mock.NewS3Client)
	require.NoError(t, loader.Load(cfg, svc))

	_, err = os.Stat(outFile)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadBrokenJSON(t *testing.T) {
	bucket := uuid.New().String()
	mock.PutS3Object(bucket, "results/a.json", []byte(`{broken`), time.Now())

	dir, err := ioutil.TempDir("", "drumanalytics")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cfg := loader.Config{
		Bucket:     bucket,
		Prefix:     "results/",
		OutputFile: filepath.Join(dir, "analysis.csv"),
	}
	svc := service.NewS3Service(mock.NewS3Client)
	assert.Error(t, loader.Load(cfg, svc))
}
