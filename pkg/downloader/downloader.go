package downloader

import (
	"os"
	"path/filepath"

	"github.com/nsteele/drumanalytics/internal"
	"github.com/nsteele/drumanalytics/internal/service"
	"github.com/nsteele/drumanalytics/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// Defaults of the download job parameters
const (
	DefaultRegion    = "us-east-1"
	DefaultBucket    = "drumanalytics-uploads-nsteele"
	DefaultPrefix    = "results/"
	DefaultOutputDir = "downloaded_results"
)

// Config has parameters of the download job. An empty field falls back
// to its default.
type Config struct {
	Region    string
	Bucket    string
	Prefix    string
	OutputDir string
}

func (x *Config) fillDefaults() {
	if x.Region == "" {
		x.Region = DefaultRegion
	}
	if x.Bucket == "" {
		x.Bucket = DefaultBucket
	}
	if x.Prefix == "" {
		x.Prefix = DefaultPrefix
	}
	if x.OutputDir == "" {
		x.OutputDir = DefaultOutputDir
	}
}

// Download lists objects under the prefix and writes each non-folder
// object to OutputDir, named by the final segment of its key. Existing
// files are overwritten. One listing page only, any transport failure
// aborts the job.
func Download(cfg Config, svc *service.S3Service) error {
	cfg.fillDefaults()

	logger.WithFields(logrus.Fields{
		"bucket": cfg.Bucket,
		"prefix": cfg.Prefix,
	}).Info("Fetching list of analysis files from S3")

	entries, err := svc.ListObjects(cfg.Region, cfg.Bucket, cfg.Prefix)
	if err != nil {
		return err
	}

	var targets []models.ListEntry
	for _, entry := range entries {
		if entry.IsFolderMarker() {
			continue
		}
		targets = append(targets, entry)
	}

	if len(targets) == 0 {
		logger.Info("No analysis files found")
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return errors.Wrapf(err, "Fail to create output directory: %s", cfg.OutputDir)
	}

	for _, entry := range targets {
		localPath := filepath.Join(cfg.OutputDir, entry.Basename())

		logger.WithFields(logrus.Fields{
			"key": entry.Key,
			"dst": localPath,
		}).Info("Downloading")

		src := models.NewS3Object(cfg.Region, cfg.Bucket, entry.Key)
		if err := svc.DownloadToFile(src, localPath); err != nil {
			return err
		}
	}

	logger.WithField("count", len(targets)).Info("All analysis files downloaded")
	return nil
}
