package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/nsteele/drumanalytics/internal"
	"github.com/nsteele/drumanalytics/internal/service"
	"github.com/nsteele/drumanalytics/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// Defaults of the load job parameters
const (
	DefaultRegion     = "us-east-1"
	DefaultBucket     = "drumanalytics-uploads-nsteele"
	DefaultPrefix     = "results/"
	DefaultOutputFile = "all_drum_analysis.csv"
)

const previewRows = 5

// Config has parameters of the load job. An empty field falls back to
// its default.
type Config struct {
	Region     string
	Bucket     string
	Prefix     string
	OutputFile string
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
	if x.OutputFile == "" {
		x.OutputFile = DefaultOutputFile
	}
}

// Load fetches every .json object under the prefix, parses each body and
// annotates it with its source key and last modified time, then builds
// the result table, prints a preview and writes the table to OutputFile.
// A malformed body aborts the whole job, there is no per-record skip.
func Load(cfg Config, svc *service.S3Service) error {
	cfg.fillDefaults()

	logger.WithFields(logrus.Fields{
		"bucket": cfg.Bucket,
		"prefix": cfg.Prefix,
	}).Info("Fetching analysis files from S3")

	entries, err := svc.ListObjects(cfg.Region, cfg.Bucket, cfg.Prefix)
	if err != nil {
		return err
	}

	var records []models.AnalysisRecord
	for _, entry := range entries {
		if !entry.IsJSON() {
			continue
		}

		logger.WithField("key", entry.Key).Info("Loading")

		raw, err := svc.GetObjectBody(models.NewS3Object(cfg.Region, cfg.Bucket, entry.Key))
		if err != nil {
			return err
		}

		rec, err := models.NewAnalysisRecord(raw)
		if err != nil {
			return errors.Wrapf(err, "Fail to parse analysis record: %s", entry.Key)
		}

		rec.Annotate(entry)
		records = append(records, rec)
	}

	if len(records) == 0 {
		logger.Info("No analysis files found")
		return nil
	}

	table := models.NewResultTable(records)

	logger.WithField("rows", table.NumRows()).Info("Loaded analysis data")

	pp.Println(table.Head(previewRows))
	fmt.Printf("Columns: %s\n", strings.Join(table.Columns, ", "))

	fd, err := os.Create(cfg.OutputFile)
	if err != nil {
		return errors.Wrapf(err, "Fail to create output file: %s", cfg.OutputFile)
	}
	defer fd.Close()

	if err := table.WriteCSV(fd); err != nil {
		return err
	}

	logger.WithField("file", cfg.OutputFile).Info("Saved analysis table")
	return nil
}
