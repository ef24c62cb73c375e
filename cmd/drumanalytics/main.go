package main

import (
	"os"

	"github.com/nsteele/drumanalytics/internal"
	"github.com/nsteele/drumanalytics/pkg/downloader"

	cli "github.com/urfave/cli/v2"
)

var logger = internal.Logger

type arguments struct {
	Region    string
	Bucket    string
	Prefix    string
	LogLevel  string
	SentryDSN string
}

func main() {
	var args arguments

	app := &cli.App{
		Name:  "drumanalytics",
		Usage: "Batch utilities for drum analysis results on S3",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bucket",
				Aliases:     []string{"b"},
				Usage:       "S3 bucket of analysis results",
				EnvVars:     []string{"ANALYTICS_BUCKET"},
				Value:       downloader.DefaultBucket,
				Destination: &args.Bucket,
			},
			&cli.StringFlag{
				Name:        "prefix",
				Aliases:     []string{"p"},
				Usage:       "Key prefix of analysis result objects",
				EnvVars:     []string{"ANALYTICS_PREFIX"},
				Value:       downloader.DefaultPrefix,
				Destination: &args.Prefix,
			},
			&cli.StringFlag{
				Name:        "region",
				Aliases:     []string{"r"},
				Usage:       "AWS region",
				EnvVars:     []string{"AWS_REGION"},
				Value:       downloader.DefaultRegion,
				Destination: &args.Region,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				EnvVars:     []string{"LOG_LEVEL"},
				Destination: &args.LogLevel,
			},
			&cli.StringFlag{
				Name:        "sentry-dsn",
				EnvVars:     []string{"SENTRY_DSN"},
				Destination: &args.SentryDSN,
			},
		},
		Before: func(c *cli.Context) error {
			internal.SetLogLevel(args.LogLevel)
			internal.SetupErrorHandler(args.SentryDSN)
			return nil
		},
		Commands: []*cli.Command{
			downloadCommand(&args),
			loadCommand(&args),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		internal.HandleError(err)
		internal.FlushError()
		logger.WithError(err).Fatal("Abort")
	}
}
