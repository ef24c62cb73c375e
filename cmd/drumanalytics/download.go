package main

import (
	"github.com/nsteele/drumanalytics/internal/adaptor"
	"github.com/nsteele/drumanalytics/internal/service"
	"github.com/nsteele/drumanalytics/pkg/downloader"

	cli "github.com/urfave/cli/v2"
)

func downloadCommand(args *arguments) *cli.Command {
	var outputDir string

	return &cli.Command{
		Name:  "download",
		Usage: "Download analysis result objects to a local directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output-dir",
				Aliases:     []string{"o"},
				Usage:       "Directory for downloaded files",
				EnvVars:     []string{"ANALYTICS_OUTPUT_DIR"},
				Value:       downloader.DefaultOutputDir,
				Destination: &outputDir,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := downloader.Config{
				Region:    args.Region,
				Bucket:    args.Bucket,
				Prefix:    args.Prefix,
				OutputDir: outputDir,
			}
			svc := service.NewS3Service(adaptor.NewS3Client)
			return downloader.Download(cfg, svc)
		},
	}
}
