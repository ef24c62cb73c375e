package main

import (
	"github.com/nsteele/drumanalytics/internal/adaptor"
	"github.com/nsteele/drumanalytics/internal/service"
	"github.com/nsteele/drumanalytics/pkg/loader"

	cli "github.com/urfave/cli/v2"
)

func loadCommand(args *arguments) *cli.Command {
	var outputFile string

	return &cli.Command{
		Name:  "load",
		Usage: "Build a CSV table from analysis result JSON objects",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output-file",
				Aliases:     []string{"o"},
				Usage:       "Path of the CSV table to write",
				EnvVars:     []string{"ANALYTICS_OUTPUT_FILE"},
				Value:       loader.DefaultOutputFile,
				Destination: &outputFile,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := loader.Config{
				Region:     args.Region,
				Bucket:     args.Bucket,
				Prefix:     args.Prefix,
				OutputFile: outputFile,
			}
			svc := service.NewS3Service(adaptor.NewS3Client)
			return loader.Load(cfg, svc)
		},
	}
}
