package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bodgit/stitch"
	"github.com/bodgit/stitch/atlas"
	"github.com/bodgit/stitch/bitmap"
	"github.com/bodgit/stitch/manifest"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if !c.Bool("verbose") {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func inspect(file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	h, err := bitmap.DecodeConfig(b)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	order := "bottom-up"
	if h.TopDown {
		order = "top-down"
	}
	alpha := "none"
	if h.HasAlpha() {
		alpha = fmt.Sprintf("bit %d", h.Shifts.A)
	}

	fmt.Printf("%s: %dx%d, %d bpp, %s, %s, header %d bytes, stride %d, red bit %d, green bit %d, blue bit %d, alpha %s\n",
		file, h.Width, h.Height, h.BitsPerPixel, order, humanize.Bytes(uint64(len(b))),
		h.HeaderLength, h.Stride, h.Shifts.R, h.Shifts.G, h.Shifts.B, alpha)

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "stitch"
	app.Usage = "Sprite atlas builder"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "pack",
			Usage:       "Pack sprites onto atlas sheets",
			Description: "For each STUB, sprites listed in STUB.meta are cut from STUB.bmp",
			ArgsUsage:   "STUB...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					EnvVars: []string{"STITCH_OUT"},
					Value:   ".",
					Usage:   "output directory",
				},
				&cli.StringFlag{
					Name:    "prefix",
					EnvVars: []string{"STITCH_PREFIX"},
					Value:   "atlas",
					Usage:   "prefix of the files written",
				},
				&cli.IntFlag{
					Name:    "size",
					EnvVars: []string{"STITCH_SIZE"},
					Value:   atlas.Size,
					Usage:   "width and height of each sheet",
				},
				&cli.IntFlag{
					Name:    "jobs",
					Aliases: []string{"j"},
					EnvVars: []string{"STITCH_JOBS"},
					Value:   4,
					Usage:   "number of images to process at once",
				},
				&cli.IntFlag{
					Name:    "max-sheets",
					EnvVars: []string{"STITCH_MAX_SHEETS"},
					Value:   64,
					Usage:   "maximum number of sheets to allocate",
				},
				&cli.StringFlag{
					Name:    "db",
					EnvVars: []string{"STITCH_DB"},
					Usage:   "also store the manifest in this SQLite database",
				},
				&cli.IntFlag{
					Name:  "preview",
					Usage: "also write PNG previews at most this many pixels across",
				},
				&cli.BoolFlag{
					Name:  "best-effort",
					Usage: "skip images that cannot be read instead of failing",
				},
				&cli.StringFlag{
					Name:    "format",
					EnvVars: []string{"STITCH_FORMAT"},
					Value:   "namespaced",
					Usage:   "manifest layout, namespaced or detailed",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if c.Int("size") < 1 {
					return cli.Exit("size must be positive", 1)
				}

				format, err := manifest.ParseFormat(c.String("format"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				logger, err := newLogger(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer logger.Sync()

				s := stitch.New(logger,
					stitch.WithSize(c.Int("size")),
					stitch.WithJobs(c.Int("jobs")),
					stitch.WithPrefix(c.String("prefix")),
					stitch.WithMaxSheets(c.Int("max-sheets")),
					stitch.WithBestEffort(c.Bool("best-effort")),
					stitch.WithDB(c.String("db")),
					stitch.WithPreview(c.Int("preview")),
					stitch.WithFormat(format),
				)

				if _, err := s.Stitch(c.Args().Slice(), c.String("out")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "inspect",
			Usage:       "Print the header of bitmap files",
			Description: "Each FILE is validated and its size, depth, row order and channel layout printed",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				for _, file := range c.Args().Slice() {
					if err := inspect(file); err != nil {
						return cli.Exit(err, 1)
					}
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
