package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/bodgit/mkt"
	"github.com/bodgit/mkt/catalog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	defaultDB      = "mkt.db"
	defaultWorkers = 10
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("verbose") {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func newEditor(c *cli.Context) (*mkt.Editor, *zap.Logger, error) {
	logger, err := newLogger(c)
	if err != nil {
		return nil, nil, err
	}

	e, err := mkt.New(c.String("db"), catalog.Default(), logger)
	if err != nil {
		return nil, nil, err
	}

	return e, logger, nil
}

func dump(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	m, err := mkt.NewMakeTrack(catalog.Default(), logger)
	if err != nil {
		return err
	}
	if err := m.Load(c.Args().First()); err != nil {
		return err
	}

	theme, err := m.Theme()
	if err != nil {
		return err
	}

	overlay, err := m.OverlayTiles()
	if err != nil {
		return err
	}

	start := m.StartPosition()
	lap := m.LapLine()
	p1, p2 := m.BattleStartP1(), m.BattleStartP2()
	objects := m.Objects()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
	fmt.Fprintf(w, "Theme:\t%s\n", theme)
	fmt.Fprintf(w, "Start position:\t%d, %d (second row offset %d)\n", start.X, start.Y, start.SecondRowOffset)
	fmt.Fprintf(w, "Lap line:\t%d (area %d, %d, %dx%d)\n", lap.Y, lap.AreaX, lap.AreaY, lap.AreaWidth, lap.AreaHeight)
	fmt.Fprintf(w, "Battle start P1:\t%d, %d\n", p1.X, p1.Y)
	fmt.Fprintf(w, "Battle start P2:\t%d, %d\n", p2.X, p2.Y)
	fmt.Fprintf(w, "Item probabilities:\t%d\n", m.ItemProbabilityIndex())
	fmt.Fprintf(w, "Object tileset:\t%d\n", objects.Tileset)
	fmt.Fprintf(w, "Object interaction:\t%d\n", objects.Interaction)
	fmt.Fprintf(w, "Object routine:\t%d\n", objects.Routine)
	fmt.Fprintf(w, "Object palettes:\t%v\n", objects.Palettes)
	fmt.Fprintf(w, "Object flashing:\t%t\n", objects.Flashing)
	fmt.Fprintf(w, "Overlay tiles:\t%d\n", len(overlay))
	fmt.Fprintf(w, "AI zones:\t%d\n", len(objects.AI))
	for i, r := range objects.AI {
		fmt.Fprintf(w, "  %d:\t%s at %d, %d -> target %d, %d speed %d\n", i, r.Area.Shape, r.Area.X, r.Area.Y, r.Target.X, r.Target.Y, r.Target.Speed)
	}

	return w.Flush()
}

func main() {
	app := cli.NewApp()

	app.Name = "mkt"
	app.Usage = "MAKE track file conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MKT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to track library",
		},
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	workers := &cli.IntFlag{
		Name:    "workers",
		EnvVars: []string{"MKT_WORKERS"},
		Value:   defaultWorkers,
		Usage:   "number of concurrent conversions",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import a MAKE track file into the library",
			Description: "The track is named after the file unless NAME is given.",
			ArgsUsage:   "FILE [NAME]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, logger, err := newEditor(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer logger.Sync()
				defer e.Close()

				if err := e.Import(c.Args().First(), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Export a track from the library as a MAKE track file",
			Description: "",
			ArgsUsage:   "NAME FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, logger, err := newEditor(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer logger.Sync()
				defer e.Close()

				if err := e.Export(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Import every MAKE track file under a directory",
			Description: "Tracks are named after their path below DIRECTORY. Files that have already been imported unchanged are skipped.",
			ArgsUsage:   "DIRECTORY",
			Flags:       []cli.Flag{workers},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, logger, err := newEditor(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer logger.Sync()
				defer e.Close()

				if err := e.Scan(c.Args().First(), c.Int("workers")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export-all",
			Usage:       "Export every track in the library to a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags:       []cli.Flag{workers},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, logger, err := newEditor(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer logger.Sync()
				defer e.Close()

				if err := e.ExportAll(c.Args().First(), c.Int("workers")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List the tracks in the library",
			Description: "",
			Action: func(c *cli.Context) error {
				e, logger, err := newEditor(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer logger.Sync()
				defer e.Close()

				entries, err := e.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
				for _, entry := range entries {
					theme := "-"
					if entry.Theme != nil {
						theme = entry.Theme.Name
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Name, theme, entry.CRC)
				}
				return w.Flush()
			},
		},
		{
			Name:        "delete",
			Usage:       "Delete a track from the library",
			Description: "",
			ArgsUsage:   "NAME",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, logger, err := newEditor(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer logger.Sync()
				defer e.Close()

				if err := e.Delete(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "dump",
			Usage:       "Print the contents of a MAKE track file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := dump(c); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
