package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/mural"
	"github.com/bodgit/mural/palette"
	"github.com/bodgit/mural/quantize"
	"github.com/bodgit/mural/raster"
	"github.com/urfave/cli/v2"
)

const defaultDB = "mural.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func loadPalette(c *cli.Context) (*palette.Palette, error) {
	file := c.String("palette")
	if file == "" {
		return palette.Default(), nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return palette.Load(f)
}

func newManager(c *cli.Context) (*mural.Manager, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	p, err := loadPalette(c)
	if err != nil {
		return nil, err
	}

	return mural.New(c.String("db"), p, logger)
}

func findMural(m *mural.Manager, name string) (*mural.Mural, error) {
	if mu, ok := m.Store().Find(name); ok {
		return mu, nil
	}
	return nil, fmt.Errorf("no mural named %q", name)
}

// withManager runs fn against the store, requiring at least n arguments
func withManager(n int, fn func(*cli.Context, *mural.Manager) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < n {
			cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
		}

		m, err := newManager(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer m.Close()

		if err := fn(c, m); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	}
}

func stdinSelector(in io.Reader, out io.Writer) mural.Selector {
	scanner := bufio.NewScanner(in)
	return func(results []quantize.Result) (*quantize.Result, error) {
		if len(results) == 1 {
			return &results[0], nil
		}

		for i, r := range results {
			fmt.Fprintf(out, "%2d) %s\n", i+1, r.Kernel.Name())
		}

		for {
			fmt.Fprintf(out, "Select a candidate [1-%d], or nothing to cancel: ", len(results))
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, err
				}
				return nil, nil
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				return nil, nil
			}

			i, err := strconv.Atoi(line)
			if err != nil || i < 1 || i > len(results) {
				fmt.Fprintf(out, "Invalid choice %q\n", line)
				continue
			}

			return &results[i-1], nil
		}
	}
}

func importOptions(c *cli.Context) (mural.ImportOptions, error) {
	k, err := quantize.ParseKernel(c.String("kernel"))
	if err != nil {
		return mural.ImportOptions{}, err
	}

	return mural.ImportOptions{
		Name:        c.String("name"),
		X:           c.Int("x"),
		Y:           c.Int("y"),
		Width:       c.Int("width"),
		Height:      c.Int("height"),
		NoShrinking: c.Bool("no-shrink"),
		Kernel:      k,
	}, nil
}

func writeFile(file string, fn func(io.Writer) error) error {
	if file == "" || file == "-" {
		return fn(os.Stdout)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := fn(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func main() {
	app := cli.NewApp()

	app.Name = "mural"
	app.Usage = "Pixel canvas mural management utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	imageFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "width",
			Usage: "scale the image to this width",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "scale the image to this height",
		},
		&cli.BoolFlag{
			Name:  "no-shrink",
			Usage: "use the image at its original size",
		},
		&cli.StringFlag{
			Name:  "kernel",
			Value: string(quantize.ShowAll),
			Usage: "quantization strategy, one of Flat, ShowAll or a dithering kernel",
		},
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MURAL_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "palette",
			EnvVars: []string{"MURAL_PALETTE"},
			Usage:   "path to palette file, the built-in palette is used if unset",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import a mural or an image",
			Description: "Files ending in .muraljson or .json are read as murals, anything else is quantized to the palette.",
			ArgsUsage:   "FILE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "mural name, replaces the name in a mural file and defaults to the file name",
				},
				&cli.IntFlag{
					Name:  "x",
					Usage: "canvas x coordinate of the top-left pixel",
				},
				&cli.IntFlag{
					Name:  "y",
					Usage: "canvas y coordinate of the top-left pixel",
				},
			}, imageFlags...),
			Action: withManager(1, func(c *cli.Context, m *mural.Manager) error {
				opts, err := importOptions(c)
				if err != nil {
					return err
				}

				_, err = m.ImportFile(c.Args().First(), opts, stdinSelector(os.Stdin, os.Stdout))
				return err
			}),
		},
		{
			Name:      "preview",
			Usage:     "Write every quantization candidate for an image",
			ArgsUsage: "FILE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "out",
					Value: ".",
					Usage: "directory to write candidates to",
				},
			}, imageFlags...),
			Action: withManager(1, func(c *cli.Context, m *mural.Manager) error {
				opts, err := importOptions(c)
				if err != nil {
					return err
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()

				results, err := m.Candidates(f, opts)
				if err != nil {
					return err
				}

				base := strings.TrimSuffix(filepath.Base(c.Args().First()), filepath.Ext(c.Args().First()))
				for _, r := range results {
					file := filepath.Join(c.String("out"), fmt.Sprintf("%s-%s.png", base, strings.ToLower(string(r.Kernel))))
					if err := writeFile(file, func(w io.Writer) error {
						return mural.ExportPNG(w, &mural.Mural{Pixels: r.Grid}, m.Palette(), 1)
					}); err != nil {
						return err
					}
					fmt.Println(file)
				}

				return nil
			}),
		},
		{
			Name:  "list",
			Usage: "List murals",
			Action: withManager(0, func(c *cli.Context, m *mural.Manager) error {
				store := m.Store()
				for _, mu := range store.Murals() {
					var flags string
					if mu == store.Selected() {
						flags += "*"
					}
					if store.HasOverlay(mu) {
						flags += "o"
					}
					fmt.Printf("%-2s %-32s %4dx%-4d %6d,%-6d\n", flags, mu.Name, mu.Width(), mu.Height(), mu.X, mu.Y)
				}
				return nil
			}),
		},
		{
			Name:      "info",
			Usage:     "Show details of a mural",
			ArgsUsage: "NAME",
			Action: withManager(1, func(c *cli.Context, m *mural.Manager) error {
				mu, err := findMural(m, c.Args().First())
				if err != nil {
					return err
				}

				store := m.Store()
				cx, cy := mural.Chunk(mu.X, mu.Y)
				fmt.Printf("Name:     %s\n", mu.Name)
				fmt.Printf("Size:     %dx%d\n", mu.Width(), mu.Height())
				fmt.Printf("Position: %d,%d\n", mu.X, mu.Y)
				fmt.Printf("Chunk:    %d,%d\n", cx, cy)
				fmt.Printf("Pixels:   %d\n", store.PixelCount(mu))
				fmt.Printf("Selected: %t\n", mu == store.Selected())
				fmt.Printf("Overlay:  %t\n", store.HasOverlay(mu))
				return nil
			}),
		},
		{
			Name:      "export",
			Usage:     "Export a mural as JSON or PNG",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "format",
					Value: "json",
					Usage: "output format, json or png",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "size of each pixel in png output",
				},
				&cli.StringFlag{
					Name:  "out",
					Usage: "output file, standard output if unset",
				},
			},
			Action: withManager(1, func(c *cli.Context, m *mural.Manager) error {
				mu, err := findMural(m, c.Args().First())
				if err != nil {
					return err
				}

				return writeFile(c.String("out"), func(w io.Writer) error {
					switch c.String("format") {
					case "json":
						return mural.ExportJSON(w, mu)
					case "png":
						return mural.ExportPNG(w, mu, m.Palette(), c.Int("scale"))
					default:
						return fmt.Errorf("unknown format %q", c.String("format"))
					}
				})
			}),
		},
		{
			Name:      "remove",
			Usage:     "Remove a mural",
			ArgsUsage: "NAME",
			Action: withManager(1, func(c *cli.Context, m *mural.Manager) error {
				mu, err := findMural(m, c.Args().First())
				if err != nil {
					return err
				}
				return m.Store().Remove(mu)
			}),
		},
		{
			Name:      "select",
			Usage:     "Select a mural, or clear the selection if no name is given",
			ArgsUsage: "[NAME]",
			Action: withManager(0, func(c *cli.Context, m *mural.Manager) error {
				if c.NArg() == 0 {
					return m.Store().Select(nil)
				}
				mu, err := findMural(m, c.Args().First())
				if err != nil {
					return err
				}
				return m.Store().Select(mu)
			}),
		},
		{
			Name:  "overlay",
			Usage: "Manage overlays",
			Subcommands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Show a mural as an overlay",
					ArgsUsage: "NAME",
					Action: withManager(1, func(c *cli.Context, m *mural.Manager) error {
						mu, err := findMural(m, c.Args().First())
						if err != nil {
							return err
						}
						return m.Store().AddOverlay(mu)
					}),
				},
				{
					Name:      "remove",
					Usage:     "Stop showing a mural as an overlay",
					ArgsUsage: "NAME",
					Action: withManager(1, func(c *cli.Context, m *mural.Manager) error {
						mu, err := findMural(m, c.Args().First())
						if err != nil {
							return err
						}
						return m.Store().RemoveOverlay(mu)
					}),
				},
			},
		},
		{
			Name:      "move",
			Usage:     "Move or rename a mural",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "x",
					Required: true,
					Usage:    "canvas x coordinate of the top-left pixel",
				},
				&cli.IntFlag{
					Name:     "y",
					Required: true,
					Usage:    "canvas y coordinate of the top-left pixel",
				},
				&cli.StringFlag{
					Name:  "name",
					Usage: "new name",
				},
			},
			Action: withManager(1, func(c *cli.Context, m *mural.Manager) error {
				mu, err := findMural(m, c.Args().First())
				if err != nil {
					return err
				}
				return m.Move(mu, c.String("name"), c.Int("x"), c.Int("y"))
			}),
		},
		{
			Name:  "palette",
			Usage: "Palette utilities",
			Subcommands: []*cli.Command{
				{
					Name:      "extract",
					Usage:     "Build a palette file from the colors of an image",
					ArgsUsage: "IMAGE",
					Flags: []cli.Flag{
						&cli.IntFlag{
							Name:  "colors",
							Value: 32,
							Usage: "maximum number of colors",
						},
						&cli.StringFlag{
							Name:  "out",
							Usage: "output file, standard output if unset",
						},
					},
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
						}

						f, err := os.Open(c.Args().First())
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer f.Close()

						img, _, err := raster.Decode(f)
						if err != nil {
							return cli.Exit(err, 1)
						}

						p, err := palette.FromImage(img, c.Int("colors"))
						if err != nil {
							return cli.Exit(err, 1)
						}

						if err := writeFile(c.String("out"), func(w io.Writer) error {
							return json.NewEncoder(w).Encode(p)
						}); err != nil {
							return cli.Exit(err, 1)
						}

						return nil
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
