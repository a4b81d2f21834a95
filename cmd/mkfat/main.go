// Command mkfat formats disk-image files with FAT16/FAT32 volumes and MBR
// partition tables, the shell front door for the fat package's Format and
// Partition functions.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	fat "github.com/tinyfat/mkfat"
	"github.com/tinyfat/mkfat/internal/filedisk"
)

func main() {
	app := cli.App{
		Usage: "Format and partition FAT disk images",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "Write a fresh FAT16/FAT32 filesystem onto an image's partition",
				Action:    formatImage,
				ArgsUsage: "IMAGE_FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "partition", Value: 0, Usage: "partition index to format"},
					&cli.IntFlag{Name: "sector-size", Value: 512},
					&cli.BoolFlag{Name: "fat16", Usage: "prefer FAT16 when the volume size allows it"},
					&cli.BoolFlag{Name: "small-clusters", Usage: "start the cluster-size search from the smallest cluster"},
					&cli.StringFlag{Name: "label", Value: ""},
					&cli.BoolFlag{Name: "verbose"},
				},
			},
			{
				Name:      "partition",
				Usage:     "Write an MBR (and EBR chain, if needed) to an image",
				Action:    partitionImage,
				ArgsUsage: "IMAGE_FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "sector-size", Value: 512},
					&cli.Uint64Flag{Name: "total-sectors", Required: true},
					&cli.Uint64Flag{Name: "hidden-sectors", Value: 0},
					&cli.StringFlag{Name: "size-type", Value: "percent", Usage: "sectors|percent|quota"},
					&cli.IntFlag{Name: "primary-count", Value: 1},
					&cli.Uint64SliceFlag{Name: "size", Usage: "repeatable; one size per partition"},
					&cli.BoolFlag{Name: "verbose"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("mkfat: %s", err)
	}
}

func logger(verbose bool) *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func formatImage(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("missing IMAGE_FILE argument")
	}
	d, err := filedisk.Open(path, uint16(c.Int("sector-size")))
	if err != nil {
		return err
	}
	defer d.Close()

	opts := fat.Options{Log: logger(c.Bool("verbose"))}
	return fat.Format(d, c.Int("partition"), c.Bool("fat16"), c.Bool("small-clusters"), c.String("label"), opts)
}

func partitionImage(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("missing IMAGE_FILE argument")
	}
	sectorSize := uint16(c.Int("sector-size"))
	d, err := filedisk.Open(path, sectorSize)
	if err != nil {
		return err
	}
	defer d.Close()

	total := uint32(c.Uint64("total-sectors"))
	if err := d.Truncate(total); err != nil {
		return err
	}

	var sizeType fat.SizeType
	switch c.String("size-type") {
	case "sectors":
		sizeType = fat.Sectors
	case "percent":
		sizeType = fat.Percent
	case "quota":
		sizeType = fat.Quota
	default:
		return fmt.Errorf("unknown size-type %q", c.String("size-type"))
	}

	var sizes [fat.MaxPartitions]uint32
	for i, s := range c.Uint64Slice("size") {
		if i >= len(sizes) {
			break
		}
		sizes[i] = uint32(s)
	}

	params := fat.PartitionParams{
		Sizes:         sizes,
		SizeType:      sizeType,
		PrimaryCount:  uint8(c.Int("primary-count")),
		HiddenSectors: uint32(c.Uint64("hidden-sectors")),
		TotalSectors:  total,
	}

	opts := fat.Options{Log: logger(c.Bool("verbose"))}
	return fat.Partition(d, params, opts)
}
