// Package filedisk implements a fat.Disk backed by an *os.File, the
// collaborator cmd/mkfat uses to format a plain disk-image file the way an
// SD-card driver would format a real block device.
package filedisk

import (
	"fmt"
	"os"
)

// Disk reads and writes fixed-size sectors through os.File.ReadAt/WriteAt.
type Disk struct {
	f          *os.File
	sectorSize uint16
}

// Open opens path for read/write and wraps it as a Disk with the given
// sector size. The file is created with mode 0644 if it does not exist.
func Open(path string, sectorSize uint16) (*Disk, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return &Disk{f: f, sectorSize: sectorSize}, nil
}

// Truncate sets the backing file's size to exactly sectorCount sectors,
// growing a shorter file and cutting off anything past that size in a
// longer one.
func (d *Disk) Truncate(sectorCount uint32) error {
	return d.f.Truncate(int64(sectorCount) * int64(d.sectorSize))
}

func (d *Disk) Close() error { return d.f.Close() }

func (d *Disk) SectorSize() uint16 { return d.sectorSize }

func (d *Disk) ReadSectors(lba uint32, dst []byte) error {
	if len(dst)%int(d.sectorSize) != 0 {
		return fmt.Errorf("filedisk: read length %d not a multiple of sector size %d", len(dst), d.sectorSize)
	}
	off := int64(lba) * int64(d.sectorSize)
	_, err := d.f.ReadAt(dst, off)
	return err
}

func (d *Disk) WriteSectors(lba uint32, src []byte) error {
	if len(src)%int(d.sectorSize) != 0 {
		return fmt.Errorf("filedisk: write length %d not a multiple of sector size %d", len(src), d.sectorSize)
	}
	off := int64(lba) * int64(d.sectorSize)
	_, err := d.f.WriteAt(src, off)
	return err
}
