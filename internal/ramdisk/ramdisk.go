// Package ramdisk implements an in-memory fat.Disk, adapted from the
// byte-slice block device the teacher test-harness used to exercise its
// mount code: here it backs geometry/format/partition tests instead.
package ramdisk

import "fmt"

// Disk is a byte-slice-backed block device. Zero value is not usable; build
// one with New.
type Disk struct {
	buf        []byte
	sectorSize uint16
}

// New allocates a Disk of the given sector size with capacity for
// sectorCount sectors, all zeroed.
func New(sectorSize uint16, sectorCount uint32) *Disk {
	return &Disk{
		buf:        make([]byte, uint64(sectorSize)*uint64(sectorCount)),
		sectorSize: sectorSize,
	}
}

func (d *Disk) SectorSize() uint16 { return d.sectorSize }

func (d *Disk) ReadSectors(lba uint32, dst []byte) error {
	if len(dst)%int(d.sectorSize) != 0 {
		return fmt.Errorf("ramdisk: read length %d not a multiple of sector size %d", len(dst), d.sectorSize)
	}
	off := uint64(lba) * uint64(d.sectorSize)
	end := off + uint64(len(dst))
	if end > uint64(len(d.buf)) {
		return fmt.Errorf("ramdisk: read past end of disk: %d > %d", end, len(d.buf))
	}
	copy(dst, d.buf[off:end])
	return nil
}

func (d *Disk) WriteSectors(lba uint32, src []byte) error {
	if len(src)%int(d.sectorSize) != 0 {
		return fmt.Errorf("ramdisk: write length %d not a multiple of sector size %d", len(src), d.sectorSize)
	}
	off := uint64(lba) * uint64(d.sectorSize)
	end := off + uint64(len(src))
	if end > uint64(len(d.buf)) {
		return fmt.Errorf("ramdisk: write past end of disk: %d > %d", end, len(d.buf))
	}
	copy(d.buf[off:end], src)
	return nil
}

// Bytes exposes the backing buffer directly, for tests that want to
// re-parse the written image without going through ReadSectors.
func (d *Disk) Bytes() []byte {
	return d.buf
}
