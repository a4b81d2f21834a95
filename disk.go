package fat

import "fmt"

// Disk is the sector I/O port this package consumes. It is the only
// collaborator Format and Partition require: an SD controller, a RAM disk,
// or a file-backed image all satisfy it identically. Mounting, allocation
// and file I/O live on the other side of this interface and are out of
// scope here; see [BlockDevice] in the wider fat stack for that surface.
type Disk interface {
	// ReadSectors reads len(dst)/SectorSize() contiguous sectors starting at lba
	// into dst. len(dst) must be a multiple of SectorSize().
	ReadSectors(lba uint32, dst []byte) error
	// WriteSectors writes len(src)/SectorSize() contiguous sectors starting at
	// lba. The write is atomic from the caller's perspective: it either lands
	// in full or returns a non-nil error and the sector's prior contents are
	// indeterminate.
	WriteSectors(lba uint32, src []byte) error
	// SectorSize is fixed for the lifetime of the Disk and must be one of
	// 512, 1024, 2048 or 4096.
	SectorSize() uint16
}

// validSectorSize reports whether ss is one of the sizes the FAT on-disk
// structures in this package are defined for.
func validSectorSize(ss uint16) bool {
	switch ss {
	case 512, 1024, 2048, 4096:
		return true
	default:
		return false
	}
}

// sectorBuffer is a scoped acquisition of one sector's worth of scratch
// space, mirroring the teacher's single-sector disk access window: one
// buffer lives for the duration of a Format/Partition call and is never
// retained afterwards.
type sectorBuffer struct {
	buf []byte
}

func newSectorBuffer(sectorSize uint16) (*sectorBuffer, error) {
	if !validSectorSize(sectorSize) {
		return nil, &FormatError{Code: ErrInvalidArgument, msg: fmt.Sprintf("unsupported sector size %d", sectorSize)}
	}
	return &sectorBuffer{buf: make([]byte, sectorSize)}, nil
}

func (s *sectorBuffer) zero() []byte {
	clear(s.buf)
	return s.buf
}
