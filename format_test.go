package fat

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/tinyfat/mkfat/internal/ramdisk"
)

// writeWholeDiskPartitionEntry stamps a single primary partition entry
// covering the whole device, so Format has something to discover without
// needing the full partition planner in these tests.
func writeWholeDiskPartitionEntry(t *testing.T, d *ramdisk.Disk, startLBA, sectorCount uint32) {
	t.Helper()
	sector := make([]byte, d.SectorSize())
	sector[0x1BE] = 0x80
	sector[0x1BE+4] = 0x0B
	binary.LittleEndian.PutUint32(sector[0x1BE+8:], startLBA)
	binary.LittleEndian.PutUint32(sector[0x1BE+12:], sectorCount)
	binary.LittleEndian.PutUint16(sector[510:], 0xAA55)
	if err := d.WriteSectors(0, sector); err != nil {
		t.Fatalf("seed MBR: %v", err)
	}
}

func TestFormatFAT16RoundTrip(t *testing.T) {
	const sectorSize = 512
	const sectorCount = 10240
	d := ramdisk.New(sectorSize, sectorCount+1)
	writeWholeDiskPartitionEntry(t, d, 1, sectorCount)

	opts := Options{SerialSource: rand.NewSource(42)}
	if err := Format(d, 0, true, false, "TESTVOL", opts); err != nil {
		t.Fatalf("Format: %v", err)
	}

	bpb := make([]byte, sectorSize)
	if err := d.ReadSectors(1, bpb); err != nil {
		t.Fatalf("ReadSectors(bpb): %v", err)
	}
	if got := binary.LittleEndian.Uint16(bpb[bs55AA:]); got != BootSectorSignature {
		t.Fatalf("boot signature = %#x, want %#x", got, BootSectorSignature)
	}
	if got := binary.LittleEndian.Uint16(bpb[bpbBytsPerSec:]); got != sectorSize {
		t.Fatalf("bytes_per_sector = %d, want %d", got, sectorSize)
	}
	if got := bpb[bpbNumFATs]; got != 2 {
		t.Fatalf("num_fats = %d, want 2", got)
	}
	if got := bpb[bsFilSysType]; string(bpb[bsFilSysType:bsFilSysType+5]) != "FAT16" {
		t.Fatalf("fs type tag = %q, want FAT16 prefix (byte %d)", bpb[bsFilSysType:bsFilSysType+5], got)
	}
	label := bpb[bsVolLab : bsVolLab+volumeLabelLen]
	if !bytes.Equal(bytes.TrimRight(label, " "), []byte("TESTVOL")) {
		t.Fatalf("volume label = %q, want TESTVOL", label)
	}

	fatSector := make([]byte, sectorSize)
	reservedSectors := uint32(binary.LittleEndian.Uint16(bpb[bpbRsvdSecCnt:]))
	if err := d.ReadSectors(1+reservedSectors, fatSector); err != nil {
		t.Fatalf("ReadSectors(fat0): %v", err)
	}
	if got := binary.LittleEndian.Uint16(fatSector[0:]); got != 0xFFF8 {
		t.Fatalf("FAT16 sentinel[0] = %#x, want 0xFFF8", got)
	}
	if got := binary.LittleEndian.Uint16(fatSector[2:]); got != 0xFFFF {
		t.Fatalf("FAT16 sentinel[1] = %#x, want 0xFFFF", got)
	}
}

func TestFormatIsIdempotentGivenTheSameSerial(t *testing.T) {
	const sectorSize = 512
	const sectorCount = 10240

	run := func() []byte {
		d := ramdisk.New(sectorSize, sectorCount+1)
		writeWholeDiskPartitionEntry(t, d, 1, sectorCount)
		opts := Options{SerialSource: rand.NewSource(7)}
		if err := Format(d, 0, true, false, "SAME", opts); err != nil {
			t.Fatalf("Format: %v", err)
		}
		out := make([]byte, len(d.Bytes()))
		copy(out, d.Bytes())
		return out
	}

	a := run()
	b := run()
	if !bytes.Equal(a, b) {
		t.Fatal("two Format calls with the same serial source produced different images")
	}
}

func TestFormatFAT32WritesFSInfo(t *testing.T) {
	const sectorSize = 512
	const sectorCount = 3_000_000
	d := ramdisk.New(sectorSize, sectorCount+1)
	writeWholeDiskPartitionEntry(t, d, 1, sectorCount)

	opts := Options{SerialSource: rand.NewSource(1)}
	if err := Format(d, 0, false, false, "BIGVOL", opts); err != nil {
		t.Fatalf("Format: %v", err)
	}

	bpb := make([]byte, sectorSize)
	if err := d.ReadSectors(1, bpb); err != nil {
		t.Fatalf("ReadSectors(bpb): %v", err)
	}
	reservedSectors := binary.LittleEndian.Uint16(bpb[bpbRsvdSecCnt:])
	if reservedSectors < 7 {
		t.Fatalf("FAT32 reserved_sectors = %d, want >= 7 (invariant 6)", reservedSectors)
	}

	fsinfo := make([]byte, sectorSize)
	if err := d.ReadSectors(2, fsinfo); err != nil {
		t.Fatalf("ReadSectors(fsinfo): %v", err)
	}
	if got := binary.LittleEndian.Uint32(fsinfo[fsiLeadSig:]); got != leadSignature {
		t.Fatalf("FSInfo lead signature = %#x, want %#x", got, leadSignature)
	}
	if got := binary.LittleEndian.Uint32(fsinfo[fsiTrailSig:]); got != trailSig {
		t.Fatalf("FSInfo trail signature = %#x, want %#x", got, trailSig)
	}
}

func TestFormatInvalidPartitionNumber(t *testing.T) {
	const sectorSize = 512
	d := ramdisk.New(sectorSize, 20000)
	writeWholeDiskPartitionEntry(t, d, 1, 10240)

	err := Format(d, 3, true, false, "X", Options{})
	if err == nil {
		t.Fatal("expected ErrInvalidPartitionNumber")
	}
	fe, ok := err.(*FormatError)
	if !ok || fe.Code != ErrInvalidPartitionNumber {
		t.Fatalf("err = %v, want ErrInvalidPartitionNumber", err)
	}
}
