package mbr

import "testing"

func TestPartitionTableEntryRoundTrip(t *testing.T) {
	var sector [512]byte
	bs, err := ToBootSector(sector[:])
	if err != nil {
		t.Fatalf("ToBootSector: %v", err)
	}

	pte := MakePTE(DriveAttrsBootable, PartitionTypeFAT32LBA, 2048, 1_000_000, NewCHS(0, 1, 1), NewCHS(0, 0xFE, 63))
	bs.SetPartitionTable(0, pte)
	bs.SetBootSignature()

	got := bs.PartitionTable(0)
	if got.StartLBA() != 2048 {
		t.Fatalf("StartLBA = %d, want 2048", got.StartLBA())
	}
	if got.NumberOfLBA() != 1_000_000 {
		t.Fatalf("NumberOfLBA = %d, want 1000000", got.NumberOfLBA())
	}
	if got.PartitionType() != PartitionTypeFAT32LBA {
		t.Fatalf("PartitionType = %#x, want %#x", got.PartitionType(), PartitionTypeFAT32LBA)
	}
	if !got.Attributes().IsBootable() {
		t.Fatal("expected partition to be bootable")
	}
	if bs.BootSignature() != BootSignature {
		t.Fatalf("BootSignature = %#x, want %#x", bs.BootSignature(), BootSignature)
	}
}

func TestIsBootableRespectsReceiver(t *testing.T) {
	if (DriveAttributes(0x00)).IsBootable() {
		t.Fatal("0x00 attributes must not report bootable")
	}
	if !(DriveAttributes(0x80)).IsBootable() {
		t.Fatal("0x80 attributes must report bootable")
	}
}

func TestZeroClearsPartitionTable(t *testing.T) {
	var sector [512]byte
	bs, _ := ToBootSector(sector[:])
	bs.SetPartitionTable(0, MakePTE(DriveAttrsBootable, PartitionTypeFAT32LBA, 1, 2, NewCHS(0, 1, 1), NewCHS(0, 1, 1)))
	bs.Zero()
	pte := bs.PartitionTable(0)
	if pte.StartLBA() != 0 || pte.NumberOfLBA() != 0 {
		t.Fatal("Zero did not clear the partition table")
	}
}
