package fat

import (
	"github.com/tinyfat/mkfat/internal/mbr"
)

// writePartitionTable implements §4.7: a primary-only MBR when every
// partition fits in the four primary slots, or an MBR plus a chain of EBRs
// when logical partitions are required. layouts is the output of
// planPartitions; primaryCount is the caller's (possibly clamped) primary
// partition count; gap is the inter-partition spacing planPartitions placed
// between each logical partition's EBR and its data (InterSpace, or
// InterPartitionGap when the caller left InterSpace at zero).
func writePartitionTable(d Disk, buf *sectorBuffer, layouts []partitionLayout, primaryCount int, totalSectors, gap uint32) error {
	if len(layouts) <= primaryCount {
		return writePrimaryOnlyMBR(d, buf, layouts)
	}
	return writeExtendedMBR(d, buf, layouts, primaryCount, totalSectors, gap)
}

func placeholderCHS(sectorCount uint32, endMarker bool) mbr.CHS {
	if endMarker {
		return mbr.NewCHS(0, 0xFE, byte(sectorCount))
	}
	return mbr.NewCHS(0, 1, 1)
}

func makePrimaryPTE(l partitionLayout, id mbr.PartitionType) mbr.PartitionTableEntry {
	return mbr.MakePTE(mbr.DriveAttrsBootable, id, l.startLBA, l.sectorCount,
		placeholderCHS(0, false), placeholderCHS(l.sectorCount, true))
}

// discoverPartitions reads the MBR at LBA 0 and returns the start LBA and
// sector count of each non-empty primary partition table entry, in slot
// order. An extended container entry is returned like any other non-empty
// slot. EBR chains are not followed, so logical partitions are not returned.
func discoverPartitions(d Disk, buf *sectorBuffer) ([]partitionLayout, error) {
	sector := buf.zero()
	if err := d.ReadSectors(0, sector); err != nil {
		return nil, ioErr(0, err)
	}
	bs, err := mbr.ToBootSector(sector)
	if err != nil {
		return nil, invalidArg(err.Error())
	}
	var found []partitionLayout
	for i := 0; i < 4; i++ {
		pte := bs.PartitionTable(i)
		if pte.PartitionType() == mbr.PartitionTypeUnused {
			continue
		}
		found = append(found, partitionLayout{startLBA: pte.StartLBA(), sectorCount: pte.NumberOfLBA()})
	}
	return found, nil
}

func writePrimaryOnlyMBR(d Disk, buf *sectorBuffer, layouts []partitionLayout) error {
	sector := buf.zero()
	bs, err := mbr.ToBootSector(sector)
	if err != nil {
		return invalidArg(err.Error())
	}
	for i, l := range layouts {
		bs.SetPartitionTable(i, makePrimaryPTE(l, mbr.PartitionTypeFAT32CHS))
	}
	bs.SetBootSignature()
	if err := d.WriteSectors(0, sector); err != nil {
		return ioErr(0, err)
	}
	return nil
}

// writeExtendedMBR writes the primary partitions plus the extended container
// entry into the MBR, then walks the logical partitions writing one EBR per
// logical. planPartitions reserves gap sectors immediately before each
// logical's data, so every logical's EBR sits exactly gap sectors before its
// own data (l.startLBA - gap) and every EBR entry 0 encodes {start_lba: gap,
// length: l.sectorCount}; entry 1, when a next logical follows, links to
// that logical's EBR relative to the first EBR's LBA, mirroring
// ff_format.c's prvPartitionExtended chain.
func writeExtendedMBR(d Disk, buf *sectorBuffer, layouts []partitionLayout, primaryCount int, totalSectors, gap uint32) error {
	firstEBRLBA := layouts[primaryCount].startLBA - gap

	sector := buf.zero()
	bs, err := mbr.ToBootSector(sector)
	if err != nil {
		return invalidArg(err.Error())
	}
	for i := 0; i < primaryCount; i++ {
		bs.SetPartitionTable(i, makePrimaryPTE(layouts[i], mbr.PartitionTypeFAT32CHS))
	}
	extendedLength := totalSectors - firstEBRLBA
	bs.SetPartitionTable(primaryCount, mbr.MakePTE(0, mbr.PartitionTypeExtended, firstEBRLBA, extendedLength,
		placeholderCHS(0, false), placeholderCHS(extendedLength, true)))
	bs.SetBootSignature()
	if err := d.WriteSectors(0, sector); err != nil {
		return ioErr(0, err)
	}

	logicals := layouts[primaryCount:]
	for i, l := range logicals {
		ebrLBA := l.startLBA - gap

		ebrSector := buf.zero()
		ebr, err := mbr.ToBootSector(ebrSector)
		if err != nil {
			return invalidArg(err.Error())
		}
		ebr.SetPartitionTable(0, mbr.MakePTE(mbr.DriveAttrsBootable, mbr.PartitionTypeFAT32CHS, gap, l.sectorCount,
			placeholderCHS(0, false), placeholderCHS(l.sectorCount, true)))

		if i+1 < len(logicals) {
			next := logicals[i+1]
			nextEBRLBA := next.startLBA - gap
			linkStart := nextEBRLBA - firstEBRLBA
			linkLength := gap + next.sectorCount
			ebr.SetPartitionTable(1, mbr.MakePTE(0, mbr.PartitionTypeExtended, linkStart, linkLength,
				placeholderCHS(0, false), placeholderCHS(linkLength, true)))
		}

		ebr.SetBootSignature()
		if err := d.WriteSectors(ebrLBA, ebrSector); err != nil {
			return ioErr(ebrLBA, err)
		}
	}
	return nil
}
