package fat

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// formatState names the §4.8 state machine purely for logging; no caller
// ever observes it directly.
type formatState uint8

const (
	stateInit formatState = iota
	statePlanned
	stateOptimized
	stateBPBWritten
	stateFSInfoWritten
	stateFATsCleared
	stateRootCleared
	stateDone
	stateFailed
)

func (s formatState) String() string {
	switch s {
	case stateInit:
		return "INIT"
	case statePlanned:
		return "PLANNED"
	case stateOptimized:
		return "OPTIMIZED"
	case stateBPBWritten:
		return "BPB_WRITTEN"
	case stateFSInfoWritten:
		return "FSINFO_WRITTEN"
	case stateFATsCleared:
		return "FATS_CLEARED"
	case stateRootCleared:
		return "ROOT_CLEARED"
	case stateDone:
		return "DONE"
	default:
		return "FAILED"
	}
}

// Options configures a Format call beyond the arguments spec.md names
// directly: an optional logger and a volume-serial source, both ambient
// concerns rather than part of the wire format.
type Options struct {
	Log *slog.Logger
	// SerialSource seeds the volume ID; nil uses a time-seeded default.
	// A caller-supplied deterministic source is how tests get reproducible
	// images (see SPEC_FULL.md Idempotence testing).
	SerialSource rand.Source
	// Clock, if set, timestamps the root directory's volume-label entry.
	// Nil leaves the timestamp fields zeroed.
	Clock func() time.Time
}

func (o Options) logger() *slog.Logger {
	return o.Log
}

func (o Options) serial() uint32 {
	src := o.SerialSource
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return uint32(rand.New(src).Uint64())
}

// Format writes a fresh FAT16 or FAT32 filesystem onto the partitionIndex'th
// partition found in the MBR at LBA 0, as laid down by Partition. A negative
// partitionIndex is rejected with ErrInvalidArgument; there is no whole-device
// mode without a partition table. It implements §4.8's state machine: PLANNED -> OPTIMIZED -> BPB_WRITTEN ->
// FSINFO_WRITTEN (FAT32 only) -> FATS_CLEARED -> ROOT_CLEARED -> DONE. Any
// I/O failure aborts with FAILED and leaves the on-disk state indeterminate;
// Format is not transactional.
func Format(d Disk, partitionIndex int, preferFAT16, smallClusters bool, volumeLabel string, opts Options) error {
	log := opts.logger()
	state := stateInit
	trace := func(s formatState) {
		state = s
		if log != nil {
			log.LogAttrs(context.Background(), slog.LevelDebug, "format: state transition",
				slog.String("state", s.String()))
		}
	}

	sectorSize := d.SectorSize()
	buf, err := newSectorBuffer(sectorSize)
	if err != nil {
		return err
	}

	var hidden, total uint32
	if partitionIndex < 0 {
		return invalidArg("partitionIndex must be >= 0; use Partition to lay out partitions first")
	}
	found, err := discoverPartitions(d, buf)
	if err != nil {
		trace(stateFailed)
		return err
	}
	if partitionIndex >= len(found) {
		trace(stateFailed)
		return invalidPartitionNumber(partitionIndex, len(found))
	}
	hidden = found[partitionIndex].startLBA
	total = found[partitionIndex].sectorCount

	plan, err := planGeometry(total, hidden, preferFAT16, smallClusters, sectorSize, log)
	if err != nil {
		trace(stateFailed)
		return err
	}
	trace(statePlanned)

	plan.optimizeFATLocation(log)
	trace(stateOptimized)

	label := sanitizeLabel(volumeLabel)
	serial := opts.serial()

	bpbSector := newBIOSParamBlock(buf.zero())
	bpbSector.writeCommon(plan, serial, label)
	if err := d.WriteSectors(plan.hiddenSectors, bpbSector.b); err != nil {
		trace(stateFailed)
		return ioErr(plan.hiddenSectors, err)
	}
	if plan.fatType == FAT32 {
		backupLBA := plan.hiddenSectors + 6
		if err := d.WriteSectors(backupLBA, bpbSector.b); err != nil {
			trace(stateFailed)
			return ioErr(backupLBA, err)
		}
	}
	trace(stateBPBWritten)

	if plan.fatType == FAT32 {
		fsinfo := newFSInfoSector(buf.zero())
		fsinfo.write(plan.usableDataClusters, 2)
		fsiLBA := plan.hiddenSectors + 1
		if err := d.WriteSectors(fsiLBA, fsinfo.b); err != nil {
			trace(stateFailed)
			return ioErr(fsiLBA, err)
		}
		backupFSI := fsiLBA + 6
		if err := d.WriteSectors(backupFSI, fsinfo.b); err != nil {
			trace(stateFailed)
			return ioErr(backupFSI, err)
		}
		trace(stateFSInfoWritten)
	}

	if err := initFATs(d, plan, buf); err != nil {
		trace(stateFailed)
		return err
	}
	trace(stateFATsCleared)

	if err := initRootDir(d, plan, buf, label, volumeLabel != "", opts.Clock); err != nil {
		trace(stateFailed)
		return err
	}
	trace(stateRootCleared)
	trace(stateDone)
	return nil
}

// Partition lays down an MBR (and, when logical partitions are required,
// the chained EBRs) describing params. It never writes filesystem data;
// call Format afterwards for each partition that should hold a FAT volume.
func Partition(d Disk, params PartitionParams, opts Options) error {
	log := opts.logger()
	layouts, gap, err := planPartitions(params)
	if err != nil {
		return err
	}

	sectorSize := d.SectorSize()
	buf, err := newSectorBuffer(sectorSize)
	if err != nil {
		return err
	}

	primaryCount := int(params.PrimaryCount)
	maxPrimary := len(layouts)
	if maxPrimary > 4 {
		maxPrimary = 3
	}
	if primaryCount > maxPrimary || primaryCount < 1 {
		primaryCount = maxPrimary
	}

	if log != nil {
		log.LogAttrs(context.Background(), slog.LevelDebug, "partition: layout planned",
			slog.Int("count", len(layouts)), slog.Int("primaryCount", primaryCount))
	}

	return writePartitionTable(d, buf, layouts, primaryCount, params.TotalSectors, gap)
}
