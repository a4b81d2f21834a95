package fat

import (
	"context"
	"log/slog"
)

// Configuration knobs, compile-time per §6 of the design.
const (
	MinClustersFAT16    = 4086
	MinClustersFAT32    = 65525
	FAT16RootSectors    = 32
	MaxPartitions       = 4
	InterPartitionGap   = 2048
	fat32MaxClusters    = 0x0FFFFFEF
	fat16MaxClusters    = 65536
	optimizerMinSectors = 0x100000 // 512 MiB, see prvFormatOptimiseFATLocation.
	optimizerMaxHidden  = 8192
	optimizerTargetLBA  = 8192 // MX_LBA_TO_MOVE_FAT
	optimizerAlign      = 128
)

// FATType selects the on-disk FAT variant. FAT12 and exFAT are explicit
// Non-goals; only FAT16 and FAT32 are ever chosen by the planner.
type FATType uint8

const (
	FAT16 FATType = iota + 1
	FAT32
)

func (t FATType) String() string {
	switch t {
	case FAT16:
		return "FAT16"
	case FAT32:
		return "FAT32"
	default:
		return "unknown"
	}
}

// clustersPerFATSector returns how many cluster-link entries fit in one FAT
// sector: sector_size/2 for FAT16, sector_size/4 for FAT32.
func (t FATType) clustersPerFATSector(sectorSize uint16) uint32 {
	if t == FAT16 {
		return uint32(sectorSize) / 2
	}
	return uint32(sectorSize) / 4
}

// geometryPlan is the planner's output: the complete set of fields needed to
// write a BPB, FSInfo, FAT tables and root directory that satisfy §3's
// invariants. It is built once per Format call and discarded immediately
// after use; nothing here persists.
type geometryPlan struct {
	fatType              FATType
	sectorSize           uint16
	totalSectors         uint32 // N: sectors in the partition, hidden sectors excluded.
	hiddenSectors        uint32 // H
	reservedSectors      uint32
	fat16RootSectors     uint32
	fat32RootCluster     uint32
	sectorsPerCluster    uint16
	sectorsPerFAT        uint32
	usableDataClusters   uint32
	clustersPerFATSector uint32
	optimized            bool
}

func (p *geometryPlan) clusterBeginLBA() uint32 {
	return p.hiddenSectors + p.reservedSectors + 2*p.sectorsPerFAT
}

func (p *geometryPlan) fatBeginLBA() uint32 {
	return p.hiddenSectors + p.reservedSectors
}

// rootBeginLBA returns the first sector of the root directory region: for
// FAT16 this is right after the two FATs; for FAT32 it is the cluster-begin
// LBA, since the root directory is cluster 2.
func (p *geometryPlan) rootBeginLBA() uint32 {
	if p.fatType == FAT32 {
		return p.clusterBeginLBA()
	}
	return p.fatBeginLBA() + 2*p.sectorsPerFAT
}

// rootSectorCount returns how many sectors the root directory region spans.
func (p *geometryPlan) rootSectorCount() uint32 {
	if p.fatType == FAT32 {
		return uint32(p.sectorsPerCluster)
	}
	return p.fat16RootSectors
}

// planGeometry implements §4.1: choose FAT type, then search for a
// sectors-per-cluster value that lands usableDataClusters inside the legal
// range for that type. preferFAT16 only steers the type choice; a volume
// too large for FAT16 always becomes FAT32 regardless of preference.
func planGeometry(totalSectors, hiddenSectors uint32, preferFAT16, smallClusters bool, sectorSize uint16, log *slog.Logger) (*geometryPlan, error) {
	if !validSectorSize(sectorSize) {
		return nil, invalidArg("unsupported sector size")
	}

	p := &geometryPlan{
		sectorSize:    sectorSize,
		totalSectors:  totalSectors,
		hiddenSectors: hiddenSectors,
	}

	tooBigForFAT16 := totalSectors >= 32 && totalSectors-32 >= 64*MinClustersFAT32
	if (!preferFAT16 && totalSectors >= 32 && totalSectors-32 >= fat16MaxClusters) || tooBigForFAT16 {
		p.fatType = FAT32
		p.reservedSectors = 32
		p.fat16RootSectors = 0
		p.fat32RootCluster = 2
	} else {
		p.fatType = FAT16
		p.reservedSectors = 1
		p.fat16RootSectors = FAT16RootSectors
		p.fat32RootCluster = 0
	}
	p.clustersPerFATSector = p.fatType.clustersPerFATSector(sectorSize)

	var spc uint16
	var step func(uint16) (uint16, bool) // returns next spc and whether the search is exhausted
	if smallClusters {
		spc = 1
		step = func(cur uint16) (uint16, bool) {
			if cur == 32 {
				return 0, true
			}
			return cur * 2, false
		}
	} else {
		if p.fatType == FAT32 {
			spc = 64
		} else {
			spc = 32
		}
		step = func(cur uint16) (uint16, bool) {
			if cur == 1 {
				return 0, true
			}
			return cur / 2, false
		}
	}

	var attempts []GeometryAttempt
	for {
		nonData := hiddenSectors + p.reservedSectors + p.fat16RootSectors
		if nonData >= totalSectors {
			attempts = append(attempts, GeometryAttempt{FATType: p.fatType, SectorsPerCluster: spc})
		} else {
			usableSectors := totalSectors - nonData
			group := uint32(2) + p.clustersPerFATSector*uint32(spc)
			sectorsPerFAT := (usableSectors + group - uint32(spc) - 2) / group
			usableDataSectors := usableSectors - 2*sectorsPerFAT
			usableDataClusters := usableDataSectors / uint32(spc)
			if byFAT := p.clustersPerFATSector * sectorsPerFAT; byFAT < usableDataClusters {
				usableDataClusters = byFAT
			}

			attempts = append(attempts, GeometryAttempt{FATType: p.fatType, SectorsPerCluster: spc, UsableDataClusters: usableDataClusters})

			ok := false
			if p.fatType == FAT16 {
				ok = usableDataClusters >= MinClustersFAT16 && usableDataClusters < fat16MaxClusters
			} else {
				ok = usableDataClusters >= MinClustersFAT32 && usableDataClusters < fat32MaxClusters
			}
			if ok {
				p.sectorsPerCluster = spc
				p.sectorsPerFAT = sectorsPerFAT
				p.usableDataClusters = usableDataClusters
				logPlan(log, "geometry: accepted", p)
				return p, nil
			}
		}

		next, exhausted := step(spc)
		if exhausted {
			logPlan(log, "geometry: exhausted cluster-size search", p)
			return nil, badMemSize(errBadSizeMsg(p.fatType, totalSectors), attempts)
		}
		spc = next
	}
}

func errBadSizeMsg(t FATType, n uint32) string {
	return "no cluster size of " + t.String() + " fits " + itoa(n) + " sectors"
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func logPlan(log *slog.Logger, msg string, p *geometryPlan) {
	if log == nil {
		return
	}
	log.LogAttrs(context.Background(), slog.LevelDebug, msg,
		slog.String("fatType", p.fatType.String()),
		slog.Uint64("sectorsPerCluster", uint64(p.sectorsPerCluster)),
		slog.Uint64("reservedSectors", uint64(p.reservedSectors)),
		slog.Uint64("sectorsPerFAT", uint64(p.sectorsPerFAT)),
		slog.Uint64("usableDataClusters", uint64(p.usableDataClusters)),
	)
}

// optimizeFATLocation implements §4.2: for large FAT32 volumes starting
// close to the front of the disk, relocate the FAT to the second 4 MiB
// erase block and pad reserved sectors so the data region starts on a
// 128-sector boundary. sectorsPerFAT is not recomputed; the optimizer only
// grows reservedSectors and absorbs the alignment cost from the data region.
func (p *geometryPlan) optimizeFATLocation(log *slog.Logger) {
	if p.fatType != FAT32 || p.totalSectors < optimizerMinSectors || p.hiddenSectors >= optimizerMaxHidden {
		return
	}

	p.reservedSectors = optimizerTargetLBA - p.hiddenSectors
	nonData := p.reservedSectors + p.fat16RootSectors

	slack := (p.hiddenSectors + nonData + 2*p.sectorsPerFAT) % optimizerAlign
	if slack != 0 {
		p.reservedSectors += optimizerAlign - slack
		nonData = p.reservedSectors + p.fat16RootSectors
	}

	usableDataSectors := p.totalSectors - nonData - 2*p.sectorsPerFAT
	p.usableDataClusters = usableDataSectors / uint32(p.sectorsPerCluster)
	p.optimized = true
	logPlan(log, "geometry: FAT location optimized", p)
}
