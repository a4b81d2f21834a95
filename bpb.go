package fat

import "encoding/binary"

// biosParamBlock is a byte-offset view over one sector's worth of scratch
// space, the same pattern the teacher's sectors.go uses for on-disk
// structures: no intermediate struct is marshaled, the sector buffer is
// written directly through named offset constants.
type biosParamBlock struct {
	b []byte
}

func newBIOSParamBlock(sector []byte) biosParamBlock {
	return biosParamBlock{b: sector}
}

func (bpb biosParamBlock) writeCommon(p *geometryPlan, volumeSerial uint32, label [volumeLabelLen]byte) {
	b := bpb.b
	b[bsJmpBoot], b[bsJmpBoot+1], b[bsJmpBoot+2] = 0xEB, 0x58, 0x90
	copy(b[bsOEMName:bsOEMName+8], "MKFAT1.0")
	binary.LittleEndian.PutUint16(b[bpbBytsPerSec:], p.sectorSize)
	b[bpbSecPerClus] = byte(p.sectorsPerCluster)
	binary.LittleEndian.PutUint16(b[bpbRsvdSecCnt:], uint16(p.reservedSectors))
	b[bpbNumFATs] = 2
	b[bpbMedia] = mediaFixed
	binary.LittleEndian.PutUint16(b[bpbSecPerTrk:], 63)
	binary.LittleEndian.PutUint16(b[bpbNumHeads:], 255)
	binary.LittleEndian.PutUint32(b[bpbHiddSec:], p.hiddenSectors)

	if p.totalSectors <= 0xFFFF {
		binary.LittleEndian.PutUint16(b[bpbTotSec16:], uint16(p.totalSectors))
	} else {
		binary.LittleEndian.PutUint32(b[bpbTotSec32:], p.totalSectors)
	}

	if p.fatType == FAT16 {
		binary.LittleEndian.PutUint16(b[bpbRootEntCnt:], uint16(p.fat16RootSectors*uint32(p.sectorSize)/sizeDirEntry))
		binary.LittleEndian.PutUint16(b[bpbFATSz16:], uint16(p.sectorsPerFAT))
		b[bsDrvNum] = 0x00
		b[bsBootSig] = 0x29
		binary.LittleEndian.PutUint32(b[bsVolID:], volumeSerial)
		copy(b[bsVolLab:bsVolLab+volumeLabelLen], label[:])
		copy(b[bsFilSysType:bsFilSysType+8], "FAT16   ")
	} else {
		binary.LittleEndian.PutUint16(b[bpbRootEntCnt:], 0)
		binary.LittleEndian.PutUint16(b[bpbFATSz16:], 0)
		binary.LittleEndian.PutUint32(b[bpbFATSz32:], p.sectorsPerFAT)
		binary.LittleEndian.PutUint16(b[bpbExtFlags32:], 0)
		binary.LittleEndian.PutUint16(b[bpbFSVer32:], 0)
		binary.LittleEndian.PutUint32(b[bpbRootClus32:], p.fat32RootCluster)
		binary.LittleEndian.PutUint16(b[bpbFSInfo32:], 1)
		binary.LittleEndian.PutUint16(b[bpbBkBootSec32:], 6)
		b[bsDrvNum32] = 0x00
		b[bsBootSig32] = 0x29
		binary.LittleEndian.PutUint32(b[bsVolID32:], volumeSerial)
		copy(b[bsVolLab32:bsVolLab32+volumeLabelLen], label[:])
		copy(b[bsFilSysType32:bsFilSysType32+8], "FAT32   ")
	}

	binary.LittleEndian.PutUint16(b[bs55AA:], BootSectorSignature)
}

// BootSectorSignature is the 0x55AA magic every valid boot sector ends with.
const BootSectorSignature = 0xAA55

// fsInfoSector is the FAT32-only companion sector written at reserved
// sector 1 (and mirrored at the backup boot sector + 1), tracking the free
// cluster count and next-free hint. Neither is maintained at runtime by
// this package; §1 Non-goals excludes "FSInfo maintenance during runtime".
// The values written here are the formatter's best-known state at format
// time: all data clusters free, next-free hint at the first data cluster.
type fsInfoSector struct {
	b []byte
}

func newFSInfoSector(sector []byte) fsInfoSector {
	return fsInfoSector{b: sector}
}

func (f fsInfoSector) write(freeClusters, nextFree uint32) {
	b := f.b
	binary.LittleEndian.PutUint32(b[fsiLeadSig:], leadSignature)
	binary.LittleEndian.PutUint32(b[fsiStrucSig:], strucSig)
	binary.LittleEndian.PutUint32(b[fsiFreeCount:], freeClusters)
	binary.LittleEndian.PutUint32(b[fsiNxtFree:], nextFree)
	binary.LittleEndian.PutUint32(b[fsiTrailSig:], trailSig)
}
