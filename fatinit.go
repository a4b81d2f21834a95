package fat

import "encoding/binary"

// initFATs implements §4.4: write two identical copies of an otherwise
// empty FAT, each starting with the media-descriptor sentinel entries, and
// zero for every remaining entry (the "free cluster" marker). Sectors are
// written sequentially; the first write error aborts the whole operation,
// leaving the FAT region in an indeterminate state, as anywhere else in
// this package.
func initFATs(d Disk, p *geometryPlan, buf *sectorBuffer) error {
	fatBegin := p.fatBeginLBA()
	for copyIdx := uint32(0); copyIdx < 2; copyIdx++ {
		base := fatBegin + copyIdx*p.sectorsPerFAT
		for sec := uint32(0); sec < p.sectorsPerFAT; sec++ {
			sector := buf.zero()
			if sec == 0 {
				writeFATSentinels(sector, p.fatType)
			}
			lba := base + sec
			if err := d.WriteSectors(lba, sector); err != nil {
				return ioErr(lba, err)
			}
		}
	}
	return nil
}

func writeFATSentinels(sector []byte, t FATType) {
	if t == FAT16 {
		binary.LittleEndian.PutUint16(sector[0:], 0xFFF8)
		binary.LittleEndian.PutUint16(sector[2:], 0xFFFF)
		return
	}
	binary.LittleEndian.PutUint32(sector[0:], 0x0FFFFFF8)
	binary.LittleEndian.PutUint32(sector[4:], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(sector[8:], 0x0FFFFFFF)
}
