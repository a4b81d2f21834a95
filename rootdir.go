package fat

import (
	"encoding/binary"
	"time"
)

// initRootDir implements §4.5: write the root directory region as all
// zeroed entries except for a single volume-label entry at index 0, when a
// label was supplied. clock is optional; a nil clock leaves the
// label entry's timestamps zeroed rather than guessing a value.
func initRootDir(d Disk, p *geometryPlan, buf *sectorBuffer, label [volumeLabelLen]byte, hasLabel bool, clock func() time.Time) error {
	base := p.rootBeginLBA()
	count := p.rootSectorCount()
	for sec := uint32(0); sec < count; sec++ {
		sector := buf.zero()
		if sec == 0 && hasLabel {
			writeVolumeLabelEntry(sector, label, clock)
		}
		lba := base + sec
		if err := d.WriteSectors(lba, sector); err != nil {
			return ioErr(lba, err)
		}
	}
	return nil
}

func writeVolumeLabelEntry(sector []byte, label [volumeLabelLen]byte, clock func() time.Time) {
	copy(sector[dirName:dirName+volumeLabelLen], label[:])
	sector[dirAttr] = attrVolumeID
	if clock == nil {
		return
	}
	now := clock()
	date, tm := fatDateTime(now)
	binary.LittleEndian.PutUint16(sector[dirCrtTime:], tm)
	binary.LittleEndian.PutUint16(sector[dirCrtDate:], date)
	binary.LittleEndian.PutUint16(sector[dirWrtTime:], tm)
	binary.LittleEndian.PutUint16(sector[dirWrtDate:], date)
	binary.LittleEndian.PutUint16(sector[dirLstAccDate:], date)
}

// fatDateTime packs t into the FAT directory-entry date/time encoding:
// date = (year-1980)<<9 | month<<5 | day; time = hour<<11 | min<<5 | sec/2.
func fatDateTime(t time.Time) (date, tm uint16) {
	year := t.Year()
	if year < 1980 {
		year = 1980
	}
	date = uint16(year-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	tm = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, tm
}
