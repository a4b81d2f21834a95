package fat

// Byte offsets into the structures this package writes. Trimmed from the
// teacher's tables.go: only the fields a formatter/partitioner ever touches
// survive here. Runtime-mount fields (name status flags, codepage tables,
// DBCS/LFN offsets) belong to the read/write half of a FAT stack and are
// out of scope.
const (
	bsJmpBoot     = 0  // x86 jump instruction (3-byte)
	bsOEMName     = 3  // OEM name (8-byte)
	bpbBytsPerSec = 11 // Sector size [byte] (WORD)
	bpbSecPerClus = 13 // Cluster size [sector] (BYTE)
	bpbRsvdSecCnt = 14 // Size of reserved area [sector] (WORD)
	bpbNumFATs    = 16 // Number of FATs (BYTE)
	bpbRootEntCnt = 17 // Size of root directory area for FAT [entry] (WORD)
	bpbTotSec16   = 19 // Volume size (16-bit) [sector] (WORD)
	bpbMedia      = 21 // Media descriptor byte (BYTE)
	bpbFATSz16    = 22 // FAT size (16-bit) [sector] (WORD)
	bpbSecPerTrk  = 24 // Sectors per track for int13h (WORD)
	bpbNumHeads   = 26 // Heads for int13h (WORD)
	bpbHiddSec    = 28 // Volume offset from top of the drive (DWORD)
	bpbTotSec32   = 32 // Volume size (32-bit) [sector] (DWORD)

	// FAT16 boot-sector tail, overlapping the FAT32 fields below.
	bsDrvNum     = 36 // Physical drive number for int13h (BYTE)
	bsNTres      = 37 // WindowsNT error flag (BYTE)
	bsBootSig    = 38 // Extended boot signature (BYTE)
	bsVolID      = 39 // Volume serial number (DWORD)
	bsVolLab     = 43 // Volume label string (11-byte)
	bsFilSysType = 54 // Filesystem type string (8-byte)

	// FAT32-only boot-sector extension.
	bpbFATSz32     = 36 // FAT size [sector] (DWORD)
	bpbExtFlags32  = 40 // Extended flags (WORD)
	bpbFSVer32     = 42 // Filesystem version (WORD)
	bpbRootClus32  = 44 // Root directory start cluster (DWORD)
	bpbFSInfo32    = 48 // Offset of FSINFO sector (WORD)
	bpbBkBootSec32 = 50 // Offset of backup boot sector (WORD)
	bsDrvNum32     = 64 // Physical drive number for int13h (BYTE)
	bsNTres32      = 65 // Error flag (BYTE)
	bsBootSig32    = 66 // Extended boot signature (BYTE)
	bsVolID32      = 67 // Volume serial number (DWORD)
	bsVolLab32     = 71 // Volume label string (11-byte)
	bsFilSysType32 = 82 // Filesystem type string (8-byte)

	bs55AA = 510 // Boot sector signature word (WORD)

	fsiLeadSig    = 0   // FSInfo: leading signature (DWORD)
	fsiStrucSig   = 484 // FSInfo: structure signature (DWORD)
	fsiFreeCount  = 488 // FSInfo: number of free clusters (DWORD)
	fsiNxtFree    = 492 // FSInfo: next free cluster hint (DWORD)
	fsiTrailSig   = 508 // FSInfo: trailing signature (DWORD)
	leadSignature = 0x41615252
	strucSig      = 0x61417272
	trailSig      = 0xAA550000

	// 32-byte directory entry field offsets; only the volume-label entry is
	// ever constructed here.
	dirName       = 0  // Short name (11-byte)
	dirAttr       = 11 // File attribute (BYTE)
	dirNTres      = 12 // Reserved for Windows NT (BYTE)
	dirCrtTime    = 14 // Creation time (WORD)
	dirCrtDate    = 16 // Creation date (WORD)
	dirLstAccDate = 18 // Last accessed date (WORD)
	dirFstClusHI  = 20 // High word of first cluster (WORD)
	dirWrtTime    = 22 // Last modified time (WORD)
	dirWrtDate    = 24 // Last modified date (WORD)
	dirFstClusLO  = 26 // Low word of first cluster (WORD)
	dirFileSize   = 28 // File size in bytes (DWORD)

	attrVolumeID = 0x08

	sizeDirEntry = 32

	mediaFixed = 0xF8
)
