package fat

// SizeType selects how PartitionParams.Sizes are interpreted.
type SizeType uint8

const (
	// Sectors: sizes are absolute sector counts.
	Sectors SizeType = iota
	// Percent: sizes are percentages of available space; must sum to <= 100.
	Percent
	// Quota: sizes are proportional shares; the whole of available space is
	// divided among them regardless of their sum. A generalization of
	// Percent beyond spec.md's Sectors/Percent pair, modeled on ff_format.c's
	// FF_Partition (see SPEC_FULL.md Supplemented Features).
	Quota
)

// PartitionParams describes the partition layout request passed to
// Partition. Sizes beyond the first k nonzero entries are ignored.
type PartitionParams struct {
	Sizes         [MaxPartitions]uint32
	SizeType      SizeType
	PrimaryCount  uint8
	HiddenSectors uint32
	TotalSectors  uint32
	InterSpace    uint32 // defaults to InterPartitionGap when zero.
}

// partitionLayout is one planned partition: start LBA and sector count,
// ready for the MBR/EBR writer.
type partitionLayout struct {
	startLBA    uint32
	sectorCount uint32
}

// planPartitions implements §4.6: normalize the request, validate available
// space for the chosen SizeType, then assign each partition its slice of
// the device proportionally (Percent/Quota) or verbatim (Sectors). The
// returned gap is the inter-partition spacing reserved immediately before
// each logical partition's data (see writeExtendedMBR); it is 0 when no
// logical partitions are needed.
func planPartitions(params PartitionParams) ([]partitionLayout, uint32, error) {
	gap := params.InterSpace
	if gap == 0 {
		gap = InterPartitionGap
	}

	k := 0
	for _, s := range params.Sizes {
		if s != 0 {
			k++
		}
	}

	sizes := make([]uint32, 0, MaxPartitions)
	if k == 0 {
		k = 1
		if params.SizeType == Percent {
			sizes = append(sizes, 100)
		} else if params.SizeType == Sectors {
			sizes = append(sizes, params.TotalSectors-params.HiddenSectors)
		} else {
			sizes = append(sizes, 1)
		}
	} else {
		for _, s := range params.Sizes {
			if s != 0 {
				sizes = append(sizes, s)
			}
		}
	}

	primaryCount := int(params.PrimaryCount)
	maxPrimary := k
	if k > 4 {
		maxPrimary = 3
	}
	if primaryCount > maxPrimary {
		primaryCount = maxPrimary
	}
	if primaryCount < 1 {
		primaryCount = maxPrimary
	}

	needsExtended := k > primaryCount
	minHidden := uint32(1)
	if needsExtended {
		minHidden = 4096
	}
	H := params.HiddenSectors
	if H < minHidden {
		H = minHidden
	}

	var reservedGap uint32
	if needsExtended {
		reservedGap = gap * uint32(k-primaryCount)
	}

	if params.TotalSectors < H+reservedGap {
		return nil, 0, badMemSize("partition layout does not fit available space", nil)
	}
	available := params.TotalSectors - H - reservedGap

	var sum uint32
	for _, s := range sizes {
		sum += s
	}

	var divisor uint32
	switch params.SizeType {
	case Sectors:
		if sum > available {
			return nil, 0, badMemSize("requested sector sizes exceed available space", nil)
		}
	case Percent:
		if sum > 100 {
			return nil, 0, badMemSize("percent sizes sum to more than 100", nil)
		}
		divisor = 100
	case Quota:
		if sum == 0 {
			return nil, 0, invalidArg("quota sizes must not all be zero")
		}
		divisor = sum
	default:
		return nil, 0, invalidArg("unknown partition size type")
	}

	// Each logical partition's data begins gap sectors past its own EBR, so
	// the gap is reserved in the LBA sequence immediately before it (see
	// writeExtendedMBR), not just subtracted from the available budget.
	layouts := make([]partitionLayout, k)
	remaining := available
	lba := H
	for i, s := range sizes {
		if needsExtended && i >= primaryCount {
			lba += gap
		}
		var size uint32
		if params.SizeType == Sectors {
			size = s
		} else {
			size = uint32(uint64(s) * uint64(available) / uint64(divisor))
		}
		if size > remaining {
			size = remaining
		}
		layouts[i] = partitionLayout{startLBA: lba, sectorCount: size}
		remaining -= size
		lba += size
	}
	if !needsExtended {
		gap = 0
	}
	return layouts, gap, nil
}
