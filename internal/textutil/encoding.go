package textutil

// Encoding identifies a text file's byte-order-mark signature. Only
// single-byte text is paged; UTF-16 variants are detected so callers can
// exclude them.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf-8 bom"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "unknown"
	}
}

// IsUTF16 reports whether the encoding is a UTF-16 variant.
func (e Encoding) IsUTF16() bool {
	return e == EncodingUTF16LE || e == EncodingUTF16BE
}

// DetectEncoding inspects the leading bytes of sample for a BOM.
func DetectEncoding(sample []byte) Encoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return EncodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return EncodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return EncodingUTF16BE
		}
	}
	return EncodingUnknown
}
