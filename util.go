package smfparse

// varLength decodes the big-endian base-128 quantity at the head of b,
// returning the value and the number of bytes consumed. An encoded
// quantity occupies at most four bytes (28 value bits); a continuation
// bit on the fourth byte is malformed rather than truncated.
func varLength(b []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		if i >= len(b) {
			return 0, 0, ErrUnexpectedEOF
		}
		v = v<<7 | uint32(b[i]&0x7F)
		if b[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrVarLength
}
