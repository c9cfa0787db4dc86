package source

import "fortio.org/safecast"

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// buildLineIndex records the byte offset of every '\n' in content. CRLF
// files are covered too: the '\n' of each pair is the recorded boundary.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(err)
			}
			out = append(out, off)
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line/column using a line index.
// Columns are byte columns; display columns are the renderer's concern.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// binary search for the last boundary strictly before off; an offset
	// pointing at a '\n' still belongs to the line that '\n' terminates
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi // index of the last boundary strictly before off

	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	startOff := lineIdx[line] + 1
	lineNo, err := safecast.Conv[uint32](line)
	if err != nil {
		panic(err)
	}
	// boundary index k ends 0-based line k, so off sits on line k+1 (0-based),
	// which is line k+2 in 1-based numbering
	return LineCol{Line: lineNo + 2, Col: off - startOff + 1}
}
