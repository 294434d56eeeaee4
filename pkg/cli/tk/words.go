package tk

// Finds the start of the word before dot: scanning backward, the first
// non-alphanumeric character after at least one alphanumeric character ends
// the word, and the result is the position after it. Returns 0 if no such
// character exists.
func wordLeft(line string, dot int) int {
	inWord := false
	for i := dot - 1; i >= 0; i-- {
		if isAlnum(line[i]) {
			inWord = true
		} else if inWord {
			return i + 1
		}
	}
	return 0
}

// Finds the end of the word after dot: scanning forward, returns the position
// of the first non-alphanumeric character after at least one alphanumeric
// character, or len(line) if there is none.
func wordRight(line string, dot int) int {
	inWord := false
	for i := dot; i < len(line); i++ {
		if isAlnum(line[i]) {
			inWord = true
		} else if inWord {
			return i
		}
	}
	return len(line)
}

func isAlnum(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}
