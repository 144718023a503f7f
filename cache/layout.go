package cache

// EntryOffData is the byte offset of key data inside an off-heap hash entry:
// an 8-byte next-entry pointer followed by a 1-byte key length.
// Every entry is charged this header on top of its key and value bytes so
// the on-heap accounting matches the off-heap engine exactly.
const EntryOffData = 8 + 1

// SizeOf returns the number of budget bytes an entry for key/value occupies.
func SizeOf(key Key, value []byte) int64 {
	return EntryOffData + int64(key.Size()) + int64(len(value))
}
