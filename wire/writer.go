package wire

import (
	"io"
	"sync"
)

// Buffer pool for building sentences
var bufferPool = sync.Pool{
	New: func() any {
		// A login sentence is well under 128 bytes
		b := make([]byte, 0, 256)
		return &b
	},
}

// maxPooledBuffer keeps huge one-off sentences from pinning memory in the pool.
const maxPooledBuffer = 64 * 1024

// AppendSentence appends the wire form of words to dst: every word's length
// prefix and bytes, then the zero-length terminator.
func AppendSentence(dst []byte, words []string) []byte {
	for _, word := range words {
		dst = AppendLength(dst, len(word))
		dst = append(dst, word...)
	}
	return AppendLength(dst, 0)
}

// SentenceSize returns the number of bytes AppendSentence adds for words.
func SentenceSize(words []string) int {
	size := 1 // terminator
	for _, word := range words {
		size += LengthSize(len(word)) + len(word)
	}
	return size
}

// WriteSentence serializes words and writes the whole sentence to w with a
// single Write call. It returns the number of words written, which is zero
// when the write fails.
func WriteSentence(w io.Writer, words []string) (int, error) {
	bp := bufferPool.Get().(*[]byte)
	buf := AppendSentence((*bp)[:0], words)

	_, err := w.Write(buf)

	if cap(buf) <= maxPooledBuffer {
		*bp = buf[:0]
		bufferPool.Put(bp)
	}

	if err != nil {
		return 0, err
	}
	return len(words), nil
}
