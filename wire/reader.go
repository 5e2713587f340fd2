package wire

import (
	"bufio"
	"io"
)

// DecodeWords splits buf into its words, in order. Zero-length words
// (sentence terminators) are kept as empty strings so callers can see
// sentence boundaries.
//
// A length prefix or word running past the end of buf returns the words
// decoded so far together with a *DecodeError.
func DecodeWords(buf []byte) ([]string, error) {
	var words []string

	pos := 0
	for pos < len(buf) {
		length, n, err := DecodeLength(buf, pos)
		if err != nil {
			return words, err
		}
		pos += n

		if length > len(buf)-pos {
			return words, &DecodeError{Message: "truncated word", Offset: pos, Err: io.ErrUnexpectedEOF}
		}
		words = append(words, string(buf[pos:pos+length]))
		pos += length
	}

	return words, nil
}

// SplitSentences groups a flat word sequence, as returned by DecodeWords, into
// sentences. Terminators are dropped; trailing words without a terminator form
// a last, incomplete sentence.
func SplitSentences(words []string) [][]string {
	var sentences [][]string
	var current []string
	for _, word := range words {
		if word == "" {
			if len(current) > 0 {
				sentences = append(sentences, current)
			}
			current = nil
			continue
		}
		current = append(current, word)
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences
}

// FinalReplyReceived reports whether buf contains a complete sentence tagged
// !done, !trap or !fatal. It never fails: a malformed or partial buffer is
// simply not complete yet.
func FinalReplyReceived(buf []byte) bool {
	pos := 0
	sentenceStart := true
	final := false

	for pos < len(buf) {
		length, n, err := DecodeLength(buf, pos)
		if err != nil {
			return false
		}
		pos += n
		if length > len(buf)-pos {
			return false
		}

		if length == 0 {
			if final {
				return true
			}
			sentenceStart = true
			continue
		}

		if sentenceStart {
			tag := string(buf[pos : pos+length])
			final = tag == TagDone || tag == TagTrap || tag == TagFatal
			sentenceStart = false
		}
		pos += length
	}

	return false
}

// ReadSentence reads one sentence from r and returns its words without the
// terminator. Empty sentences (a lone terminator) are skipped. A word longer
// than MaxWordSize is a *DecodeError.
func ReadSentence(r *bufio.Reader) ([]string, error) {
	var words []string
	for {
		length, err := ReadLength(r)
		if err != nil {
			if err == io.EOF && len(words) > 0 {
				err = &DecodeError{Message: "unterminated sentence", Offset: -1, Err: io.ErrUnexpectedEOF}
			}
			return nil, err
		}

		if length == 0 {
			if len(words) == 0 {
				continue
			}
			return words, nil
		}

		if length > MaxWordSize {
			return nil, &DecodeError{Message: "word exceeds MaxWordSize", Offset: -1}
		}

		word := make([]byte, length)
		if _, err := io.ReadFull(r, word); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, &DecodeError{Message: "truncated word", Offset: -1, Err: err}
		}
		words = append(words, string(word))
	}
}
