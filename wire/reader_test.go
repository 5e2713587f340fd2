package wire

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

// countingWriter records how many Write calls it received.
type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(b []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(b)
}

func TestWriteSentence(t *testing.T) {
	w := &countingWriter{}
	words := []string{"/login", "=name=admin", "=password=x"}

	n, err := WriteSentence(w, words)
	if err != nil {
		t.Fatalf("WriteSentence failed: %v", err)
	}
	if n != 3 {
		t.Errorf("WriteSentence returned %d, want 3", n)
	}
	if w.calls != 1 {
		t.Errorf("sentence written in %d calls, want 1", w.calls)
	}

	expected := "\x06/login\x0b=name=admin\x0b=password=x\x00"
	if got := w.String(); got != expected {
		t.Errorf("wire bytes = %q, want %q", got, expected)
	}
	if w.Len() != SentenceSize(words) {
		t.Errorf("SentenceSize = %d, wrote %d bytes", SentenceSize(words), w.Len())
	}
}

func TestWriteSentenceError(t *testing.T) {
	n, err := WriteSentence(failingWriter{}, []string{"/login"})
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 0 {
		t.Errorf("WriteSentence returned %d words on failure, want 0", n)
	}
}

func TestWriteSentenceLongWord(t *testing.T) {
	long := strings.Repeat("x", 200)

	var buf bytes.Buffer
	if _, err := WriteSentence(&buf, []string{long}); err != nil {
		t.Fatalf("WriteSentence failed: %v", err)
	}

	b := buf.Bytes()
	if b[0] != 0x80 || b[1] != 200 {
		t.Errorf("prefix = % x, want 80 c8", b[:2])
	}
}

func TestDecodeWordsRoundTrip(t *testing.T) {
	words := []string{"/login", "=name=admin", "=password=x"}

	var buf bytes.Buffer
	if _, err := WriteSentence(&buf, words); err != nil {
		t.Fatalf("WriteSentence failed: %v", err)
	}

	got, err := DecodeWords(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeWords failed: %v", err)
	}

	expected := append(append([]string{}, words...), "")
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("DecodeWords = %q, want %q", got, expected)
	}
}

func TestDecodeWordsUTF8(t *testing.T) {
	buf := AppendSentence(nil, []string{"=comment=señal ✓"})

	got, err := DecodeWords(buf)
	if err != nil {
		t.Fatalf("DecodeWords failed: %v", err)
	}
	if got[0] != "=comment=señal ✓" {
		t.Errorf("DecodeWords = %q", got)
	}
}

func TestDecodeWordsTruncated(t *testing.T) {
	buf := AppendSentence(nil, []string{"!re", "=name=alice"})
	buf = buf[:len(buf)-4]

	got, err := DecodeWords(buf)

	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if !reflect.DeepEqual(got, []string{"!re"}) {
		t.Errorf("partial words = %q, want [!re]", got)
	}
}

func TestSplitSentences(t *testing.T) {
	words := []string{"!re", "=name=a", "", "!re", "=name=b", "", "!done", ""}

	got := SplitSentences(words)
	expected := [][]string{{"!re", "=name=a"}, {"!re", "=name=b"}, {"!done"}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("SplitSentences = %q, want %q", got, expected)
	}
}

func TestFinalReplyReceived(t *testing.T) {
	sentence := func(words ...string) []byte { return AppendSentence(nil, words) }
	concat := func(parts ...[]byte) []byte { return bytes.Join(parts, nil) }

	done := sentence("!done")
	rows := concat(sentence("!re", "=name=a"), sentence("!re", "=name=b"))

	tests := []struct {
		name     string
		buf      []byte
		expected bool
	}{
		{name: "empty", buf: nil, expected: false},
		{name: "rows only", buf: rows, expected: false},
		{name: "rows then done", buf: concat(rows, done), expected: true},
		{name: "done without terminator", buf: done[:len(done)-1], expected: false},
		{name: "trap", buf: sentence("!trap", "=message=failure"), expected: true},
		{name: "fatal", buf: sentence("!fatal", "session terminated"), expected: true},
		{name: "done as attribute value", buf: sentence("!re", "!done"), expected: false},
		{name: "garbage", buf: []byte{0xFF, 0x01}, expected: false},
		{name: "partial row", buf: concat(rows, sentence("!done"))[:len(rows)+2], expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FinalReplyReceived(tt.buf); got != tt.expected {
				t.Errorf("FinalReplyReceived = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadSentence(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00}) // stray terminator is skipped
	WriteSentence(&buf, []string{"/login", "=name=admin"})
	WriteSentence(&buf, []string{"/ip/hotspot/user/print"})

	r := bufio.NewReader(&buf)

	first, err := ReadSentence(r)
	if err != nil {
		t.Fatalf("ReadSentence failed: %v", err)
	}
	if !reflect.DeepEqual(first, []string{"/login", "=name=admin"}) {
		t.Errorf("first sentence = %q", first)
	}

	second, err := ReadSentence(r)
	if err != nil {
		t.Fatalf("ReadSentence failed: %v", err)
	}
	if !reflect.DeepEqual(second, []string{"/ip/hotspot/user/print"}) {
		t.Errorf("second sentence = %q", second)
	}

	if _, err := ReadSentence(r); err != io.EOF {
		t.Errorf("ReadSentence at end = %v, want io.EOF", err)
	}
}

func TestReadSentenceUnterminated(t *testing.T) {
	buf := AppendSentence(nil, []string{"!re", "=name=a"})
	buf = buf[:len(buf)-1]

	_, err := ReadSentence(bufio.NewReader(bytes.NewReader(buf)))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSentence = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReadSentenceWordTooLarge(t *testing.T) {
	// a prefix announcing a word just past the limit, and no word bytes
	buf := AppendLength(nil, MaxWordSize+1)

	_, err := ReadSentence(bufio.NewReader(bytes.NewReader(buf)))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("ReadSentence = %v, want *DecodeError", err)
	}
	if !strings.Contains(decErr.Message, "MaxWordSize") {
		t.Errorf("Message = %q", decErr.Message)
	}
}

func TestDecodeWordsHugeLength(t *testing.T) {
	buf := []byte{0xF0, 0xFF, 0xFF, 0xFF, 0xFF, 'x'}

	words, err := DecodeWords(buf)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("DecodeWords = %q, %v, want *DecodeError", words, err)
	}
	if len(words) != 0 {
		t.Errorf("words = %q, want none", words)
	}
	if FinalReplyReceived(buf) {
		t.Error("FinalReplyReceived = true for a truncated word")
	}
}
