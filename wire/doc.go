// Package wire implements the RouterOS API wire format.
//
// The API exchanges sentences. A sentence is an ordered list of words, each
// word is a length prefix followed by UTF-8 bytes, and a zero-length word
// ends the sentence. The length prefix is a self-describing variable-length
// integer whose leading bits select its width.
//
// # Writing
//
// WriteSentence serializes a command into one Write call:
//
//	n, err := wire.WriteSentence(conn, []string{"/login", "=name=admin", "=password="})
//
// # Reading
//
// Replies are usually accumulated into a buffer and decoded at once:
//
//	words, err := wire.DecodeWords(buf)
//	reply := wire.ParseReply(words)
//	if reply.Tag == wire.TagTrap {
//	    return errors.New(reply.Message())
//	}
//	records := wire.ToRecords(words)
//
// FinalReplyReceived tells a reader when a buffer holds a complete reply, and
// ReadSentence reads sentences one at a time from a stream.
//
// # Records
//
// ToRecords turns each !re block into a Record: ".id" becomes "id" with its
// leading "*" removed, hyphenated keys become camelCase, and numeric and
// boolean values are converted to int64, float64 and bool.
package wire
