package wire

import "strings"

// Reply is one tagged reply block: the tag word and the words that followed
// it.
type Reply struct {
	Tag   string   // !re, !done, !trap or !fatal
	Words []string // Attribute words following the tag
}

// ParseReply treats the first word as the tag and the remainder as data
// words. Leading terminators are skipped.
func ParseReply(words []string) Reply {
	for len(words) > 0 && words[0] == "" {
		words = words[1:]
	}
	if len(words) == 0 {
		return Reply{}
	}
	return Reply{Tag: words[0], Words: words[1:]}
}

// IsTrap reports whether the reply is an error row.
func (r Reply) IsTrap() bool {
	return r.Tag == TagTrap || r.Tag == TagFatal
}

// Attr returns the value of the first "=key=value" word with the given key.
func (r Reply) Attr(key string) (string, bool) {
	for _, word := range r.Words {
		if word == "" {
			// end of this reply sentence
			break
		}
		k, v, ok := SplitAttribute(word)
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}

// Message returns the router's error text of a !trap or !fatal reply.
// !fatal carries its text as a bare word rather than an attribute.
func (r Reply) Message() string {
	if msg, ok := r.Attr(AttrMessage); ok {
		return msg
	}
	if r.Tag == TagFatal && len(r.Words) > 0 {
		return r.Words[0]
	}
	return ""
}

// FindTrap returns the first !trap or !fatal sentence in a flat word
// sequence.
func FindTrap(words []string) (Reply, bool) {
	for _, sentence := range SplitSentences(words) {
		reply := ParseReply(sentence)
		if reply.IsTrap() {
			return reply, true
		}
	}
	return Reply{}, false
}

// SplitAttribute splits an attribute word "=key=value" on the first "=" after
// the prefix. ok is false for words without the "=" prefix. A word without a
// second "=" has an empty value.
func SplitAttribute(word string) (key, value string, ok bool) {
	rest, ok := strings.CutPrefix(word, AttrPrefix)
	if !ok {
		return "", "", false
	}
	key, value, _ = strings.Cut(rest, AttrSeparator)
	return key, value, true
}
