package wire

// Reply tags sent by the router as the first word of a reply sentence.
const (
	// TagRe is a data row.
	TagRe = "!re"

	// TagDone marks successful completion, no more rows follow.
	TagDone = "!done"

	// TagTrap is an error row. The router usually follows it with !done.
	TagTrap = "!trap"

	// TagFatal is sent right before the router closes the connection.
	TagFatal = "!fatal"
)

// Command words.
const (
	// CmdLogin is the command path of the login sentence.
	CmdLogin = "/login"
)

// Attribute word syntax: "=key=value".
const (
	// AttrPrefix starts every attribute word.
	AttrPrefix = "="

	// AttrSeparator separates the key from the value.
	AttrSeparator = "="

	// AttrMessage carries the human-readable text of !trap and !fatal replies.
	AttrMessage = "message"

	// AttrCategory carries the numeric error category of !trap replies.
	AttrCategory = "category"

	// AttrID is the internal item id attribute (".id=*1A").
	AttrID = ".id"
)

// Length prefix limits and markers.
const (
	maxLen1 = 0x80
	maxLen2 = 0x4000
	maxLen3 = 0x200000
	maxLen4 = 0x10000000

	marker2 = 0x80
	marker3 = 0xC0
	marker4 = 0xE0
	marker5 = 0xF0

	// controlByte is the first reserved leading byte (0xF8..0xFF).
	controlByte = 0xF8
)

// MaxWordSize is the largest word ReadSentence accepts. The prefix format
// allows words up to 4 GiB.
const MaxWordSize = 16 << 20

// Attribute builds an attribute word "=key=value".
func Attribute(key, value string) string {
	return AttrPrefix + key + AttrSeparator + value
}
