// Package ansi removes terminal escape sequences from text captured in a
// terminal before it becomes document content.
package ansi

import "regexp"

const escapeSequence = "[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))"

var escapeSequenceRegexp = regexp.MustCompile(escapeSequence)

func Strip(b []byte) []byte {
	return escapeSequenceRegexp.ReplaceAll(b, nil)
}

func StripString(s string) string {
	return escapeSequenceRegexp.ReplaceAllString(s, "")
}
