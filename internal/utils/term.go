package utils

import "regexp"

var ANSI_ESCAPE_SEQUENCE_REGEX = regexp.MustCompile("[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

// StripANSISequences removes the colors and the other escape sequences of a highlighted text.
func StripANSISequences(str string) string {
	return ANSI_ESCAPE_SEQUENCE_REGEX.ReplaceAllString(str, "")
}
