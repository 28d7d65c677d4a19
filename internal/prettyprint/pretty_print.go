package prettyprint

import "github.com/muesli/termenv"

var (
	DEFAULT_DARKMODE_PRINT_COLORS = PrettyPrintColors{
		ControlKeyword: GetFullColorSequence(termenv.ANSIBrightMagenta, false),
		OtherKeyword:   GetFullColorSequence(termenv.ANSIBlue, false),
		StringLiteral:  GetFullColorSequence(termenv.ANSI256Color(209), false),
		NumberLiteral:  GetFullColorSequence(termenv.ANSIBrightGreen, false),
		Constant:       GetFullColorSequence(termenv.ANSIBlue, false),
		NativeFunction: GetFullColorSequence(termenv.ANSIYellow, false),
		Comment:        GetFullColorSequence(termenv.ANSIBrightBlack, false),
		DiscreteColor:  GetFullColorSequence(termenv.ANSIBrightBlack, false),

		SuccessColor: GetFullColorSequence(termenv.ANSIBrightGreen, false),
		WarnColor:    GetFullColorSequence(termenv.ANSIYellow, false),
		ErrorColor:   GetFullColorSequence(termenv.ANSIRed, false),
	}

	DEFAULT_LIGHTMODE_PRINT_COLORS = PrettyPrintColors{
		ControlKeyword: GetFullColorSequence(termenv.ANSI256Color(90), false),
		OtherKeyword:   GetFullColorSequence(termenv.ANSI256Color(26), false),
		StringLiteral:  GetFullColorSequence(termenv.ANSI256Color(88), false),
		NumberLiteral:  GetFullColorSequence(termenv.ANSI256Color(28), false),
		Constant:       GetFullColorSequence(termenv.ANSI256Color(21), false),
		NativeFunction: GetFullColorSequence(termenv.ANSI256Color(130), false),
		Comment:        GetFullColorSequence(termenv.ANSIBrightBlack, false),
		DiscreteColor:  GetFullColorSequence(termenv.ANSIBrightBlack, false),

		SuccessColor: GetFullColorSequence(termenv.ANSIBrightGreen, false),
		WarnColor:    GetFullColorSequence(termenv.ANSIYellow, false),
		ErrorColor:   GetFullColorSequence(termenv.ANSIRed, false),
	}

	ANSI_RESET_SEQUENCE = []byte(termenv.CSI + termenv.ResetSeq + "m")
)

type PrettyPrintColors struct {
	//sparv code
	ControlKeyword, OtherKeyword, StringLiteral, NumberLiteral, Constant, NativeFunction, Comment,

	DiscreteColor,
	SuccessColor, WarnColor, ErrorColor []byte
}

// GetColors returns the colors adapted to the background of the terminal.
func GetColors(output *termenv.Output) *PrettyPrintColors {
	if output.HasDarkBackground() {
		return &DEFAULT_DARKMODE_PRINT_COLORS
	}
	return &DEFAULT_LIGHTMODE_PRINT_COLORS
}

func GetFullColorSequence(color termenv.Color, bg bool) []byte {
	var b = []byte(termenv.CSI)
	b = append(b, []byte(color.Sequence(bg))...)
	b = append(b, 'm')
	return b
}

// Colorize wraps s between the color sequence and the reset sequence.
func Colorize(s string, color []byte) string {
	if len(color) == 0 || s == "" {
		return s
	}
	return string(color) + s + string(ANSI_RESET_SEQUENCE)
}
