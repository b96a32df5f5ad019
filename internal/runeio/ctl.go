// Package runeio names control runes, for rendering raw VM input and output
// bytes in logs and dumps.
package runeio

import "strconv"

// ControlRune represents a named control codepoint.
type ControlRune struct {
	N string
	R rune
}

// C0Ctls contains the classic ASCII control characters.
var C0Ctls = [32]ControlRune{
	{"<NUL>", 0x00}, {"<SOH>", 0x01}, {"<STX>", 0x02}, {"<ETX>", 0x03},
	{"<EOT>", 0x04}, {"<ENQ>", 0x05}, {"<ACK>", 0x06}, {"<BEL>", 0x07},
	{"<BS>", 0x08}, {"<HT>", 0x09}, {"<NL>", 0x0A}, {"<VT>", 0x0B},
	{"<NP>", 0x0C}, {"<CR>", 0x0D}, {"<SO>", 0x0E}, {"<SI>", 0x0F},
	{"<DLE>", 0x10}, {"<DC1>", 0x11}, {"<DC2>", 0x12}, {"<DC3>", 0x13},
	{"<DC4>", 0x14}, {"<NAK>", 0x15}, {"<SYN>", 0x16}, {"<ETB>", 0x17},
	{"<CAN>", 0x18}, {"<EM>", 0x19}, {"<SUB>", 0x1A}, {"<ESC>", 0x1B},
	{"<FS>", 0x1C}, {"<GS>", 0x1D}, {"<RS>", 0x1E}, {"<US>", 0x1F},
}

// PseudoCtls provides the typical mnemonics for space and delete.
var PseudoCtls = [2]ControlRune{
	{"<SP>", 0x20},
	{"<DEL>", 0x7F},
}

// Name returns a printable name for a cell used as a character: control and
// pseudo-control mnemonics like <NL> or <SP>, a quoted rune for other
// printable values, or the decimal number otherwise (e.g. -1 for end of
// input).
func Name(c int) string {
	switch {
	case c >= 0 && c < len(C0Ctls):
		return C0Ctls[c].N
	case c == int(PseudoCtls[0].R):
		return PseudoCtls[0].N
	case c == int(PseudoCtls[1].R):
		return PseudoCtls[1].N
	case c > 0x20 && c < 0x7f:
		return strconv.QuoteRune(rune(c))
	}
	return strconv.Itoa(c)
}
