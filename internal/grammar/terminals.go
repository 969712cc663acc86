package grammar

// FixedTerminals is the order-significant terminal set from spec.md §6. The
// index of each entry is its terminal id; EndMarker is always last.
var FixedTerminals = []string{
	"i32", "let", "if", "else", "while", "return", "mut", "fn", "for", "in",
	"loop", "break", "continue",
	"identifier", "integer_constant", "floating_point_constant",
	"=", "+", "-", "*", "/", "%",
	"+=", "-=", "*=", "/=", "%=",
	">>", ">>=", "<<", "<<=",
	"==", ">", ">=", "<", "<=", "!=",
	"(", ")", "[", "]", "{", "}",
	",", ":", ";",
	"->", ".", "..",
	EndMarker,
}

// EndMarker is the reserved end-of-input terminal, always the last entry of
// FixedTerminals.
const EndMarker = "#"
