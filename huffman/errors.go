package huffman

import "errors"

var (
	ErrEmptyInput     = errors.New("empty input")
	ErrHeaderOverflow = errors.New("leading zero run does not fit in the header")
	ErrDuplicateCode  = errors.New("duplicate code in table")
	ErrIncompleteCode = errors.New("bitstream ends inside a code")
	ErrInvalidBit     = errors.New("bit is neither '0' nor '1'")
	ErrUnknownSymbol  = errors.New("symbol is not in the code table")
	ErrRunTooLong     = errors.New("single-symbol run is longer than MaxRun")
)
