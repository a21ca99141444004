package emulator

import (
	"errors"

	"github.com/ezrec/i8080/translate"
)

var f = translate.From

var (
	ErrImageSize = errors.New(f("image larger than memory"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address uint16
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("address 0x%04x %v", err.Address, err.Err)
	}
	return f("address 0x%04x line %d %v", err.Address, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
