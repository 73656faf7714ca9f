package emulator

import (
	"github.com/ezrec/pbpu/translate"
)

var f = translate.From

// ErrProgramNotFound indicates the program file could not be opened.
type ErrProgramNotFound struct {
	Path string
	Err  error
}

func (err *ErrProgramNotFound) Error() string {
	return f("program %v not found: %v", err.Path, err.Err)
}

func (err *ErrProgramNotFound) Unwrap() error {
	return err.Err
}
