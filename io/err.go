package io

import (
	"errors"

	"github.com/ezrec/i8080/translate"
)

var f = translate.From

var (
	// Bus errors
	ErrPortRouted = errors.New(f("port already routed"))
)
