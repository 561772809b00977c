package controlapi

import "errors"

var (
	ErrNilPublisher   = errors.New("controlapi: publisher cannot be nil")
	ErrDuplicateName  = errors.New("controlapi: duplicate machine name")
	ErrUnnamedMachine = errors.New("controlapi: machine has no name")
)
