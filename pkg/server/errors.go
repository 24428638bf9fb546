package server

import "errors"

var (
	// ErrBind is returned by Setup when the listener cannot bind its port.
	ErrBind = errors.New("server: bind failed")

	// ErrInvalidPortOverride is returned by Setup for an unusable fixed port.
	ErrInvalidPortOverride = errors.New("server: invalid port override")

	// ErrAlreadyTornDown is returned by every Teardown after the first.
	ErrAlreadyTornDown = errors.New("server: already torn down")
)
