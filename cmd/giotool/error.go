package main

import "errors"

var (
	// ErrNoCommand occurs when the tool is started without a command.
	ErrNoCommand = errors.New("no command given")

	// ErrUnknownCommand occurs when the command is not known.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage occurs when a command is called with the wrong arguments.
	ErrUsage = errors.New("invalid arguments")

	// ErrUnknownFormat occurs when an output format is not supported.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrSchemeTaken occurs when a configured URI scheme is already handled
	// by the vfs.
	ErrSchemeTaken = errors.New("uri scheme already handled")
)
