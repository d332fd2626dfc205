package service

import "errors"

var (
	// ErrUnknownCategory is returned when selecting a category with no items
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidTransition is returned for view transitions the state machine does not allow
	ErrInvalidTransition = errors.New("invalid view transition")

	// ErrUnknownItem is returned when opening the menu of an item that is not displayed
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownSession is returned when selecting a session that is not listed
	ErrUnknownSession = errors.New("unknown session")
)
