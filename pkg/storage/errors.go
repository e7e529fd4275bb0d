package storage

import "errors"

// ErrNotFound is returned when a session, bid, wallet or artwork does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a record whose key is already taken.
var ErrAlreadyExists = errors.New("already exists")

// ErrConflict is returned when a conditional write fails because the record changed since it was read.
var ErrConflict = errors.New("conditional update conflict")

// ErrInsufficientFunds is returned when a wallet has an insufficient balance for a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidTransition is returned when a mutator tries to move a session backwards in its lifecycle.
var ErrInvalidTransition = errors.New("invalid session status transition")
