package calpdf

import "errors"

// Sentinel errors returned by the library.
var (
	// ErrInvalidMonth is returned when a [Month] has a day count outside
	// 28–31, a first weekday outside 0–6, or a month number outside 1–12.
	ErrInvalidMonth = errors.New("calpdf: invalid month")

	// ErrInvalidPolicy is returned when a [PageBreakPolicy] cannot lay out
	// at least one row of cells below its header.
	ErrInvalidPolicy = errors.New("calpdf: invalid page break policy")

	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("calpdf: converter is closed")

	// ErrTimeout is returned when a conversion exceeds its deadline or its
	// context is cancelled.
	ErrTimeout = errors.New("calpdf: conversion timed out")
)
