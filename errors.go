package smfparse

import "errors"

// Every Parse failure is, or wraps, exactly one of these sentinel
// errors; callers classify with errors.Is.
var (
	// ErrMissingHeader reports input that does not begin with an MThd
	// chunk.
	ErrMissingHeader = errors.New("smfparse: missing MThd header chunk")

	// ErrUnexpectedEOF reports a declared length (chunk body, event
	// payload, variable-length continuation, channel data bytes) that
	// runs past the end of the input.
	ErrUnexpectedEOF = errors.New("smfparse: unexpected end of input")

	// ErrVarLength reports a variable-length quantity that would need a
	// fifth byte.
	ErrVarLength = errors.New("smfparse: malformed variable-length quantity")

	// ErrNoRunningStatus reports a data byte in event-lead position
	// before any status byte has been seen in the track.
	ErrNoRunningStatus = errors.New("smfparse: data byte without running status")

	// ErrUnreachableStatus reports a status byte no channel message can
	// carry, such as a system common or real-time byte inside track
	// data.
	ErrUnreachableStatus = errors.New("smfparse: status byte outside channel message range")

	// ErrTrailingGarbage reports leftover bytes after the last chunk
	// that do not form a complete chunk frame.
	ErrTrailingGarbage = errors.New("smfparse: trailing bytes after last chunk")
)
