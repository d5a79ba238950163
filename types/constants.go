package types

import "time"

const (
	// TitleMaxLen is the maximum length of a vote title.
	TitleMaxLen = 200
	// DescriptionMaxLen is the maximum length of a vote description.
	DescriptionMaxLen = 1000
	// VoterMaxLen is the maximum length of a voter identifier.
	VoterMaxLen = 100
	// SaltMinLen and SaltMaxLen bound the decoded salt size in bytes.
	SaltMinLen = 1
	SaltMaxLen = 128
	// VoteIDLen is the number of random bytes in a vote identifier
	// before URL-safe encoding (128 bits of entropy).
	VoteIDLen = 16
	// DefaultPageSize and MaxPageSize bound paginated listings.
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MinPhaseDuration and MaxPhaseDuration bound the commitment and
	// reveal phase durations at vote creation.
	MinPhaseDuration = time.Hour
	MaxPhaseDuration = 168 * time.Hour
	// TimePrecision is the precision all vote timestamps are
	// truncated to.
	TimePrecision = time.Millisecond
)
