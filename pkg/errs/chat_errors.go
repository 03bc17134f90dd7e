package errs

var (
	// Domain errors — used in usecase/repository
	ErrSelfConversation     = InvalidArg("cannot start a conversation with yourself")
	ErrEmptyParticipant     = InvalidArg("participant id is required")
	ErrContentRequired      = InvalidArg("message content is required")
	ErrContentTooLong       = InvalidArg("message content cannot exceed 1000 characters")
	ErrConversationNotFound = NotFound("conversation not found")
	ErrListingNotFound      = NotFound("listing not found")
	ErrListingUnavailable   = InvalidArg("listing is no longer available for chat")
	ErrNotParticipant       = Forbidden("you are not a participant in this conversation")
	ErrConversationExists   = AlreadyExists("conversation already exists for this participant pair")
)

// ErrPairIndexBroken duplicate pair reported by the store but no winner visible.
// This is a bug, not a race — the caller must log it loudly.
func ErrPairIndexBroken(cause error) error {
	return Wrap(CodeInternal, "participant pair constraint violated but no conversation found", cause)
}

// ErrStoreFailed wrap an unexpected store error
func ErrStoreFailed(op string, cause error) error {
	return Wrap(CodeInternal, "conversation store "+op+" failed", cause)
}
