package handlers

const (
	MsgInvalidJSON         = "Invalid JSON body"
	MsgUnauthorized        = "Unauthorized"
	MsgForbidden           = "Teacher role required"
	MsgTooManyRequests     = "Too many requests"
	MsgInternalServerError = "Internal server error"
	MsgInvalidOutcome      = "Round outcome needs a word and a non-negative mistake count"
	MsgInvalidModifier     = "Difficulty modifier must be between 0.1 and 3.0"
	MsgInvalidPlacement    = "Placement result needs 0 <= correct <= total and total > 0"
	MsgInvalidLevel        = "Unknown level"
	MsgInsufficientCredits = "No hint credits left"
	MsgNoLettersRemaining  = "Every letter is already guessed"
	MsgLearnerNotFound     = "Learner not found"
	MsgConcurrentUpdate    = "Profile was changed concurrently, please retry"
)
