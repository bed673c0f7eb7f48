package access

import "errors"

// Typed outcomes of permission and membership checks. Handlers map these to
// transport status codes; denial reasons are collapsed to a generic forbidden
// message at the boundary so role structure is never leaked.
var (
	// ErrNotFound covers both genuinely absent resources and resources the
	// principal has no membership-based visibility into. The two cases must
	// stay indistinguishable to the caller.
	ErrNotFound = errors.New("not found")

	ErrNotMember            = errors.New("not a member of the project")
	ErrNotOwner             = errors.New("not the project owner")
	ErrNotAssigneeOrCreator = errors.New("not the task assignee or creator")

	ErrInvalidAssignee = errors.New("assignee is not a member of the project")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidDueDate  = errors.New("invalid due date, expected YYYY-MM-DD")

	ErrAlreadyMember     = errors.New("user is already a member of the project")
	ErrNotAMember        = errors.New("user is not a member of the project")
	ErrCannotRemoveOwner = errors.New("the project owner cannot be removed")
)

// IsDenial reports whether err is an authorization denial (as opposed to a
// not-found, validation, or infrastructure error).
func IsDenial(err error) bool {
	return errors.Is(err, ErrNotMember) ||
		errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrNotAssigneeOrCreator)
}
