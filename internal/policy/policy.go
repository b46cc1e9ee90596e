// Package policy centralizes every authorization decision in one pure
// function so role and ownership rules are not re-implemented per route.
package policy

import "github.com/edutec/alunos-api/internal/token"

// Operation identifies what the caller wants to do.
type Operation string

const (
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
	OpList   Operation = "list"
	OpSearch Operation = "search"
	OpStats  Operation = "stats"
	OpExport Operation = "export"
	OpLogs   Operation = "logs"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Deny reasons. The external response is always a plain 403; reasons exist
// for logging.
const (
	ReasonRoleMismatch      = "role-mismatch"
	ReasonOwnershipMismatch = "ownership-mismatch"
)

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// adminOnly lists the operations a student identity can never perform, even
// on its own record.
var adminOnly = map[Operation]bool{
	OpCreate: true,
	OpDelete: true,
	OpSearch: true,
	OpStats:  true,
	OpExport: true,
	OpLogs:   true,
}

// Decide evaluates whether the identity may perform op on the student record
// identified by recordID. It is a pure function of its arguments: no storage
// access, no caching, safe for concurrent use. Record-scoped operations pass
// the target record id; administrator-only operations pass zero.
func Decide(id *token.Claims, recordID int64, op Operation) Decision {
	if id == nil {
		return deny(ReasonRoleMismatch)
	}

	// Administrators may do everything.
	if id.IsAdmin() {
		return allow
	}

	if adminOnly[op] {
		return deny(ReasonRoleMismatch)
	}

	// Students may only read and update the record they are linked to. An
	// unlinked student identity has no record-scoped access at all.
	switch op {
	case OpList:
		// Listing is open to students; the handler scopes the result to
		// the caller's own record.
		return allow
	case OpRead, OpUpdate:
		if !id.Linked() || id.AlunoID != recordID {
			return deny(ReasonOwnershipMismatch)
		}
		return allow
	}

	return deny(ReasonRoleMismatch)
}
