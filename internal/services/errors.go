package services

import (
	"errors"
	"fmt"
)

// ErrorKind 业务错误分类，handler 据此映射 HTTP 状态码
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindBadRequest
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	}
	return "internal"
}

// DomainError 面向调用方的业务错误，Message 原样返回给客户端
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func notFound(msg string) *DomainError { return &DomainError{Kind: KindNotFound, Message: msg} }
func badRequest(msg string) *DomainError { return &DomainError{Kind: KindBadRequest, Message: msg} }
func forbidden(msg string) *DomainError { return &DomainError{Kind: KindForbidden, Message: msg} }

func invalidInput(format string, args ...any) *DomainError {
	return badRequest(fmt.Sprintf(format, args...))
}

var (
	ErrGameNotFound     = notFound("Game not found")
	ErrGameModeNotFound = notFound("Game mode not found or does not belong to the specified game")
	ErrUserNotFound     = notFound("User not found")
	ErrGroupNotFound    = notFound("Group not found")

	ErrGroupForbidden    = forbidden("You do not have permission to view this group")
	ErrNotOwner          = forbidden("Only the group owner can delete the group")
	ErrGroupFull         = badRequest("Group is full")
	ErrGroupNotAccepting = badRequest("Group is not accepting new members")
	ErrAlreadyMember     = badRequest("You are already a member of this group")
	ErrNotMember         = badRequest("You are not a member of this group")
	ErrOwnerCannotLeave  = badRequest("Group owner cannot leave the group. Transfer ownership or delete the group instead.")
)

// 成功提示
const (
	MsgJoined  = "Successfully joined the group"
	MsgLeft    = "Successfully left the group"
	MsgDeleted = "Group deleted successfully"
)

// KindOf 返回错误分类，非 DomainError 一律视为内部错误
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
