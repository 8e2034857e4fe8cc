package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAreaNotFound     = errors.New("area not found")
	ErrPropertyNotFound = errors.New("property not found")
)

// ValidationError carries per-field messages of a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// NotificationTarget is the recipient group of a failed email.
type NotificationTarget string

const (
	NotifyAdmin NotificationTarget = "admin"
	NotifyUser  NotificationTarget = "user"
)

// NotificationError wraps a failed email delivery.
type NotificationError struct {
	Target NotificationTarget
	Err    error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to send %s notification: %v", e.Target, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the person who submitted the form.
func (e *NotificationError) UserMessage() string {
	if e.Target == NotifyAdmin {
		return "お問い合わせの受付処理に失敗しました。お手数ですが、時間をおいて再度お試しいただくか、お電話にてお問い合わせください。"
	}
	return "確認メールの送信に失敗しました。お問い合わせは受け付けていますので、担当者から別途ご連絡させていただきます。"
}
