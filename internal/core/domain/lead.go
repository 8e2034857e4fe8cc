package domain

import (
	"time"

	"github.com/google/uuid"
)

// FormKind distinguishes the two contact forms.
type FormKind string

const (
	FormKindPropertyInquiry FormKind = "propertyInquiry"
	FormKindUnlockDetails   FormKind = "unlockDetails"
)

// ParseFormKind defaults to a regular inquiry.
func ParseFormKind(s string) FormKind {
	if FormKind(s) == FormKindUnlockDetails {
		return FormKindUnlockDetails
	}
	return FormKindPropertyInquiry
}

const (
	// UnlockInquiryType is recorded as the inquiry type of unlock requests.
	UnlockInquiryType = "物件詳細情報の閲覧申請"
	// OtherInquiryType requires a free-text inquiry content.
	OtherInquiryType = "その他"
)

// DesiredOpeningPeriods maps the unlock form choices to their labels.
var DesiredOpeningPeriods = map[string]string{
	"A": "1ヶ月以内（移転などの急ぎ）",
	"B": "3ヶ月以内（資金OK！物件があればすぐ）",
	"C": "6ヶ月以内（事業計画中）",
	"D": "その他（情報収集中）",
}

// ContactForm is the raw submission of either form.
type ContactForm struct {
	// EntryID is the CMS id of the property page the form was posted from, if any.
	EntryID string

	FormKind             FormKind
	PropertyID           string
	PropertyTitle        string
	AssignedAgent        string
	InquiryType          string
	InquiryContent       string
	Name                 string
	Email                string
	Phone                string
	Message              string
	DesiredOpeningPeriod string
}

// Lead is an accepted submission.
type Lead struct {
	ID             uuid.UUID `json:"id"`
	FormKind       FormKind  `json:"form_kind"`
	PropertyID     string    `json:"property_id,omitempty"`
	PropertyTitle  string    `json:"property_title,omitempty"`
	AssignedAgent  string    `json:"assigned_agent,omitempty"`
	InquiryType    string    `json:"inquiry_type"`
	InquiryContent string    `json:"inquiry_content,omitempty"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubmitResult is returned after a lead is accepted.
type SubmitResult struct {
	Lead *Lead
	// UnlockedIDs is the updated unlock set; nil when the submission does not unlock anything.
	UnlockedIDs []string
	// NotificationsQueued is true when emails are sent asynchronously.
	NotificationsQueued bool
}

// Email is a plain text message.
type Email struct {
	To      string
	Subject string
	Text    string
}
