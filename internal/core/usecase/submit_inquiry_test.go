package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminAddress = "admin@example.jp"

func validInquiry() domain.ContactForm {
	return domain.ContactForm{
		FormKind:      domain.FormKindPropertyInquiry,
		PropertyID:    "P-001",
		PropertyTitle: "渋谷 居抜き",
		AssignedAgent: "山田",
		InquiryType:   "内見希望",
		Name:          " 佐藤 花子 ",
		Email:         "hanako@example.jp",
		Message:       "週末に内見できますか",
	}
}

func validUnlock() domain.ContactForm {
	return domain.ContactForm{
		EntryID:              "entry-9",
		FormKind:             domain.FormKindUnlockDetails,
		PropertyTitle:        "渋谷 居抜き",
		Name:                 "佐藤 花子",
		Email:                "hanako@example.jp",
		Phone:                "090-1234-5678",
		DesiredOpeningPeriod: "B",
	}
}

type submitFixture struct {
	leads     *fakeLeads
	publisher *fakePublisher
	mailer    *fakeMailer
	uc        *SubmitInquiryUseCase
}

func newSubmitFixture(withPublisher bool) *submitFixture {
	fx := &submitFixture{leads: &fakeLeads{}, mailer: &fakeMailer{failTo: map[string]bool{}}}
	notifier := NewSendLeadNotificationsUseCase(fx.mailer, adminAddress)
	if withPublisher {
		fx.publisher = &fakePublisher{}
		fx.uc = NewSubmitInquiryUseCase(fx.leads, fx.publisher, notifier, fixedClock{testNow})
	} else {
		fx.uc = NewSubmitInquiryUseCase(fx.leads, nil, notifier, fixedClock{testNow})
	}
	return fx
}

func TestSubmitInquiry_ValidationMessages(t *testing.T) {
	tests := []struct {
		name   string
		form   domain.ContactForm
		fields map[string]string
	}{
		{
			name: "empty inquiry",
			form: domain.ContactForm{},
			fields: map[string]string{
				"inquiryType": "お問い合わせ内容を選択してください",
				"name":        "お名前を入力してください",
				"email":       "メールアドレスを入力してください",
				"message":     "ご要望や確認事項を入力してください",
			},
		},
		{
			name: "other requires content and a valid email",
			form: domain.ContactForm{InquiryType: "その他", Name: "a", Email: "not-an-email", Message: "m"},
			fields: map[string]string{
				"inquiryContent": "その他の内容を入力してください",
				"email":          "正しいメールアドレスを入力してください",
			},
		},
		{
			name: "empty unlock",
			form: domain.ContactForm{FormKind: domain.FormKindUnlockDetails},
			fields: map[string]string{
				"name":                 "氏名を入力してください",
				"phone":                "携帯番号を入力してください",
				"email":                "メールアドレスを入力してください",
				"desiredOpeningPeriod": "出店希望時期を選択してください",
			},
		},
		{
			name: "unlock with landline and unknown period",
			form: domain.ContactForm{FormKind: domain.FormKindUnlockDetails, Name: "a", Email: "a@b.jp", Phone: "03-1234", DesiredOpeningPeriod: "Z"},
			fields: map[string]string{
				"phone":                "正しい携帯番号を入力してください",
				"desiredOpeningPeriod": "出店希望時期を選択してください",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newSubmitFixture(false)
			_, err := fx.uc.Execute(context.Background(), tt.form, nil)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
			assert.Empty(t, fx.leads.saved)
			assert.Empty(t, fx.mailer.sent)
		})
	}
}

func TestIsMobilePhone(t *testing.T) {
	for phone, want := range map[string]bool{
		"09012345678":   true,
		"090-1234-5678": true,
		"0312345678":    true,
		"９０１２":          false,
		"1234567890":    false,
		"090123456789":  false,
	} {
		assert.Equal(t, want, IsMobilePhone(phone), phone)
	}
}

func TestSubmitInquiry_SynchronousNotifications(t *testing.T) {
	fx := newSubmitFixture(false)

	res, err := fx.uc.Execute(context.Background(), validInquiry(), []string{"a"})
	require.NoError(t, err)

	require.Len(t, fx.leads.saved, 1)
	lead := fx.leads.saved[0]
	assert.Equal(t, "佐藤 花子", lead.Name, "fields are trimmed")
	assert.Equal(t, testNow, lead.CreatedAt)
	assert.Same(t, lead, res.Lead)
	assert.False(t, res.NotificationsQueued)
	assert.Nil(t, res.UnlockedIDs, "inquiries do not unlock")

	require.Len(t, fx.mailer.sent, 2)
	assert.Equal(t, adminAddress, fx.mailer.sent[0].To)
	assert.Equal(t, "hanako@example.jp", fx.mailer.sent[1].To)
}

func TestSubmitInquiry_QueuedWhenPublisherSucceeds(t *testing.T) {
	fx := newSubmitFixture(true)

	res, err := fx.uc.Execute(context.Background(), validInquiry(), nil)
	require.NoError(t, err)

	assert.True(t, res.NotificationsQueued)
	assert.Len(t, fx.publisher.published, 1)
	assert.Empty(t, fx.mailer.sent)
}

func TestSubmitInquiry_FallsBackWhenPublishFails(t *testing.T) {
	fx := newSubmitFixture(true)
	fx.publisher.err = errors.New("broker down")

	res, err := fx.uc.Execute(context.Background(), validInquiry(), nil)
	require.NoError(t, err)

	assert.False(t, res.NotificationsQueued)
	assert.Len(t, fx.mailer.sent, 2)
}

func TestSubmitInquiry_UnlockDetails(t *testing.T) {
	fx := newSubmitFixture(false)

	res, err := fx.uc.Execute(context.Background(), validUnlock(), []string{"entry-1", "entry-9", ""})
	require.NoError(t, err)

	lead := res.Lead
	assert.Equal(t, domain.UnlockInquiryType, lead.InquiryType)
	assert.Equal(t, "3ヶ月以内（資金OK！物件があればすぐ）", lead.Message)
	assert.Empty(t, lead.InquiryContent)
	assert.Equal(t, []string{"entry-1", "entry-9"}, res.UnlockedIDs)

	require.Len(t, fx.mailer.sent, 1, "no auto-reply for unlock requests")
	assert.Equal(t, adminAddress, fx.mailer.sent[0].To)
}

func TestSubmitInquiry_AdminMailFailure(t *testing.T) {
	fx := newSubmitFixture(false)
	fx.mailer.failTo[adminAddress] = true

	_, err := fx.uc.Execute(context.Background(), validUnlock(), nil)

	var nerr *domain.NotificationError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, domain.NotifyAdmin, nerr.Target)
	assert.True(t, strings.HasPrefix(nerr.UserMessage(), "お問い合わせの受付処理に失敗しました"))
}

func TestSubmitInquiry_RepositoryFailure(t *testing.T) {
	fx := newSubmitFixture(false)
	fx.leads.err = errors.New("db down")

	_, err := fx.uc.Execute(context.Background(), validInquiry(), nil)
	require.Error(t, err)
	assert.Empty(t, fx.mailer.sent)
}

func TestMergeUnlockSet(t *testing.T) {
	assert.Equal(t, []string{"x"}, MergeUnlockSet(nil, "x"))
	assert.Equal(t, []string{"a", "b"}, MergeUnlockSet([]string{"a", " ", "b", "a"}, "b"))
	assert.Equal(t, []string{}, MergeUnlockSet(nil, ""))
}

func TestValidateForms_ConditionalAndCustomRules(t *testing.T) {
	assert.Empty(t, validatePropertyInquiry(domain.ContactForm{
		InquiryType: "内見希望", Name: "a", Email: "a@b.jp", Message: "m",
	}), "content is only required for その他")

	assert.Empty(t, validateUnlockDetails(domain.ContactForm{
		Name: "a", Email: "a@b.jp", Phone: "080 1234 5678", DesiredOpeningPeriod: "B",
	}))

	errs := validateUnlockDetails(domain.ContactForm{
		Name: "a", Email: "hanako.example.jp", Phone: "09012345678", DesiredOpeningPeriod: "A",
	})
	assert.Equal(t, map[string]string{"email": "正しいメールアドレスを入力してください"}, errs)
}
