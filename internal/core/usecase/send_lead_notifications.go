package usecase

import (
	"context"
	"strings"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
)

const (
	mailSubjectPrefix = "【居抜きビュッフェ】"
	mailSeparator     = "────────────────────"
	mailFooter        = "※このメールは自動送信されています。\n※返信はお受けできませんので、ご了承ください。\n"
)

type SendLeadNotificationsUseCase struct {
	mailer     port.MailerPort
	adminEmail string
}

func NewSendLeadNotificationsUseCase(mailer port.MailerPort, adminEmail string) *SendLeadNotificationsUseCase {
	return &SendLeadNotificationsUseCase{mailer: mailer, adminEmail: adminEmail}
}

// Execute mails the administrator and, for regular inquiries, an auto-reply to the sender.
// Failures are returned as *domain.NotificationError.
func (uc *SendLeadNotificationsUseCase) Execute(ctx context.Context, lead *domain.Lead) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "SendLeadNotifications",
		"lead_id":   lead.ID.String(),
		"form_kind": string(lead.FormKind),
	})

	ucLogger.Info("Use case started", nil)

	if err := uc.mailer.Send(ctx, AdminEmail(lead, uc.adminEmail)); err != nil {
		nerr := &domain.NotificationError{Target: domain.NotifyAdmin, Err: err}
		ucLogger.Error("Admin notification failed", nerr, nil)
		return nerr
	}

	if lead.FormKind != domain.FormKindUnlockDetails {
		if err := uc.mailer.Send(ctx, UserEmail(lead)); err != nil {
			nerr := &domain.NotificationError{Target: domain.NotifyUser, Err: err}
			ucLogger.Error("User auto-reply failed", nerr, nil)
			return nerr
		}
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

// AdminEmail builds the notification for the site operator.
func AdminEmail(lead *domain.Lead, to string) domain.Email {
	subject := mailSubjectPrefix + "お問い合わせがありました"
	if lead.PropertyTitle != "" {
		subject = mailSubjectPrefix + lead.PropertyTitle + "にお問い合わせがありました"
	}

	var b strings.Builder
	b.WriteString("新規のお問い合わせがありました。\n\n")
	b.WriteString(mailSeparator + "\n")
	if lead.FormKind == domain.FormKindUnlockDetails {
		line(&b, "担当者: ", or(lead.AssignedAgent, "-"))
		line(&b, "物件タイトル： ", or(lead.PropertyTitle, "物件指定なし"))
		line(&b, "お名前: ", lead.Name)
		line(&b, "メールアドレス: ", lead.Email)
		line(&b, "電話番号: ", or(lead.Phone, "-"))
		line(&b, "出店希望時期: ", or(lead.Message, "-"))
	} else {
		line(&b, "物件ID: ", or(lead.PropertyID, "お問い合わせ"))
		line(&b, "担当者: ", lead.AssignedAgent)
		line(&b, "物件タイトル： ", or(lead.PropertyTitle, "物件指定なし"))
		line(&b, "お名前: ", lead.Name)
		line(&b, "メールアドレス: ", lead.Email)
		line(&b, "電話番号: ", or(lead.Phone, "-"))
		line(&b, "お問い合わせ内容: ", lead.InquiryType)
		line(&b, "その他詳細: ", or(lead.InquiryContent, "-"))
		line(&b, "ご要望/確認事項: ", lead.Message)
	}
	b.WriteString(mailSeparator)

	return domain.Email{To: to, Subject: subject, Text: b.String()}
}

// UserEmail builds the auto-reply sent to the person who submitted an inquiry.
func UserEmail(lead *domain.Lead) domain.Email {
	var b strings.Builder
	b.WriteString(lead.Name + " 様\n\n")
	b.WriteString("お問い合わせいただき、ありがとうございます。\n")
	b.WriteString("以下の内容で承りました。\n")
	b.WriteString("担当者より順次ご連絡させていただきます。\n\n")
	b.WriteString(mailSeparator + "\n")
	line(&b, "お問い合わせ内容: ", lead.InquiryType)
	line(&b, "その他詳細: ", or(lead.InquiryContent, "-"))
	line(&b, "お名前: ", lead.Name)
	line(&b, "メールアドレス: ", lead.Email)
	line(&b, "電話番号: ", or(lead.Phone, "-"))
	line(&b, "ご要望/確認事項: ", lead.Message)
	b.WriteString(mailSeparator + "\n\n")
	b.WriteString(mailFooter)

	return domain.Email{
		To:      lead.Email,
		Subject: mailSubjectPrefix + "お問い合わせありがとうございます",
		Text:    b.String(),
	}
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(value)
	b.WriteByte('\n')
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
