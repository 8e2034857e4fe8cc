package usecase

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var (
	mobilePattern = regexp.MustCompile(`^0\d{9,10}$`)
	nonDigits     = regexp.MustCompile(`\D`)
)

var formValidator = newFormValidator()

// propertyInquiryInput holds the rules of a regular property inquiry.
type propertyInquiryInput struct {
	InquiryType    string `field:"inquiryType" validate:"required"`
	InquiryContent string `field:"inquiryContent" validate:"required_if=InquiryType その他"`
	Name           string `field:"name" validate:"required"`
	Email          string `field:"email" validate:"required,email"`
	Message        string `field:"message" validate:"required"`
}

// unlockDetailsInput holds the rules of a detail unlock request.
type unlockDetailsInput struct {
	Name                 string `field:"name" validate:"required"`
	Phone                string `field:"phone" validate:"required,jp_mobile"`
	Email                string `field:"email" validate:"required,email"`
	DesiredOpeningPeriod string `field:"desiredOpeningPeriod" validate:"required,opening_period"`
}

// Messages are keyed by "<field>.<failed tag>".
var propertyInquiryMessages = map[string]string{
	"inquiryType.required":       "お問い合わせ内容を選択してください",
	"inquiryContent.required_if": "その他の内容を入力してください",
	"name.required":              "お名前を入力してください",
	"email.required":             "メールアドレスを入力してください",
	"email.email":                "正しいメールアドレスを入力してください",
	"message.required":           "ご要望や確認事項を入力してください",
}

var unlockDetailsMessages = map[string]string{
	"name.required":                       "氏名を入力してください",
	"phone.required":                      "携帯番号を入力してください",
	"phone.jp_mobile":                     "正しい携帯番号を入力してください",
	"email.required":                      "メールアドレスを入力してください",
	"email.email":                         "正しいメールアドレスを入力してください",
	"desiredOpeningPeriod.required":       "出店希望時期を選択してください",
	"desiredOpeningPeriod.opening_period": "出店希望時期を選択してください",
}

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})
	mustRegister(v, "jp_mobile", func(fl validator.FieldLevel) bool {
		return IsMobilePhone(fl.Field().String())
	})
	mustRegister(v, "opening_period", func(fl validator.FieldLevel) bool {
		_, ok := domain.DesiredOpeningPeriods[fl.Field().String()]
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func validatePropertyInquiry(f domain.ContactForm) map[string]string {
	return validateForm(propertyInquiryInput{
		InquiryType:    f.InquiryType,
		InquiryContent: f.InquiryContent,
		Name:           f.Name,
		Email:          f.Email,
		Message:        f.Message,
	}, propertyInquiryMessages)
}

func validateUnlockDetails(f domain.ContactForm) map[string]string {
	return validateForm(unlockDetailsInput{
		Name:                 f.Name,
		Phone:                f.Phone,
		Email:                f.Email,
		DesiredOpeningPeriod: f.DesiredOpeningPeriod,
	}, unlockDetailsMessages)
}

// validateForm maps validator failures to one user facing message per field.
func validateForm(input any, messages map[string]string) map[string]string {
	err := formValidator.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"form": err.Error()}
	}
	errs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		errs[fe.Field()] = msg
	}
	return errs
}

// IsMobilePhone accepts Japanese mobile numbers in any punctuation, e.g. 090-1234-5678.
func IsMobilePhone(s string) bool {
	return mobilePattern.MatchString(nonDigits.ReplaceAllString(s, ""))
}
