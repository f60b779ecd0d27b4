package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sihhealth/healthbot/internal/domain"
)

const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type messageKey string

const (
	msgUsernameRequired messageKey = "username_required"
	msgUsernameShort    messageKey = "username_short"
	msgEmailRequired    messageKey = "email_required"
	msgEmailInvalid     messageKey = "email_invalid"
	msgPhoneRequired    messageKey = "phone_required"
	msgPhoneInvalid     messageKey = "phone_invalid"
	msgPasswordRequired messageKey = "password_required"
	msgPasswordShort    messageKey = "password_short"
	msgPasswordMismatch messageKey = "password_mismatch"
	msgMessageRequired  messageKey = "message_required"
)

var messages = map[domain.Language]map[messageKey]string{
	domain.LangEnglish: {
		msgUsernameRequired: "Username is required",
		msgUsernameShort:    "Username must be at least 2 characters",
		msgEmailRequired:    "Email is required",
		msgEmailInvalid:     "Please enter a valid email address",
		msgPhoneRequired:    "Phone number is required",
		msgPhoneInvalid:     "Please enter a valid 10-digit phone number",
		msgPasswordRequired: "Password is required",
		msgPasswordShort:    "Password must be at least 6 characters",
		msgPasswordMismatch: "Passwords do not match",
		msgMessageRequired:  "Please type a message",
	},
	domain.LangHindi: {
		msgUsernameRequired: "उपयोगकर्ता नाम आवश्यक है",
		msgUsernameShort:    "नाम कम से कम 2 अक्षरों का होना चाहिए",
		msgEmailRequired:    "ईमेल आवश्यक है",
		msgEmailInvalid:     "कृपया एक वैध ईमेल पता दर्ज करें",
		msgPhoneRequired:    "फोन नंबर आवश्यक है",
		msgPhoneInvalid:     "कृपया एक वैध 10-अंकीय फोन नंबर दर्ज करें",
		msgPasswordRequired: "पासवर्ड आवश्यक है",
		msgPasswordShort:    "पासवर्ड कम से कम 6 अक्षरों का होना चाहिए",
		msgPasswordMismatch: "पासवर्ड मेल नहीं खाते",
		msgMessageRequired:  "कृपया एक संदेश लिखें",
	},
}

func message(lang domain.Language, key messageKey) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return messages[domain.LangEnglish][key]
}

// ValidateLogin checks credentials before they are sent.
func ValidateLogin(creds domain.Credentials, lang domain.Language) error {
	ve := &domain.ValidationError{}
	checkUsername(ve, creds.Username, lang)
	if creds.Password == "" {
		ve.Add("password", message(lang, msgPasswordRequired))
	}
	return ve.OrNil()
}

// ValidateRegistration checks a sign-up form. Confirm is compared only when
// the caller collected it.
func ValidateRegistration(reg domain.Registration, lang domain.Language) error {
	ve := &domain.ValidationError{}
	checkUsername(ve, reg.Username, lang)

	email := strings.TrimSpace(reg.Email)
	switch {
	case email == "":
		ve.Add("email", message(lang, msgEmailRequired))
	case !emailPattern.MatchString(email):
		ve.Add("email", message(lang, msgEmailInvalid))
	}

	switch {
	case strings.TrimSpace(reg.Phone) == "":
		ve.Add("phone", message(lang, msgPhoneRequired))
	case len(NormalizePhone(reg.Phone)) != 10:
		ve.Add("phone", message(lang, msgPhoneInvalid))
	}

	switch {
	case reg.Password == "":
		ve.Add("password", message(lang, msgPasswordRequired))
	case len([]rune(reg.Password)) < minPasswordLen:
		ve.Add("password", message(lang, msgPasswordShort))
	case reg.Confirm != "" && reg.Confirm != reg.Password:
		ve.Add("confirm", message(lang, msgPasswordMismatch))
	}
	return ve.OrNil()
}

// ValidateChat rejects blank chat input.
func ValidateChat(text string, lang domain.Language) error {
	if strings.TrimSpace(text) == "" {
		ve := &domain.ValidationError{}
		ve.Add("message", message(lang, msgMessageRequired))
		return ve
	}
	return nil
}

// NormalizePhone keeps only the digits of s, so "987-654-3210" becomes
// "9876543210".
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func checkUsername(ve *domain.ValidationError, username string, lang domain.Language) {
	u := strings.TrimSpace(username)
	switch {
	case u == "":
		ve.Add("username", message(lang, msgUsernameRequired))
	case len([]rune(u)) < 2:
		ve.Add("username", message(lang, msgUsernameShort))
	}
}
