package client

import (
	"strings"

	"github.com/tomz197/gonuts/internal/loop/config"
	"github.com/tomz197/gonuts/internal/prize"
)

// FormField identifies the focused claim form field.
type FormField int

const (
	FieldName FormField = iota
	FieldEmail
)

// ClaimForm collects the player's contact details after a round.
type ClaimForm struct {
	Name  string
	Email string
	Focus FormField
	Error string // Validation message shown under the form
}

// Type appends printable characters to the focused field, up to its limit.
func (f *ClaimForm) Type(chars []byte) {
	for _, ch := range chars {
		if ch < 0x20 || ch >= 0x7f {
			continue
		}
		switch f.Focus {
		case FieldName:
			if len(f.Name) < config.MaxNameLength {
				f.Name += string(ch)
			}
		case FieldEmail:
			if ch != ' ' && len(f.Email) < config.MaxEmailLength {
				f.Email += string(ch)
			}
		}
	}
	if len(chars) > 0 {
		f.Error = ""
	}
}

// Backspace removes the last character of the focused field.
func (f *ClaimForm) Backspace() {
	switch f.Focus {
	case FieldName:
		if f.Name != "" {
			f.Name = f.Name[:len(f.Name)-1]
		}
	case FieldEmail:
		if f.Email != "" {
			f.Email = f.Email[:len(f.Email)-1]
		}
	}
}

// NextField moves focus to the other field.
func (f *ClaimForm) NextField() {
	if f.Focus == FieldName {
		f.Focus = FieldEmail
	} else {
		f.Focus = FieldName
	}
}

// Validate reports a message for the first missing field and focuses it.
// Returns "" when the form can be submitted.
func (f *ClaimForm) Validate() string {
	switch {
	case strings.TrimSpace(f.Name) == "":
		f.Focus = FieldName
		return "Please enter your name."
	case strings.TrimSpace(f.Email) == "":
		f.Focus = FieldEmail
		return "Please enter your email."
	case !strings.Contains(f.Email, "@"):
		f.Focus = FieldEmail
		return "That email does not look right."
	}
	return ""
}

// Claim builds the prize claim for score.
func (f ClaimForm) Claim(score int, code string) prize.Claim {
	return prize.Claim{
		Name:             strings.TrimSpace(f.Name),
		Email:            strings.TrimSpace(f.Email),
		Score:            score,
		VerificationCode: code,
	}
}
