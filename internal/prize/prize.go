// Package prize builds the verification code, coupon and prize-claim message
// offered after a round.
package prize

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
)

// ErrMissingContact is returned when a claim lacks a name or email.
var ErrMissingContact = errors.New("prize: name and email are required")

// DefaultRecipient receives prize claims unless PRIZE_EMAIL overrides it.
const DefaultRecipient = "prizes@gonuts.example"

// Coupon tiers, best first.
var tiers = []struct {
	minScore int
	code     string
}{
	{1500, "GOLDEN-GONUT-50"},
	{800, "DONUT-LOVER-25"},
	{300, "GONUTS-10"},
	{0, "SWEET-TRY-5"},
}

// Coupon returns the coupon unlocked by score.
func Coupon(score int) string {
	for _, t := range tiers {
		if score >= t.minScore {
			return t.code
		}
	}
	return tiers[len(tiers)-1].code
}

// Intn is the random source used for verification codes.
type Intn interface {
	IntN(n int) int
}

type globalIntn struct{}

func (globalIntn) IntN(n int) int { return rand.IntN(n) }

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// VerificationCode returns GN-<score>-XXXX with four random base-36 characters.
// A nil source uses math/rand/v2.
func VerificationCode(score int, r Intn) string {
	if r == nil {
		r = globalIntn{}
	}
	var suffix [4]byte
	for i := range suffix {
		suffix[i] = codeAlphabet[r.IntN(len(codeAlphabet))]
	}
	return fmt.Sprintf("GN-%d-%s", score, suffix[:])
}

// Claim is what the player submits after a round.
type Claim struct {
	Name             string
	Email            string
	Score            int
	VerificationCode string
}

// Message is an outgoing prize-claim email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Compose builds the claim message addressed to recipient.
func Compose(c Claim, recipient string) (Message, error) {
	name := strings.TrimSpace(c.Name)
	email := strings.TrimSpace(c.Email)
	if name == "" || email == "" {
		return Message{}, ErrMissingContact
	}
	if recipient == "" {
		recipient = DefaultRecipient
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Player Name: %s\n", name)
	fmt.Fprintf(&body, "Player Email: %s\n", email)
	fmt.Fprintf(&body, "Final Score: %d\n", c.Score)
	fmt.Fprintf(&body, "Verification Code: %s\n", c.VerificationCode)
	fmt.Fprintf(&body, "Coupon Unlocked: %s\n\n", Coupon(c.Score))
	body.WriteString("This message was generated from the Gonut Donut Catcher game.")

	return Message{
		To:      recipient,
		Subject: fmt.Sprintf("Gonut Donut Prize Won by %s!", name),
		Body:    body.String(),
	}, nil
}

// MailtoURL returns a mailto: link with the subject and body percent-encoded.
func (m Message) MailtoURL() string {
	return "mailto:" + m.To +
		"?subject=" + encodeComponent(m.Subject) +
		"&body=" + encodeComponent(m.Body)
}

// encodeComponent escapes s for a mailto header value. Spaces become %20;
// mail clients do not decode '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// String renders the message as plain text for clipboard handoff.
func (m Message) String() string {
	return fmt.Sprintf("To: %s\nSubject: %s\n\n%s\n", m.To, m.Subject, m.Body)
}
