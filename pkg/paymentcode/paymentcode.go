// Package paymentcode composes the URL of the external image-rendering
// collaborator that turns raw payment fields into a scannable code. The
// core never fetches or stores the image itself.
package paymentcode

import (
	"fmt"
	"net/url"
)

type Builder struct {
	baseURL     string
	bankCode    string
	bankAccount string
}

func NewBuilder(baseURL, bankCode, bankAccount string) *Builder {
	return &Builder{baseURL: baseURL, bankCode: bankCode, bankAccount: bankAccount}
}

// URL renders the payment-code image URL for the given amount and note.
func (b *Builder) URL(amount float64, note string) string {
	q := url.Values{}
	q.Set("amount", fmt.Sprintf("%.0f", amount))
	q.Set("addInfo", note)
	return fmt.Sprintf("%s/%s-%s-compact.png?%s", b.baseURL, b.bankCode, b.bankAccount, q.Encode())
}
