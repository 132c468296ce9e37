package pipeline

import (
	"bytes"
	"strings"

	"github.com/jhillyerd/enmime"

	"fabdesk/internal"
)

// ExtractInvoicesFromMailRaw pulls invoices out of a raw RFC 5322
// message: xlsx attachments first, then any order table embedded in the
// HTML body. Returns the subject for reporting.
func ExtractInvoicesFromMailRaw(raw []byte) ([]internal.RawInvoice, string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", err
	}

	out := []internal.RawInvoice{}
	for _, att := range env.Attachments {
		lower := strings.ToLower(att.FileName)
		if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
			continue
		}
		invoices, err := ExtractInvoicesFromXLSX(att.Content)
		if err != nil {
			continue
		}
		out = append(out, invoices...)
	}

	if env.HTML != "" {
		invoices, err := ExtractInvoicesFromHTML(env.HTML)
		if err == nil {
			out = append(out, invoices...)
		}
	}

	for i := range out {
		out[i].Source = internal.SourceMail
	}
	return out, env.GetHeader("Subject"), nil
}
