// Package prompt builds the system and transaction prompts sent to model
// backends. Both builders are pure functions of their inputs: same input,
// same prompt, with categories enumerated in the order given.
package prompt

import (
	"fmt"
	"strings"

	"github.com/jcowell/sift/internal/model"
)

// System builds the system prompt: the canonical category list plus strict
// output instructions. Archived categories and groups are never included.
func System(categories []model.Category) string {
	var b strings.Builder

	b.WriteString("You are a personal finance assistant. Your job is to suggest the most\n")
	b.WriteString("likely category for a transaction, chosen from the user's category list.\n\n")
	b.WriteString("Categories:\n")

	for _, c := range categories {
		if !c.Active() {
			continue
		}
		if c.Description != "" {
			fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", c.Name)
		}
	}

	b.WriteString(`
Respond with a single JSON object of this shape:
{"suggestions": [{"name": "...", "justification": "...", "confidence": 0.0}]}

Rules:
- Provide exactly 3 suggestions, sorted by descending confidence.
- confidence is a number between 0 and 1.
- name must be copied verbatim from the category list above.
- Never invent, split, or abbreviate category names.
- Do not include any text outside the JSON object.`)

	return b.String()
}

// Transaction renders one transaction as the user prompt. Fields with no
// derivable value render as "Unknown" or are omitted so the prompt never
// carries empty trailing labels.
func Transaction(t model.Transaction) string {
	var b strings.Builder

	writeField(&b, "Payee", orUnknown(t.Payee))
	writeField(&b, "Merchant", orUnknown(t.Merchant()))
	writeField(&b, "Amount", formatAmount(t))
	if code := t.CurrencyCode(); code != "" {
		writeField(&b, "Currency", code)
	}
	writeField(&b, "Date", t.Date.Format("2006-01-02"))
	if t.Notes != "" {
		writeField(&b, "Notes", t.Notes)
	}

	m := t.Metadata
	if m == nil {
		writeField(&b, "Pending", "unknown")
		return strings.TrimSuffix(b.String(), "\n")
	}

	if m.Category != "" {
		writeField(&b, "Provider category", m.Category)
	}
	if path := financePath(m.PersonalFinanceCategory); path != "" {
		writeField(&b, "Personal finance category", path)
	}
	if m.PaymentChannel != "" {
		writeField(&b, "Payment channel", m.PaymentChannel)
	}
	if m.TransactionType != "" {
		writeField(&b, "Transaction type", m.TransactionType)
	}
	if len(m.Counterparties) > 0 {
		label := "Counterparty"
		if len(m.Counterparties) > 1 {
			label = "Counterparties"
		}
		writeField(&b, label, formatCounterparties(m.Counterparties))
	}
	if loc := formatLocation(m.Location); loc != "" {
		writeField(&b, "Location", loc)
	}
	writeField(&b, "Pending", formatPending(m.Pending))

	return strings.TrimSuffix(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// formatAmount renders the magnitude plus a direction hint. Negative amounts
// are credits, everything else debits; the sign never reaches the model.
func formatAmount(t model.Transaction) string {
	direction := "debit"
	if t.Amount.IsNegative() {
		direction = "credit"
	}
	return fmt.Sprintf("%s (%s)", t.Amount.Abs().StringFixed(2), direction)
}

func financePath(pfc *model.PersonalFinanceCategory) string {
	if pfc == nil {
		return ""
	}
	switch {
	case pfc.Primary != "" && pfc.Detailed != "":
		return pfc.Primary + " > " + pfc.Detailed
	case pfc.Primary != "":
		return pfc.Primary
	default:
		return pfc.Detailed
	}
}

func formatCounterparties(parties []model.Counterparty) string {
	parts := make([]string, 0, len(parties))
	for _, cp := range parties {
		name := orUnknown(cp.Name)
		if cp.Type != "" || cp.ConfidenceLevel != "" {
			parts = append(parts, fmt.Sprintf("%s (%s, %s)", name, orUnknown(cp.Type), orUnknown(cp.ConfidenceLevel)))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "; ")
}

func formatLocation(loc *model.Location) string {
	if loc == nil {
		return ""
	}
	switch {
	case loc.City != "" && loc.Region != "":
		return loc.City + ", " + loc.Region
	case loc.City != "":
		return loc.City
	default:
		return loc.Region
	}
}

func formatPending(pending *bool) string {
	if pending == nil {
		return "unknown"
	}
	if *pending {
		return "true"
	}
	return "false"
}
