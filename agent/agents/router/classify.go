package router

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the scenario a request is routed to.
type Intent string

const (
	IntentCancelWithBilling  Intent = "cancel_with_billing"
	IntentUpdateAndHistory   Intent = "update_and_history"
	IntentBillingEscalation  Intent = "billing_escalation"
	IntentHighPriorityReport Intent = "high_priority_report"
	IntentActiveOpenTickets  Intent = "active_open_tickets"
	IntentUpgrade            Intent = "upgrade"
	IntentCustomerLookup     Intent = "customer_lookup"
	IntentGeneric            Intent = "generic"
)

// Intents lists every intent in rule priority order.
var Intents = []Intent{
	IntentCancelWithBilling,
	IntentUpdateAndHistory,
	IntentBillingEscalation,
	IntentHighPriorityReport,
	IntentActiveOpenTickets,
	IntentUpgrade,
	IntentCustomerLookup,
	IntentGeneric,
}

const defaultCustomerID int64 = 1

var (
	customerIDPattern = regexp.MustCompile(`(?:id|customer)\s*(\d+)`)
	emailPattern      = regexp.MustCompile(`[\w.\-]+@[\w\-]+\.[\w\-]+`)
)

// Classify maps text to an intent by keyword. The first matching rule wins.
func Classify(text string) Intent {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "cancel my subscription") && strings.Contains(t, "billing"):
		return IntentCancelWithBilling
	case strings.Contains(t, "update my email") && strings.Contains(t, "history"):
		return IntentUpdateAndHistory
	case strings.Contains(t, "charged twice") || strings.Contains(t, "refund"):
		return IntentBillingEscalation
	case strings.Contains(t, "high-priority tickets"):
		return IntentHighPriorityReport
	case strings.Contains(t, "open tickets") && strings.Contains(t, "active customers"):
		return IntentActiveOpenTickets
	case strings.Contains(t, "upgrad"):
		return IntentUpgrade
	case strings.Contains(t, "customer information"):
		return IntentCustomerLookup
	default:
		return IntentGeneric
	}
}

// ParseCustomerID returns the first number following "id" or "customer", or 1
// when there is none.
func ParseCustomerID(text string) int64 {
	m := customerIDPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return defaultCustomerID
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id == 0 {
		return defaultCustomerID
	}
	return id
}

// ParseEmail returns the first email address in text, or "".
func ParseEmail(text string) string {
	return emailPattern.FindString(text)
}
