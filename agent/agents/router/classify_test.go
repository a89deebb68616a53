package router

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

// triggers holds one phrase per keyword rule, in rule order.
var triggers = []string{
	"cancel my subscription over billing",
	"update my email and show history",
	"I was charged twice",
	"show high-priority tickets",
	"open tickets of active customers",
	"upgrade me",
	"customer information please",
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Intent
	}{
		{"Get customer information for ID 5", IntentCustomerLookup},
		{"I'm customer 12345 and need help upgrading my account", IntentUpgrade},
		{"Show me all active customers who have open tickets", IntentActiveOpenTickets},
		{"I've been charged twice, please refund immediately!", IntentBillingEscalation},
		{"Update my email to new@email.com\n and show my ticket history", IntentUpdateAndHistory},
		{"What's the status of all high-priority tickets for premium customers?", IntentHighPriorityReport},
		{"I want to cancel my subscription but I'm having billing issues", IntentCancelWithBilling},
		{"cancel my subscription", IntentGeneric},
		{"REFUND", IntentBillingEscalation},
		{"", IntentGeneric},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Fatalf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("the highest priority rule present decides", prop.ForAll(
		func(picks []int, upper bool) bool {
			parts := make([]string, 0, len(picks))
			want := IntentGeneric
			best := len(triggers)
			for _, p := range picks {
				parts = append(parts, triggers[p])
				if p < best {
					best = p
					want = Intents[p]
				}
			}
			text := strings.Join(parts, ". ")
			if upper {
				text = strings.ToUpper(text)
			}
			got := Classify(text)
			return got == want && Classify(text) == got
		},
		gen.SliceOf(gen.IntRange(0, len(triggers)-1)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestParseCustomerID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int64
	}{
		{"Get customer information for ID 5", 5},
		{"I'm customer 12345 and need help", 12345},
		{"customer42 called", 42},
		{"id 7 then customer 9", 7},
		{"no number here", 1},
		{"customer 0", 1},
		{"customer 99999999999999999999999", 1},
	}
	for _, tt := range tests {
		if got := ParseCustomerID(tt.text); got != tt.want {
			t.Fatalf("ParseCustomerID(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseEmail(t *testing.T) {
	t.Parallel()

	if got := ParseEmail("Update my email to new.name-1@mail-host.com please"); got != "new.name-1@mail-host.com" {
		t.Fatalf("ParseEmail() = %q", got)
	}
	if got := ParseEmail("no address"); got != "" {
		t.Fatalf("ParseEmail() = %q, want empty", got)
	}
}

func TestPremiumPolicies(t *testing.T) {
	t.Parallel()

	customers := []contractx.Customer{
		{ID: 2, Status: contractx.StatusActive},
		{ID: 3, Status: "vip"},
		{ID: 12345, Status: contractx.StatusActive},
	}
	tests := []struct {
		policy PremiumPolicy
		want   []int64
	}{
		{"", []int64{3, 12345}},
		{PremiumVIPIDOrStatus, []int64{3, 12345}},
		{PremiumStatus, []int64{3}},
		{PremiumOddID, []int64{3, 12345}},
		{" Status ", []int64{3}},
	}
	for _, tt := range tests {
		match, err := tt.policy.Matcher(12345)
		if err != nil {
			t.Fatalf("Matcher(%q) error = %v", tt.policy, err)
		}
		var got []int64
		for _, c := range customers {
			if match(c) {
				got = append(got, c.ID)
			}
		}
		if len(got) != len(tt.want) {
			t.Fatalf("policy %q picked %v, want %v", tt.policy, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("policy %q picked %v, want %v", tt.policy, got, tt.want)
			}
		}
	}

	if _, err := PremiumPolicy("gold").Matcher(12345); err == nil {
		t.Fatal("Matcher() expected error for unknown policy")
	}
}
