package router

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

// PremiumPolicy names the rule that picks premium customers for the
// high-priority report.
type PremiumPolicy string

const (
	PremiumVIPIDOrStatus PremiumPolicy = "vip-id-or-status"
	PremiumStatus        PremiumPolicy = "status"
	PremiumOddID         PremiumPolicy = "odd-id"
)

const statusVIP = "vip"

// Matcher returns the predicate for p. vipID is the customer id the
// vip-id-or-status policy always treats as premium.
func (p PremiumPolicy) Matcher(vipID int64) (func(contractx.Customer) bool, error) {
	switch PremiumPolicy(strings.ToLower(strings.TrimSpace(string(p)))) {
	case "", PremiumVIPIDOrStatus:
		return func(c contractx.Customer) bool {
			return c.ID == vipID || c.Status == statusVIP
		}, nil
	case PremiumStatus:
		return func(c contractx.Customer) bool {
			return c.Status == statusVIP
		}, nil
	case PremiumOddID:
		return func(c contractx.Customer) bool {
			return c.ID%2 == 1
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown premium policy %q", contractx.ErrValidation, string(p))
	}
}
