// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolbox bundles the built-in lookup tools behind the search,
// retrieve and analyze capabilities. The datasets are a small fixed corpus
// so the whole pipeline runs without external services.
package toolbox

// Ticket is an issue-tracker record.
type Ticket struct {
	Title       string
	Status      string
	Assignee    string
	Priority    string
	Description string
	Created     string
	Updated     string
}

// Doc is a wiki page.
type Doc struct {
	Title   string
	Content string
	Updated string
}

// Metric is a week-over-week analytics series snapshot.
type Metric struct {
	Current   float64
	Previous  float64
	Trend     string
	ChangePct float64
	Period    string
}

var tickets = map[string]Ticket{
	"SHOP-2847": {
		Title:       "Safari checkout crashes on iOS 17",
		Status:      "In Review",
		Assignee:    "Alice Chen",
		Priority:    "P0",
		Description: "Users on Safari 17/iOS report checkout crashes at payment step. Hotfix deployed yesterday, monitoring for recovery.",
		Created:     "2025-01-15",
		Updated:     "2025-01-18",
	},
	"SHOP-2901": {
		Title:       "Payment gateway timeout",
		Status:      "Open",
		Assignee:    "Bob Smith",
		Priority:    "P1",
		Description: "Stripe webhook timeouts causing order confirmation delays.",
		Created:     "2025-01-16",
		Updated:     "2025-01-17",
	},
	"SHOP-3001": {
		Title:       "Mobile web performance degradation",
		Status:      "In Progress",
		Assignee:    "Carol Wang",
		Priority:    "P1",
		Description: "Mobile page load times increased 20% after new analytics integration.",
		Created:     "2025-01-14",
		Updated:     "2025-01-18",
	},
	"SHOP-2955": {
		Title:       "Address validation API errors",
		Status:      "Open",
		Assignee:    "David Lee",
		Priority:    "P2",
		Description: "Third-party address validation service returning 500 errors for Canadian addresses.",
		Created:     "2025-01-17",
		Updated:     "2025-01-17",
	},
}

var docs = map[string]Doc{
	"checkout-rewrite": {
		Title:   "Checkout Rewrite Q2 2025",
		Content: "Project is 75% complete and on track for Q2 delivery. Main focus areas: Safari compatibility, payment flow optimization, mobile UX improvements.",
		Updated: "2025-01-15",
	},
	"mobile-strategy": {
		Title:   "Mobile Optimization Strategy 2025",
		Content: "Mobile conversion funnel analysis shows Safari-specific issues affecting iOS users. Target: improve mobile conversion rate by 15% through performance and UX enhancements.",
		Updated: "2025-01-10",
	},
	"payment-architecture": {
		Title:   "Payment Flow Architecture",
		Content: "Current payment architecture uses Stripe webhooks for order confirmation. Known issues: webhook timeouts during peak traffic, retry logic needs improvement.",
		Updated: "2025-01-12",
	},
}

var metrics = map[string]Metric{
	"mobile_conversions": {
		Current:   3.2,
		Previous:  3.5,
		Trend:     "down",
		ChangePct: -8.6,
		Period:    "week-over-week",
	},
	"checkout_completion": {
		Current:   78.5,
		Previous:  82.1,
		Trend:     "down",
		ChangePct: -4.4,
		Period:    "week-over-week",
	},
	"safari_users": {
		Current:   24.3,
		Previous:  25.1,
		Trend:     "down",
		ChangePct: -3.2,
		Period:    "week-over-week",
	},
	"payment_success_rate": {
		Current:   96.2,
		Previous:  97.8,
		Trend:     "down",
		ChangePct: -1.6,
		Period:    "week-over-week",
	},
}
