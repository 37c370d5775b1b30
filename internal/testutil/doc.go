// Package testutil contains fakes shared across package tests: scripted
// agents that answer without a provider and a recorder for published events.
// They are not intended for production usage.
package testutil
