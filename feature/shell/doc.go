// Package shell is the interactive operator console.
//
// It reads numbered menu choices and prompted values line by line, calls the
// dormitory service and renders tables and receipts with lipgloss. The first
// run asks for the dormitory setup. Invalid numbers and dates re-prompt; an
// unknown submenu choice returns to the dashboard. End of input exits.
package shell
