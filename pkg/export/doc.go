// Package export renders sequences, techniques and curricula into the CSV
// and JSON files instructors share outside the app.
package export
