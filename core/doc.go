// Package core defines the Golden Ticket domain records served by the API and
// written by the development seed: schools taking part in the lottery and the
// global configuration that sets the application window.
package core
