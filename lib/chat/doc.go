// Package chat routes inbound console lines to pattern subscriptions.
//
// A Dispatcher holds an ordered list of (regexp, handler) subscriptions and
// tests every inbound line against all of them synchronously, in arrival
// order. Handlers return an echo decision; a line is shown to the local
// user only if no matching handler vetoes it. This is how the server clock
// probe hides its own query artifacts from the display without touching
// unrelated traffic.
package chat
