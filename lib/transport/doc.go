// Package transport carries console traffic between the client and a
// remote server: newline-delimited text in both directions over TCP.
// It owns nothing about line meaning; inbound lines go straight to the
// chat dispatcher, and lines a handler suppresses never reach the local
// display.
package transport
