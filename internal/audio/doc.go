// Package audio converts between captured float samples and the encodings
// carried on the room bus. Everything here is pure: no devices, no goroutines.
package audio
