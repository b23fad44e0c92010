// Package service contains the operations behind the HTTP handlers.
//
// It receives validated records from the handler layer. Items are neither
// stored nor modified; the item service only hands them back.
package service
