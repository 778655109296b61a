// Package view holds the markup tree shared by the persisted data format and the
// editing view, and converts it to and from HTML.
package view
