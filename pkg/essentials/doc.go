// Package essentials provides the basic editor plugins: paragraphs, headings,
// bulleted and numbered lists, and the bold and italic text attributes.
package essentials
