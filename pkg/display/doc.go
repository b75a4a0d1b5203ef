// Package display renders pack lists and messages for the command line.
//
// Terminal output is styled with lipgloss using the semantic styles in
// styles.yaml. The same view can be written as plain text, YAML or JSON
// for scripting.
package display
