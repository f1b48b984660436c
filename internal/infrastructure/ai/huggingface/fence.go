package huggingface

import "strings"

// FenceKind tags the outcome of stripping a markdown code fence from a
// completion response.
type FenceKind int

const (
	// FenceNone means the text had no fence; it is returned trimmed.
	FenceNone FenceKind = iota
	// FenceTagged means a ```json fence was found and unwrapped.
	FenceTagged
	// FencePlain means a bare ``` fence was found and unwrapped.
	FencePlain
	// FenceMalformed means an opening fence had no closing fence; the text
	// after the opener is returned trimmed.
	FenceMalformed
)

// StripCodeFence removes a markdown code fence wrapping, keeping only the
// inner text. Models frequently wrap JSON output in ```json blocks despite
// the JSON-only instruction.
func StripCodeFence(text string) (string, FenceKind) {
	if inner, kind, ok := unwrap(text, "```json"); ok {
		if kind == FenceMalformed {
			return inner, kind
		}
		return inner, FenceTagged
	}
	if inner, kind, ok := unwrap(text, "```"); ok {
		if kind == FenceMalformed {
			return inner, kind
		}
		return inner, FencePlain
	}
	return strings.TrimSpace(text), FenceNone
}

func unwrap(text, opener string) (string, FenceKind, bool) {
	start := strings.Index(text, opener)
	if start == -1 {
		return "", FenceNone, false
	}
	rest := text[start+len(opener):]
	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest), FenceMalformed, true
	}
	return strings.TrimSpace(rest[:end]), FencePlain, true
}
