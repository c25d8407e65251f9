package ai

import "strings"

// CleanResponse removes chat template tokens, wrapping quotes and any leading command
// characters so that bot output cannot trigger other bots.
func CleanResponse(resp string) string {
	resp = strings.ReplaceAll(resp, "<|im_start|>", "")
	resp = strings.ReplaceAll(resp, "<|im_end|>", "")
	resp = strings.ReplaceAll(resp, "\r\n", "\n")
	resp = strings.TrimSpace(resp)
	if len(resp) >= 2 && resp[0] == '"' && resp[len(resp)-1] == '"' {
		resp = resp[1 : len(resp)-1]
	}
	resp = strings.TrimLeft(resp, "!/,.$?")
	return strings.TrimSpace(resp)
}

// Flatten collapses newlines into spaces for platforms that only show one line.
func Flatten(resp string) string {
	return strings.Join(strings.Fields(resp), " ")
}
