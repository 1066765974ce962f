package infrastructure

import "strings"

// shellSpecialChars are the characters that force quoting when a command line is logged
const shellSpecialChars = " \t\n\r'\"$`\\!*?[](){}|;<>&~#%"

// QuoteArg quotes one argument so a logged command line can be pasted into a shell.
// exec.Command never sees the quoted form.
func QuoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, shellSpecialChars) {
		return s
	}
	// Single quotes cannot be escaped inside single quotes: close, emit "'", reopen.
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// QuoteCommand renders binary and args as a single loggable shell line
func QuoteCommand(binary string, args ...string) string {
	var b strings.Builder
	b.WriteString(QuoteArg(binary))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(QuoteArg(arg))
	}
	return b.String()
}
