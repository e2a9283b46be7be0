package auditlog

import "strings"

const redacted = "<redacted>"

// redactors maps a credential flag to the function that rewrites its value.
var redactors = map[string]func(string) string{
	"--secret-access-key": func(string) string { return redacted },
	"--session-token":     func(string) string { return redacted },
	"--access-key-id":     maskAccessKeyID,
}

// maskAccessKeyID keeps the last four characters of an access key ID, which
// is enough to tell keys apart in the log.
func maskAccessKeyID(id string) string {
	if len(id) <= 4 {
		return redacted
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}

// SanitizeArgs rewrites credential flag values in args, in both the
// "--flag value" and "--flag=value" forms. Everything after a bare "--" is
// kept as is.
func SanitizeArgs(args []string) []string {
	out := make([]string, len(args))
	var pending func(string) string

	for i, arg := range args {
		switch {
		case pending != nil:
			out[i] = pending(arg)
			pending = nil
		case arg == "--":
			copy(out[i:], args[i:])
			return out
		default:
			out[i] = arg
			flag, value, inline := strings.Cut(arg, "=")
			redact, ok := redactors[flag]
			if !ok {
				continue
			}
			if inline {
				out[i] = flag + "=" + redact(value)
			} else {
				pending = redact
			}
		}
	}
	return out
}
