package display

// ANSI foreground codes for client messages; board squares use the theme
// palette instead
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Prompt wraps the readline prompt context
func Prompt(context string) string {
	return Bold + Yellow + context + " >" + Reset + " "
}
