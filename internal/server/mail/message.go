package mail

import (
	"fmt"
	"time"
)

const VerificationSubject = "Your verification code"

// VerificationBody renders the plain-text body carrying code.
func VerificationBody(firstName, code string, ttl time.Duration) string {
	greeting := "Hello"
	if firstName != "" {
		greeting += " " + firstName
	}
	return fmt.Sprintf("%s,\n\nYour verification code is %s.\nIt expires in %s.\n\nIf you did not create an account, ignore this message.\n",
		greeting, code, humanize(ttl))
}

func humanize(d time.Duration) string {
	switch {
	case d%time.Hour == 0 && d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d%time.Minute == 0 && d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d.Round(time.Second)/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
