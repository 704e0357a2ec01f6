package prediction

import "time"

const dateLayout = "Monday 02 Jan"

// FormatDate renders t as weekday, zero-padded day and abbreviated month.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
