package dates

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// strategy devuelve OK, ReasonMalformed (forma reconocida, valores inválidos)
// o ReasonUnsupported (no reconoce la forma).
type strategy func(today time.Time, s string) (Date, Reason)

type layout struct {
	value   string
	hasTime bool
}

// formatos absolutos comunes, día antes que mes
var dayFirstLayouts = []layout{
	{"2/1/2006 15:04:05", true},
	{"2/1/2006 15:04", true},
	{"2/1/2006", false},
	{"2-1-2006 15:04:05", true},
	{"2-1-2006 15:04", true},
	{"2-1-2006", false},
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
	{"2 January 2006 15:04", true},
	{"2 Jan 2006 15:04", true},
	{"2 January 2006", false},
	{"2 Jan 2006", false},
	{"Mon, 2 Jan 2006 15:04:05 -0700", true},
	{"Mon, 2 Jan 2006 15:04:05", true},
}

// orden de prioridad del buzón de correo
var emailLayouts = []layout{
	{"2/1/2006 15:04", true},
	{"2/1/2006", false},
	{"2 Jan 2006 15:04", true},
	{"2 January 2006 15:04", true},
	{"2006-01-02 15:04:05", true},
	{"Mon, 2 Jan 2006 15:04:05", true},
	{"2-1-2006 15:04", true},
	{"1/2/2006 15:04", true},
	{"2006/1/2 15:04:05", true},
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02", false},
}

var emailDatePartLayouts = []layout{
	{"2/1/2006", false},
	{"2-1-2006", false},
	{"1/2/2006", false},
	{"2006-01-02", false},
}

var looseLayouts = []layout{
	{"2-1-2006 15:04:05", true},
	{"2-1-2006 15:04", true},
	{"2-1-2006 3:04pm", true},
	{"2-1-2006 3:04PM", true},
	{"2006-1-2 15:04:05", true},
	{"2006-1-2 15:04", true},
}

var chains = map[Dialect][]strategy{
	RelativeDay:    {absolute(dayFirstLayouts), relativeWord, weekdayPrefixed},
	LooseTimestamp: {absolute(dayFirstLayouts), looseTokens},
	DayFirst:       {absolute(dayFirstLayouts)},
	WeekdayTime:    {absolute(emailLayouts), relativeWord, weekdayClock, datePart(emailDatePartLayouts)},
}

func absolute(layouts []layout) strategy {
	return func(_ time.Time, s string) (Date, Reason) {
		return parseLayouts(layouts, s)
	}
}

func parseLayouts(layouts []layout, s string) (Date, Reason) {
	reason := ReasonUnsupported
	for _, l := range layouts {
		t, err := time.Parse(l.value, s)
		if err == nil {
			return fromTime(t, l.hasTime), OK
		}
		if outOfRange(err) {
			reason = ReasonMalformed
		}
	}
	return Date{}, reason
}

// la forma coincidió pero algún componente no existe (día 32, mes 13...)
func outOfRange(err error) bool {
	var pe *time.ParseError
	if errors.As(err, &pe) {
		return strings.Contains(pe.Message, "out of range")
	}
	return false
}

func fromTime(t time.Time, hasTime bool) Date {
	if t.Location() != time.UTC {
		// se conserva el reloj de pared de la fuente
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	}
	if !hasTime {
		t = Midnight(t)
	}
	return Date{Time: t, HasTime: hasTime}
}

func atClock(day time.Time, clock string) (Date, Reason) {
	for _, l := range []string{"15:04", "15:04:05", "3:04pm", "3:04PM"} {
		c, err := time.Parse(l, clock)
		if err == nil {
			t := day.Add(time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute + time.Duration(c.Second())*time.Second)
			return Date{Time: t, HasTime: true}, OK
		}
	}
	return Date{}, ReasonMalformed
}

// "Today", "Yesterday, 1 January", "Today 10:15"
func relativeWord(today time.Time, s string) (Date, Reason) {
	fields := strings.Fields(s)
	word := strings.ToLower(strings.TrimRight(fields[0], ",.;:"))
	var day time.Time
	switch word {
	case "today":
		day = today
	case "yesterday":
		day = today.AddDate(0, 0, -1)
	default:
		return Date{}, ReasonUnsupported
	}
	for _, f := range fields[1:] {
		if strings.Contains(f, ":") {
			return atClock(day, strings.TrimRight(f, ",.;"))
		}
	}
	return Date{Time: day}, OK
}

var weekdays = func() map[string]time.Weekday {
	m := make(map[string]time.Weekday, 14)
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		m[name] = d
		m[name[:3]] = d
	}
	return m
}()

func lookupWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdays[strings.ToLower(strings.TrimRight(s, ",."))]
	return d, ok
}

var dayMonthLayouts = []layout{
	{"2 January 2006", false},
	{"2 Jan 2006", false},
}

// "Friday, 18 July" o "Monday, 30 December 2024"; sin año se asume el actual
func weekdayPrefixed(today time.Time, s string) (Date, Reason) {
	prefix, rest, ok := strings.Cut(s, ",")
	if !ok {
		return Date{}, ReasonUnsupported
	}
	if _, ok := lookupWeekday(strings.TrimSpace(prefix)); !ok {
		return Date{}, ReasonUnsupported
	}
	rest = strings.TrimSpace(rest)
	if d, r := parseLayouts(dayMonthLayouts, rest); r != ReasonUnsupported {
		return d, r
	}
	for _, l := range []string{"2 January", "2 Jan"} {
		t, err := time.Parse(l, rest)
		if err != nil {
			continue
		}
		d := time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if d.Day() != t.Day() {
			// 29 de febrero en un año no bisiesto
			return Date{}, ReasonMalformed
		}
		return Date{Time: d}, OK
	}
	return Date{}, ReasonMalformed
}

// "Tue 07:46": la ocurrencia más reciente de ese día, hoy incluido
func weekdayClock(today time.Time, s string) (Date, Reason) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Date{}, ReasonUnsupported
	}
	wd, ok := lookupWeekday(fields[0])
	if !ok || !strings.Contains(fields[1], ":") {
		return Date{}, ReasonUnsupported
	}
	back := (int(today.Weekday()) - int(wd) + 7) % 7
	return atClock(today.AddDate(0, 0, -back), fields[1])
}

// último recurso del correo: solo la parte de fecha
func datePart(layouts []layout) strategy {
	return func(_ time.Time, s string) (Date, Reason) {
		first := strings.Fields(s)[0]
		return parseLayouts(layouts, first)
	}
}

var dateToken = regexp.MustCompile(`^\d{1,4}-\d{1,2}-\d{1,4}$`)

// fecha y hora sueltas dentro de un texto: "Order placed 03-02-2024 at 14:30 GMT".
// Solo cuenta como hora un token que empieza con dígito; si la hora no se puede leer
// queda la fecha a medianoche.
func looseTokens(_ time.Time, s string) (Date, Reason) {
	var datePart, clock string
	for _, f := range strings.Fields(s) {
		f = strings.Trim(f, ",;.()[]")
		if datePart == "" && dateToken.MatchString(f) {
			datePart = f
		}
		if strings.Contains(f, ":") && f[0] >= '0' && f[0] <= '9' {
			clock = f
		}
	}
	if datePart == "" {
		return Date{}, ReasonUnsupported
	}
	if clock != "" {
		if d, r := parseLayouts(looseLayouts, datePart+" "+clock); r == OK {
			return d, r
		}
	}
	d, r := parseLayouts([]layout{{"2-1-2006", false}, {"2006-1-2", false}}, datePart)
	if r == ReasonUnsupported {
		r = ReasonMalformed
	}
	return d, r
}
