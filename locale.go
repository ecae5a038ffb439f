package calpdf

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Locale holds the words printed on a calendar.
type Locale struct {
	Tag language.Tag

	// Months are the nominative month names, January first.
	Months [12]string

	// Weekdays are the short day names, Monday first.
	Weekdays [DaysPerWeek]string

	// Continued is appended to the title on continuation pages.
	Continued string

	// Notes is the placeholder printed in the notes area of each day.
	Notes string
}

// Built-in locales.
var (
	Russian = Locale{
		Tag: language.Russian,
		Months: [12]string{
			"январь", "февраль", "март", "апрель", "май", "июнь",
			"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
		},
		Weekdays:  [DaysPerWeek]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"},
		Continued: "продолжение",
		Notes:     "Напишите здесь",
	}

	English = Locale{
		Tag: language.English,
		Months: [12]string{
			"january", "february", "march", "april", "may", "june",
			"july", "august", "september", "october", "november", "december",
		},
		Weekdays:  [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Continued: "continued",
		Notes:     "Notes",
	}
)

var (
	builtinLocales = []Locale{Russian, English}
	localeMatcher  = language.NewMatcher([]language.Tag{Russian.Tag, English.Tag})
)

// LookupLocale returns the built-in locale closest to the BCP 47 tag name,
// for example "ru", "en-GB" or "ru-RU".
func LookupLocale(name string) (Locale, error) {
	tag, err := language.Parse(name)
	if err != nil {
		return Locale{}, fmt.Errorf("calpdf: locale %q: %w", name, err)
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return Locale{}, fmt.Errorf("calpdf: no calendar locale for %q", name)
	}
	return builtinLocales[idx], nil
}

// MonthName returns the title-cased name of month m.
func (l Locale) MonthName(m Month) string {
	if m.Month < 1 || int(m.Month) > len(l.Months) {
		return strconv.Itoa(int(m.Month))
	}
	return cases.Title(l.Tag).String(l.Months[m.Month-1])
}

// Title returns the page heading for m, such as "Январь 2026".
func (l Locale) Title(m Month) string {
	return l.MonthName(m) + " " + strconv.Itoa(m.Year)
}

// ContinuedTitle returns the heading for continuation pages of m.
func (l Locale) ContinuedTitle(m Month) string {
	if l.Continued == "" {
		return l.Title(m)
	}
	return l.Title(m) + " (" + l.Continued + ")"
}

// NeedsUnicodeFont reports whether any label of l falls outside Latin-1,
// which the core PDF fonts cannot print.
func (l Locale) NeedsUnicodeFont() bool {
	words := append(l.Months[:], l.Weekdays[:]...)
	words = append(words, l.Continued, l.Notes)
	for _, w := range words {
		for _, r := range w {
			if r > 0xFF {
				return true
			}
		}
	}
	return false
}
