package insights

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

// HolidayCalendar maps YYYY-MM-DD to a holiday name
type HolidayCalendar map[string]string

// Name returns the holiday on day, if any
func (c HolidayCalendar) Name(day string) (string, bool) {
	name, ok := c[day]
	return name, ok
}

// DefaultHolidays returns the Delhi gazetted holidays for 2025
func DefaultHolidays() HolidayCalendar {
	return HolidayCalendar{
		"2025-01-26": "Republic Day",
		"2025-03-14": "Holi",
		"2025-03-31": "Id-ul-Fitr",
		"2025-04-10": "Mahavir Jayanti",
		"2025-04-18": "Good Friday",
		"2025-05-12": "Buddha Purnima",
		"2025-06-07": "Id-ul-Zuha (Bakrid)",
		"2025-07-06": "Muharram",
		"2025-08-15": "Independence Day",
		"2025-08-16": "Janmashtami",
		"2025-09-05": "Milad-un-Nabi",
		"2025-10-02": "Mahatma Gandhi Birthday",
		"2025-10-20": "Diwali",
		"2025-11-05": "Guru Nanak's Birthday",
		"2025-12-25": "Christmas",
	}
}

type holidayFile struct {
	Holidays []struct {
		Date string `yaml:"date"`
		Name string `yaml:"name"`
	} `yaml:"holidays"`
}

// LoadHolidays reads a calendar file of the form
//
//	holidays:
//	  - date: 2025-01-26
//	    name: Republic Day
//
// The file replaces the default calendar entirely.
func LoadHolidays(path string) (HolidayCalendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file: %w", err)
	}
	var file holidayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse holiday file %s: %w", path, err)
	}

	cal := make(HolidayCalendar, len(file.Holidays))
	for i, h := range file.Holidays {
		day, ok := dataprocessing.ParseDate(h.Date)
		if !ok {
			return nil, fmt.Errorf("holiday %d: invalid date %q", i+1, h.Date)
		}
		name := strings.TrimSpace(h.Name)
		if name == "" {
			return nil, fmt.Errorf("holiday %d: name is required", i+1)
		}
		cal[dataprocessing.FormatDate(day, true)] = name
	}
	return cal, nil
}
