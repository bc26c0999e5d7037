package timeutil

import (
	"fmt"
	"time"
)

// Overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
// Совпадение границы (aEnd == bStart) пересечением не считается:
// слоты впритык разрешены.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// LoadZone загружает IANA-зону по имени. Пустое имя и "Local" отклоняются:
// зона должна быть задана явно, молчаливого дефолта нет.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone is empty")
	}
	if name == "Local" {
		return nil, fmt.Errorf("timezone %q is not a valid IANA zone", name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// FormatRange форматирует интервал слота в его зоне отображения.
// Хранимые моменты всегда UTC, зона влияет только на вывод.
func FormatRange(start, end time.Time, loc *time.Location) string {
	s := start.In(loc)
	e := end.In(loc)
	if s.Year() == e.Year() && s.YearDay() == e.YearDay() {
		return fmt.Sprintf("%s-%s", s.Format("02.01.2006 15:04"), e.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", s.Format("02.01.2006 15:04"), e.Format("02.01.2006 15:04"))
}
