package services

import (
	"regexp"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/utils"
)

const (
	smsByteLimit = 90
	lmsByteLimit = 2000
)

var placeholder = regexp.MustCompile(`#\{([^{}]+)\}`)

// Render substitutes #{key} placeholders. Unknown keys stay in the text and are returned as missing.
func Render(content string, vars map[string]string) (string, []string) {
	var missing []string
	seen := map[string]bool{}
	out := placeholder.ReplaceAllStringFunc(content, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-1])
		if v, ok := vars[key]; ok {
			return v
		}
		if !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
		return m
	})
	return out, missing
}

// Placeholders lists the distinct keys used by content in order of appearance.
func Placeholders(content string) []string {
	var keys []string
	seen := map[string]bool{}
	for _, m := range placeholder.FindAllStringSubmatch(content, -1) {
		key := strings.TrimSpace(m[1])
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// EUCKRLength counts bytes the way carriers bill them: ASCII is one byte, everything else two.
func EUCKRLength(text string) int {
	n := 0
	for _, r := range text {
		if r < 0x80 {
			n++
		} else {
			n += 2
		}
	}
	return n
}

// DetectType picks SMS or LMS from the billed length.
func DetectType(text string) (string, error) {
	n := EUCKRLength(text)
	switch {
	case n <= smsByteLimit:
		return models.MessageTypeSMS, nil
	case n <= lmsByteLimit:
		return models.MessageTypeLMS, nil
	}
	return "", ErrMessageTooLong
}

// MessageContext is everything the standard variables are built from.
type MessageContext struct {
	Participant   *models.Participant
	Tour          *models.Tour
	RoomNumber    string
	BoardingPlace string
	BoardingTime  string
	URL           string
}

func setVar(vars map[string]string, ko, en, value string) {
	vars[ko] = value
	vars[en] = value
}

// VariablesFor builds the standard variable set under Korean and English keys. Extras win.
func VariablesFor(mc MessageContext, extras map[string]string) map[string]string {
	vars := map[string]string{}
	if p := mc.Participant; p != nil {
		setVar(vars, "이름", "name", p.Name)
		setVar(vars, "전화번호", "phone", utils.FormatPhone(p.Phone))
		setVar(vars, "팀", "team", p.TeamName)
	}
	if t := mc.Tour; t != nil {
		setVar(vars, "투어명", "tour_name", t.Title)
		setVar(vars, "출발일", "start_date", t.StartDate)
		setVar(vars, "종료일", "end_date", t.EndDate)
		setVar(vars, "골프장", "golf_course", t.GolfCourse)
		setVar(vars, "숙소", "hotel", t.Accommodation)
		setVar(vars, "기사", "driver_name", t.DriverName)
		setVar(vars, "기사연락처", "driver_phone", utils.FormatPhone(t.DriverPhone))
	}
	if mc.RoomNumber != "" {
		setVar(vars, "객실", "room", mc.RoomNumber)
	}
	if mc.BoardingPlace != "" {
		setVar(vars, "탑승지", "boarding_place", mc.BoardingPlace)
	}
	if mc.BoardingTime != "" {
		setVar(vars, "탑승시간", "boarding_time", mc.BoardingTime)
	}
	if mc.URL != "" {
		setVar(vars, "링크", "url", mc.URL)
	}
	for k, v := range extras {
		vars[k] = v
	}
	return vars
}
